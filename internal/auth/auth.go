package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gdg-garage/outing-api/internal/config"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	TokenDuration   = 24 * time.Hour
	TokenCookieName = "auth_token"
	stateCookieName = "oauth_state"
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       cfg.OAuthScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		db:  db,
		cfg: cfg,
	}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Path:     "/",
	})
	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Profile is the subset of the provider's userinfo document we keep.
type Profile struct {
	Subject  string `json:"sub"`
	ID       string `json:"id"`
	Username string `json:"preferred_username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture"`
}

func (p Profile) externalID() string {
	if p.Subject != "" {
		return p.Subject
	}
	return p.ID
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	state, err := r.Cookie(stateCookieName)
	if err != nil || state.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(h.cfg.OAuthUserInfoURL)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	user, err := h.UpsertUser(r.Context(), profile)
	if err != nil {
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(*user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    jwtToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	})

	if h.cfg.FrontendURL != "" {
		http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
		return
	}
	w.Write([]byte(fmt.Sprintf("Welcome %s! You are logged in.", user.Username)))
}

// UpsertUser creates or refreshes the user behind profile. Users listed in
// ADMIN_EXTERNAL_IDS are promoted to admin; other roles are left as stored.
func (h *AuthHandler) UpsertUser(ctx context.Context, profile Profile) (*models.User, error) {
	externalID := profile.externalID()
	if externalID == "" {
		return nil, fmt.Errorf("userinfo has no subject")
	}

	var user models.User
	if err := h.db.WithContext(ctx).FirstOrInit(&user, models.User{ExternalID: externalID}).Error; err != nil {
		return nil, err
	}
	user.Username = profile.Username
	if user.Username == "" {
		user.Username = profile.Name
	}
	user.Email = profile.Email
	user.Avatar = profile.Picture
	if user.Role == "" {
		user.Role = models.RoleMember
	}
	if slices.Contains(h.cfg.AdminExternalIDs, externalID) {
		user.Role = models.RoleAdmin
	}

	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) GenerateToken(user models.User) (string, error) {
	return h.signToken(Principal{UserID: user.ID, Role: user.Role})
}

func (h *AuthHandler) signToken(p Principal) (string, error) {
	claims := jwt.MapClaims{
		"user_id": p.UserID,
		"role":    p.Role,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

type MeResponse struct {
	Body struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
		Role     string `json:"role"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *struct{}) (*MeResponse, error) {
	principal, ok := PrincipalFrom(ctx)
	if !ok {
		return nil, errUnauthorized
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, principal.UserID).Error; err != nil {
		return nil, errUserNotFound
	}

	res := &MeResponse{}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	res.Body.Email = user.Email
	res.Body.Avatar = user.Avatar
	res.Body.Role = user.Role
	return res, nil
}
