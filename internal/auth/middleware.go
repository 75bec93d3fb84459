package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

var (
	errUnauthorized = huma.Error401Unauthorized("Unauthorized")
	errUserNotFound = huma.Error404NotFound("User not found")
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	if !ok || userID == 0 {
		return Principal{}, false
	}
	role, _ := ctx.Value(RoleKey).(string)
	return Principal{UserID: userID, Role: role}, true
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, p.UserID)
	return context.WithValue(ctx, RoleKey, p.Role)
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			return token, false
		}
	}
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ParseToken verifies tokenString and returns its principal and expiry.
func (h *AuthHandler) ParseToken(tokenString string) (Principal, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, time.Time{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, time.Time{}, fmt.Errorf("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return Principal{}, time.Time{}, fmt.Errorf("invalid token claims")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleMember
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return Principal{UserID: uint(userIDFloat), Role: role}, expiresAt, nil
}

// AuthMiddleware accepts a JWT from the Authorization header or the auth cookie.
// Cookie sessions are refreshed once they are past half their lifetime.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, fromCookie := tokenFromRequest(r)
		if tokenString == "" {
			http.Error(w, "Unauthorized: No token found", http.StatusUnauthorized)
			return
		}

		principal, expiresAt, err := h.ParseToken(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		if fromCookie && !expiresAt.IsZero() && time.Until(expiresAt) < TokenDuration/2 {
			if newToken, err := h.signToken(principal); err == nil {
				http.SetCookie(w, &http.Cookie{
					Name:     TokenCookieName,
					Value:    newToken,
					Expires:  time.Now().Add(TokenDuration),
					HttpOnly: true,
					Path:     "/",
				})
			}
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
