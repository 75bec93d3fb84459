package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/outing-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth          *auth.AuthHandler
	Participation *ParticipationHandler
	Catering      *CateringHandler
	Dietary       *DietaryHandler
}

func NewAPIConfig() huma.Config {
	config := huma.DefaultConfig("Outing API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.TokenCookieName,
		},
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	config.Security = []map[string][]string{{"cookieAuth": {}}, {"bearerAuth": {}}}
	return config
}

func RegisterRoutes(r *chi.Mux, h Handlers) huma.API {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/auth/login", h.Auth.HandleLogin)
	r.Get("/auth/callback", h.Auth.HandleCallback)

	// Everything served by the API requires a session.
	var api huma.API
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.AuthMiddleware)
		api = humachi.New(r, NewAPIConfig())
		registerOperations(api, h)
	})
	return api
}

func registerOperations(api huma.API, h Handlers) {
	huma.Get(api, "/me", h.Auth.HandleMe)

	p := h.Participation
	huma.Post(api, "/participations", p.HandleCreate)
	huma.Get(api, "/participations", p.HandleList)
	huma.Get(api, "/participations/quote", p.HandleQuote)
	huma.Get(api, "/participations/{id}", p.HandleGet)
	huma.Patch(api, "/participations/{id}", p.HandleUpdate)
	huma.Delete(api, "/participations/{id}", p.HandleDelete)
	huma.Get(api, "/participations/{id}/history", p.HandleHistory)
	huma.Post(api, "/participations/{id}/confirm", p.HandleConfirm)
	huma.Post(api, "/participations/{id}/waitlist", p.HandleWaitlist)
	huma.Post(api, "/participations/{id}/promote", p.HandlePromote)
	huma.Post(api, "/participations/{id}/cancel", p.HandleCancel)
	huma.Post(api, "/participations/{id}/badge", p.HandleBadge)
	huma.Get(api, "/events/{id}/availability", p.HandleAvailability)
	huma.Put(api, "/events/{id}/capacity", p.HandleSetCapacity)

	c := h.Catering
	huma.Get(api, "/catering/menus/active", c.HandleActiveMenus)
	huma.Get(api, "/catering/options", c.HandleOptions)
	huma.Get(api, "/catering/meals", c.HandleMeals)
	huma.Post(api, "/catering/{kind}", c.HandleCreate)
	huma.Get(api, "/catering/{kind}/{id}", c.HandleGet)
	huma.Put(api, "/catering/{kind}/{id}", c.HandleUpdate)
	huma.Delete(api, "/catering/{kind}/{id}", c.HandleDelete)

	d := h.Dietary
	huma.Post(api, "/dietary-needs", d.HandleCreate)
	huma.Get(api, "/dietary-needs", d.HandleList)
	huma.Get(api, "/dietary-needs/{id}", d.HandleGet)
	huma.Put(api, "/dietary-needs/{id}", d.HandleUpdate)
	huma.Delete(api, "/dietary-needs/{id}", d.HandleDelete)
	huma.Get(api, "/dietary-needs/{id}/can-modify", d.HandleCanModify)
}
