package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/hieroscope/internal/widgetservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *widgetservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/season", h.Season)
	r.Get("/catalog", h.Catalog)
	r.Get("/catalog/{id}", h.CatalogEntry)

	r.Get("/options", h.Options)
	r.Get("/preference", h.GetPreference)
	r.Put("/preference", h.UpdatePreference)

	r.Get("/widget", h.Widget)
	r.Get("/timeline", h.Timeline)
	r.Get("/icons", h.Icons)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
