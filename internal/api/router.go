package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vitrine/internal/reveal"
	"github.com/starford/vitrine/internal/siteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// Read endpoints are public; authEnabled only guards the refresh trigger.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *siteservice.Service, obs *reveal.Observer, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, obs)

	r := chi.NewRouter()
	r.Use(NoStore)

	// Resolved content.
	r.Get("/sections", h.ListSections)
	r.Get("/sections/{key}", h.GetSection)
	r.Get("/expertise", h.ListExpertise)
	r.Get("/status", h.Status)
	r.Get("/gradient", h.SplitGradient)

	// Entrance animation latches.
	r.Post("/reveal", h.Mount)
	r.Post("/reveal/{id}/entries", h.Report)
	r.Delete("/reveal/{id}", h.Unmount)

	// Live change notifications.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Post("/refresh", h.Refresh)
	})

	return r
}
