package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// An empty token disables Bearer auth. sseHandler, if non-nil, is mounted
// at GET /events inside the auth group.
func NewRouter(svc *Service, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(token != "", token))

	r.Post("/lint", h.Lint)
	r.Get("/checks", h.Checks)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
