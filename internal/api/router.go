package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/stenomix/internal/compiler"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *compiler.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Stateless compilation.
	r.Post("/compile", h.Compile)

	// Compiled dictionaries.
	r.Get("/dictionaries", h.ListDictionaries)
	r.Get("/dictionaries/*", h.GetDictionary)
	r.Post("/build", h.Build)

	// Queries over the index.
	r.Get("/lookup", h.Lookup)
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
