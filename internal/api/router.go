package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/scratch/internal/noteservice"
)

// NewRouter returns the API routes. Every route sits behind the bearer
// token check when authEnabled is set. events, if non-nil, serves the SSE
// stream at GET /events.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, events http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/session", h.Session)

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Get("/{id}", h.GetNote)
		r.Delete("/{id}", h.DeleteNote)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/", h.CreateNote)
			r.Put("/{id}", h.UpdateNote)
		})
	})

	if events != nil {
		r.Method(http.MethodGet, "/events", events)
	}
	return r
}
