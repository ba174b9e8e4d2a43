package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/icco/lateshow/lib/health"
	"github.com/icco/lateshow/lib/store"
)

// NewRouter wires every route onto a chi mux.
func NewRouter(s *store.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(HandleNotFound())
	r.MethodNotAllowed(HandleMethodNotAllowed())

	r.Get("/", HandleHome())
	r.Get("/healthz", health.Check(s.DB()))
	r.Get("/stats", HandleStats(s))

	r.Route("/episodes", func(r chi.Router) {
		r.Get("/", HandleListEpisodes(s))
		r.Get("/{id}", HandleGetEpisode(s))
		r.Delete("/{id}", HandleDeleteEpisode(s))
	})

	r.Route("/guests", func(r chi.Router) {
		r.Get("/", HandleListGuests(s))
		r.Get("/{id}", HandleGetGuest(s))
		r.Delete("/{id}", HandleDeleteGuest(s))
	})

	r.Route("/appearances", func(r chi.Router) {
		r.Post("/", HandleCreateAppearance(s))
		r.Get("/{id}", HandleGetAppearance(s))
		r.Delete("/{id}", HandleDeleteAppearance(s))
	})

	return r
}
