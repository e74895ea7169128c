package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the review API on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/escalations", func(r chi.Router) {
			r.Get("/", h.listEscalations)
			r.Get("/pending", h.listPendingEscalations)
			r.Get("/{id}", h.getEscalation)
			r.Post("/{id}/decide", h.decideEscalation)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", h.ingestLoan)
			r.Get("/", h.listLoans)
			r.Get("/{id}", h.getLoan)
		})

		r.Get("/stats", h.stats)
	})
}

// NewRouter builds a router with the review API mounted, wrapped in the
// given middleware chain.
func NewRouter(h *Handlers, middleware ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	for _, mw := range middleware {
		r.Use(mw)
	}
	MountRoutes(r, h)
	return r
}
