package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio", h.HandleGetPortfolio)
	r.Get("/summary", h.HandleGetSummary)
	r.Get("/prices", h.HandleGetPrices)
	r.Get("/movers", h.HandleGetMovers)

	r.Route("/holdings", func(r chi.Router) {
		r.Post("/", h.HandleAddHolding)
		r.Post("/import", h.HandleImport)
		r.Delete("/{symbol}", h.HandleDeleteHolding)
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/csv", h.HandleExportCSV)
		r.Get("/txt", h.HandleExportText)
	})
}
