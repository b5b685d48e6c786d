package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter wires the ledger handlers with logging, metrics and
// operational endpoints.
func NewRouter(h *Handler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Logging(logger))
	r.Use(Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/books/{book}", func(r chi.Router) {
		r.Post("/entries", h.PostEntry)
		r.Get("/balance", h.Balance)
		r.Get("/ledger", h.Ledger)
		r.Get("/accounts", h.Accounts)
		r.Post("/journals/{id}/void", h.Void)
	})

	return r
}
