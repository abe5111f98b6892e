package server

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes(requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(Metrics)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(SecurityHeaders)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", s.health)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(MaxBodySize(MaxFormBytes))

		r.Get("/", s.home)
		r.Post("/", s.submitMessage)
		r.Get("/recipients", s.recipients)
		r.Post("/recipients", s.submitToRecipient)
		r.Get("/api/submissions", s.submissions)
	})

	return r
}
