package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/cookedfr/cookedfr/internal/config"
	"github.com/cookedfr/cookedfr/internal/upstream"
)

const (
	// FortunePath is the relay route.
	FortunePath = "/api/fortune"
	// LegacyFortunePath is the route used by the original web client.
	LegacyFortunePath = "/api/route"
)

// NewRouter constructs the HTTP router with middleware and routes.
func NewRouter(cfg *config.Config, generator upstream.Generator, metrics *Metrics, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)

	h := NewHandler(generator, cfg, metrics, logger)

	r.Get("/v1/health", h.HandleHealthGet)
	r.Post("/v1/health", h.HandleHealthPost)
	r.Method("GET", "/metrics", MetricsHandler(metrics))

	r.Post(FortunePath, h.HandleFortune)
	r.Post(LegacyFortunePath, h.HandleFortune)

	return r
}
