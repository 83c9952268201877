package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shard-legends/upgrade-planner-service/internal/handlers"
	customMiddleware "github.com/shard-legends/upgrade-planner-service/internal/middleware"
)

// newPublicRouter builds the router for the public port. Every planner route goes through authMiddleware.
func newPublicRouter(h *handlers.Handlers, authMiddleware func(http.Handler) http.Handler, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Recovery())
	r.Use(customMiddleware.Logging())
	r.Use(customMiddleware.Metrics())
	r.Use(middleware.Timeout(timeout))

	// The web client calls the planner directly from the browser
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/planner", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/tables", h.Plan.GetTables)
		r.Post("/upgrade-plan", h.Plan.PlanForPlayer)
		r.Post("/upgrade-plan/snapshot", h.Plan.PlanForSnapshot)
	})

	return r
}

// newInternalRouter builds the router for health checks and metrics
func newInternalRouter(h *handlers.Handlers, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Recovery())
	r.Use(customMiddleware.Logging())
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
