package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers the embed proxy routes and middleware stack.
// The rate limiter guards only the embed-fetch operation; statistics,
// health and metrics stay exempt so operators can always introspect.
func NewRouter(handler *Handler, limiter *ClientLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/embed", func(r chi.Router) {
		r.Get("/cache/stats", handler.cacheStats)
		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware(limiter))
			r.Get("/", handler.embed)
		})
	})

	return r
}
