// Package api exposes the strand archive over HTTP.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// StartServer starts the HTTP server with all routes configured. It blocks
// until the listener fails.
func StartServer(archive ArchiveStore, config ServerConfig, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	server := NewServer(archive, config, metrics, logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "X-Embla-Seed", "X-Embla-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// API key authentication middleware for protected routes. An empty key
	// leaves the API open.
	r.Route("/api/v1", func(r chi.Router) {
		if config.APIKey != "" {
			r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))
		}

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Strand operations
		r.Post("/strands", metrics.InstrumentHandler("POST", "/api/v1/strands", server.handleCreateStrand))
		r.Get("/strands", metrics.InstrumentHandler("GET", "/api/v1/strands", server.handleListStrands))
		r.Get("/strands/{id}", metrics.InstrumentHandler("GET", "/api/v1/strands/{id}", server.handleGetStrand))
		r.Put("/strands/{id}", metrics.InstrumentHandler("PUT", "/api/v1/strands/{id}", server.handleUpdateStrand))
		r.Delete("/strands/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/strands/{id}", server.handleDeleteStrand))

		// Snapshot transfer
		r.Get("/snapshot", metrics.InstrumentHandler("GET", "/api/v1/snapshot", server.handleSnapshotDownload))
		r.Post("/snapshot", metrics.InstrumentHandler("POST", "/api/v1/snapshot", server.handleSnapshotUpload))

		// Diagnostics
		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", server.handleStats))
	})

	// Start background metrics updater
	go server.startMetricsUpdater()

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	logger.Info("starting embla REST API server",
		zap.String("addr", addr),
		zap.Bool("auth", config.APIKey != ""),
	)
	return http.ListenAndServe(addr, r)
}
