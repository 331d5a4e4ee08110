// Package api provides the HTTP API for SkyCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/api/handler"
	"github.com/skycast/skycast/internal/api/middleware"
	"github.com/skycast/skycast/internal/lookup"
	"github.com/skycast/skycast/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	LookupMetrics *middleware.LookupMetrics
	LookupService *lookup.Service
	Providers     *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "skycast-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.Session)              // Session resolution

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Providers)
	lookupHandler := handler.NewLookupHandler(cfg.LookupService, cfg.LookupMetrics)
	metadataHandler := handler.NewMetadataHandler()

	// Rate limits: submissions cost a provider call, reads are cheap
	lookupRateLimit := middleware.RateLimitByIP(middleware.LookupRateLimit)       // 20 req/min
	standardRateLimit := middleware.RateLimitBySession(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Lookup submission - strict rate limiting, JSON body required
		r.With(lookupRateLimit, middleware.RequireJSON).Post("/lookups", lookupHandler.SubmitLookup)

		// Session state endpoints
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/state", lookupHandler.GetState)
			r.Post("/clear", lookupHandler.Clear)
			r.Get("/history", lookupHandler.GetHistory)
		})

		// Metadata endpoints (static)
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/themes", metadataHandler.GetThemes)
		})

		// Ops endpoints
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})
	})

	return r
}
