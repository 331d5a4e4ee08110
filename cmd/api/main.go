// Package main provides the entrypoint for the SkyCast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/api"
	"github.com/skycast/skycast/internal/api/middleware"
	"github.com/skycast/skycast/internal/config"
	"github.com/skycast/skycast/internal/history"
	"github.com/skycast/skycast/internal/lookup"
	"github.com/skycast/skycast/internal/provider/resilience"
	"github.com/skycast/skycast/internal/telemetry"
	"github.com/skycast/skycast/internal/weather"
	"github.com/skycast/skycast/internal/weather/visualcrossing"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "skycast-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SkyCast API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}
	lookupMetrics, err := middleware.NewLookupMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize lookup metrics")
	}

	// Initialize weather provider with resilient transport
	providers := resilience.NewRegistry()

	clientConfig := resilience.DefaultClientConfig(visualcrossing.ProviderName)
	clientConfig.Timeout = cfg.ProviderTimeout
	clientConfig.MaxRetries = cfg.ProviderMaxRetries

	provider := visualcrossing.NewClient(visualcrossing.ClientConfig{
		APIKey:     cfg.VisualCrossingAPIKey,
		BaseURL:    cfg.VisualCrossingBaseURL,
		HTTPClient: resilience.NewClient(clientConfig),
		Registry:   providers,
		Logger:     log,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   log,
		CacheTTL: cfg.CacheTTL,
	})
	log.Info().Str("provider", provider.Name()).Msg("weather service initialized")

	// Initialize history repository
	var historyRepo history.Repository
	if cfg.RedisAddr != "" {
		redisClient := redisv9.NewClient(&redisv9.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		historyRepo = history.NewRedisRepository(redisClient, cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis history repository initialized")
	} else {
		historyRepo = history.NewInMemoryRepository()
		log.Info().Msg("in-memory history repository initialized")
	}

	// Initialize lookup controller
	lookupService := lookup.NewService(lookup.ServiceConfig{
		Fetcher:         weatherService,
		History:         historyRepo,
		Logger:          log,
		HistoryCapacity: cfg.HistoryCapacity,
		FetchTimeout:    cfg.ProviderTimeout,
	})
	log.Info().Msg("lookup service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		LookupMetrics: lookupMetrics,
		LookupService: lookupService,
		Providers:     providers,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
