// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when the provider credential is absent.
// The credential is required at startup; a missing key is a configuration
// error, never a runtime fetch error.
var ErrMissingAPIKey = errors.New("VISUAL_CROSSING_API_KEY is not set")

// Config holds the service configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Env is the deployment environment (development, production).
	Env string

	// VisualCrossingAPIKey is the weather provider credential (required).
	VisualCrossingAPIKey string

	// VisualCrossingBaseURL overrides the provider base URL (optional).
	VisualCrossingBaseURL string

	// ProviderTimeout bounds each provider HTTP attempt.
	ProviderTimeout time.Duration

	// ProviderMaxRetries is the retry budget for transient provider errors.
	ProviderMaxRetries uint64

	// CacheTTL is how long fetched snapshots are reused per query.
	CacheTTL time.Duration

	// HistoryCapacity bounds the per-session recent lookup list.
	HistoryCapacity int

	// RedisAddr enables the Redis history repository when non-empty.
	RedisAddr string

	// SessionTTL is how long Redis keeps an idle session's history.
	SessionTTL time.Duration

	// OTLPEndpoint is the OpenTelemetry collector endpoint.
	OTLPEndpoint string

	// TelemetryEnabled switches OTLP export on.
	TelemetryEnabled bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getenv("APP_PORT", "8080"),
		Env:                   getenv("APP_ENV", "development"),
		VisualCrossingAPIKey:  os.Getenv("VISUAL_CROSSING_API_KEY"),
		VisualCrossingBaseURL: os.Getenv("VISUAL_CROSSING_BASE_URL"),
		ProviderTimeout:       getduration("PROVIDER_TIMEOUT", 10*time.Second),
		ProviderMaxRetries:    uint64(getint("PROVIDER_MAX_RETRIES", 2)),
		CacheTTL:              getduration("WEATHER_CACHE_TTL", 5*time.Minute),
		HistoryCapacity:       getint("HISTORY_CAPACITY", 2),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		SessionTTL:            getduration("SESSION_TTL", 24*time.Hour),
		OTLPEndpoint:          getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled:      os.Getenv("OTEL_ENABLED") == "true",
	}

	if cfg.VisualCrossingAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
