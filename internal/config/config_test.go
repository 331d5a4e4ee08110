package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast/skycast/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", "test-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "test-key", cfg.VisualCrossingAPIKey)
	assert.Empty(t, cfg.VisualCrossingBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, uint64(2), cfg.ProviderMaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2, cfg.HistoryCapacity)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoad_MissingAPIKeyFailsStartup(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", "")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", "test-key")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("VISUAL_CROSSING_BASE_URL", "http://localhost:9999")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("PROVIDER_MAX_RETRIES", "5")
	t.Setenv("WEATHER_CACHE_TTL", "1m")
	t.Setenv("HISTORY_CAPACITY", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "http://localhost:9999", cfg.VisualCrossingBaseURL)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, uint64(5), cfg.ProviderMaxRetries)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.HistoryCapacity)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", "test-key")
	t.Setenv("PROVIDER_TIMEOUT", "not-a-duration")
	t.Setenv("HISTORY_CAPACITY", "-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 2, cfg.HistoryCapacity)
}
