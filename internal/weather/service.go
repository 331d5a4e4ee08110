package weather

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// Fetch resolves a free-text location query into a Snapshot.
	Fetch(ctx context.Context, query string) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache snapshots per query (default: 5 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors
	// (default: 30 minutes). Resolution errors (not found, invalid query,
	// rate limited) are never masked by stale data.
	StaleIfErrorTTL time.Duration
}

// Service provides weather snapshots with per-query caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedSnapshot
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 30 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedSnapshot),
	}
}

// Lookup returns the current snapshot for a location query.
// Uses cached data if available and not expired.
func (s *Service) Lookup(ctx context.Context, query string) (*Snapshot, error) {
	key := cacheKey(query)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.snapshot, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, query, key)
}

// InvalidateCache clears all cached snapshots.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSnapshot)
}

func (s *Service) fetch(ctx context.Context, query, key string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.snapshot, nil
	}

	s.logger.Debug().
		Str("query", query).
		Str("provider", s.provider.Name()).
		Msg("fetching weather from provider")

	snap, err := s.provider.Fetch(ctx, query)
	if err != nil {
		// Resolution errors describe the query, not the provider; they
		// must reach the caller unchanged.
		if isResolutionError(err) {
			return nil, err
		}

		s.logger.Error().Err(err).
			Str("query", query).
			Msg("failed to fetch weather")

		if cached, ok := s.cache[key]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale weather data due to provider error")
				return cached.snapshot, nil
			}
		}

		return nil, err
	}

	now := time.Now()
	s.cache[key] = &cachedSnapshot{
		snapshot:  snap,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return snap, nil
}

// cacheKey normalizes a query so "Paris", " paris " and "PARIS" share an entry.
func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func isResolutionError(err error) bool {
	return errors.Is(err, ErrLocationNotFound) ||
		errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrRateLimited)
}
