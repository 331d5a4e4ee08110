// Package resilience wraps outbound provider calls with timeouts, bounded
// retries, and a circuit breaker.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for a provider circuit breaker.
type BreakerConfig struct {
	// Name identifies the breaker for logging and the ops status endpoint.
	Name string

	// MaxRequests is the number of probe requests allowed in half-open
	// state. Default: 1
	MaxRequests uint32

	// OpenTimeout is how long the breaker stays open before probing.
	// Default: 60 seconds
	OpenTimeout time.Duration

	// ReadyToTrip decides when the breaker opens. If nil, the breaker
	// opens after 5+ requests with a failure rate of at least 50%.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is invoked on breaker state transitions.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 1,
		OpenTimeout: 60 * time.Second,
		ReadyToTrip: defaultReadyToTrip,
	}
}

func defaultReadyToTrip(counts gobreaker.Counts) bool {
	ratio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && ratio >= 0.5
}

func newBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: cfg.ReadyToTrip,
	}
	if settings.ReadyToTrip == nil {
		settings.ReadyToTrip = defaultReadyToTrip
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}
