package resilience

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Resilience errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker refuses a call.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies the client for breaker naming and the registry.
	Name string

	// Timeout is the per-attempt HTTP timeout. Default: 10 seconds
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first call.
	// Zero is valid and means no retries; use DefaultClientConfig for
	// the default of 2.
	MaxRetries uint64

	// InitialInterval is the initial retry backoff. Default: 100ms
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff. Default: 2 seconds
	MaxInterval time.Duration

	// Breaker configures the circuit breaker. If nil, defaults apply.
	Breaker *BreakerConfig
}

// DefaultClientConfig returns sensible defaults for a provider client.
func DefaultClientConfig(name string) ClientConfig {
	cb := DefaultBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      2,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Breaker:         &cb,
	}
}

// Client is an HTTP client that retries transient failures with exponential
// backoff and trips a circuit breaker on sustained errors. Responses with
// client-error status codes are returned to the caller untouched; only
// network errors and 5xx responses count against the breaker.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a new resilient HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}

	bcfg := DefaultBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		bcfg = *cfg.Breaker
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker[*http.Response](bcfg), //nolint:bodyclose // type parameter, not a response
		config:     cfg,
	}
}

// Do executes the request. Network errors and 5xx responses are retried up
// to MaxRetries times; if retries are exhausted on a 5xx, the last response
// is returned so the caller can inspect the status. Returns ErrCircuitOpen
// without touching the network when the breaker is open.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries are bounded by MaxRetries

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			// 5xx counts as a failure so the breaker sees upstream
			// outages; the response is kept for the caller.
			if r.StatusCode >= 500 {
				return r, &UpstreamError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// BreakerCounts returns the current circuit breaker counts.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}

// UpstreamError represents an HTTP 5xx response from a provider.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
