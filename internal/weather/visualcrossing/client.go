// Package visualcrossing provides a Visual Crossing timeline API client.
package visualcrossing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/provider/resilience"
	"github.com/skycast/skycast/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "visualcrossing"

	// DefaultBaseURL is the Visual Crossing timeline API base URL.
	DefaultBaseURL = "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"
)

// ClientConfig holds configuration for the Visual Crossing client.
type ClientConfig struct {
	// APIKey is the Visual Crossing API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the timeline API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Registry receives per-request outcomes for the ops status
	// endpoint (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Visual Crossing timeline API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewClient creates a new Visual Crossing client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(ProviderName, httpClient)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch resolves a free-text location query into a weather snapshot.
// The request asks for metric units and current conditions alongside the
// daily forecast. Provider errors are mapped onto the weather error taxonomy.
func (c *Client) Fetch(ctx context.Context, query string) (*weather.Snapshot, error) {
	snap, err := c.fetch(ctx, query)
	if c.registry != nil {
		if err != nil {
			c.registry.RecordFailure(ProviderName, err)
		} else {
			c.registry.RecordSuccess(ProviderName)
		}
	}
	return snap, err
}

func (c *Client) fetch(ctx context.Context, query string) (*weather.Snapshot, error) {
	reqURL := fmt.Sprintf("%s/%s?unitGroup=metric&key=%s&contentType=json&include=days%%2Ccurrent",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", weather.ErrLocationNotFound, query)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %q", weather.ErrInvalidQuery, query)
	case http.StatusTooManyRequests:
		return nil, weather.ErrRateLimited
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}

	var vcResp timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&vcResp); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	// A 200 without a resolved address means the provider could not
	// resolve the location.
	if vcResp.Address == "" {
		return nil, fmt.Errorf("%w: %q", weather.ErrLocationNotFound, query)
	}

	return c.toSnapshot(&vcResp), nil
}

// toSnapshot converts a Visual Crossing timeline response to the domain model.
// The first entry of days is the query day itself and is dropped; the next
// seven days become the forecast.
func (c *Client) toSnapshot(resp *timelineResponse) *weather.Snapshot {
	displayName := resp.ResolvedAddress
	if displayName == "" {
		displayName = resp.Address
	}

	snap := &weather.Snapshot{
		LocationKey: resp.Address,
		DisplayName: displayName,
		Condition:   strings.ToLower(resp.CurrentConditions.Conditions),
		Temperature: resp.CurrentConditions.Temp,
		Humidity:    resp.CurrentConditions.Humidity,
		WindSpeed:   resp.CurrentConditions.WindSpeed,
		FetchedAt:   time.Now(),
	}

	days := resp.Days
	if len(days) > 0 {
		days = days[1:]
	}
	if len(days) > weather.MaxForecastDays {
		days = days[:weather.MaxForecastDays]
	}

	snap.Forecast = make([]weather.ForecastDay, 0, len(days))
	for _, d := range days {
		snap.Forecast = append(snap.Forecast, weather.ForecastDay{
			Date:      d.Datetime,
			TempMax:   d.TempMax,
			TempMin:   d.TempMin,
			Condition: d.Conditions,
			IconHint:  d.Icon,
		})
	}

	return snap
}

// Visual Crossing API response structures.

type timelineResponse struct {
	Address           string `json:"address"`
	ResolvedAddress   string `json:"resolvedAddress"`
	CurrentConditions struct {
		Conditions string  `json:"conditions"`
		Temp       float64 `json:"temp"`
		Humidity   float64 `json:"humidity"`
		WindSpeed  float64 `json:"windspeed"`
	} `json:"currentConditions"`
	Days []struct {
		Datetime   string  `json:"datetime"`
		TempMax    float64 `json:"tempmax"`
		TempMin    float64 `json:"tempmin"`
		Conditions string  `json:"conditions"`
		Icon       string  `json:"icon"`
	} `json:"days"`
}
