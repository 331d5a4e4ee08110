package weather

import (
	"errors"
	"time"
)

// Weather errors. The provider client maps transport and response failures
// onto these so callers can translate them into user-facing messages.
var (
	ErrLocationNotFound    = errors.New("location not found")
	ErrInvalidQuery        = errors.New("invalid location query")
	ErrRateLimited         = errors.New("rate limited by provider, retry later")
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrMalformedResponse   = errors.New("malformed provider response")
)

// MaxForecastDays is the number of forecast days kept after the query day.
const MaxForecastDays = 7

// Snapshot represents one resolved location's current conditions and
// short-range forecast at the time of lookup. Snapshots are immutable after
// creation; a new lookup replaces the snapshot wholesale.
type Snapshot struct {
	// LocationKey is the provider's canonical short address, used for
	// history deduplication.
	LocationKey string `json:"locationKey"`

	// DisplayName is the resolved human-readable location name.
	DisplayName string `json:"displayName"`

	// Condition is the current conditions description, always lower-cased
	// so classification is case-insensitive.
	Condition string `json:"condition"`

	// Temperature in Celsius.
	Temperature float64 `json:"temperature"`

	// Humidity percentage (0-100).
	Humidity float64 `json:"humidity"`

	// WindSpeed in km/h.
	WindSpeed float64 `json:"windSpeed"`

	// Forecast holds at most MaxForecastDays entries for the days after
	// the query day. The query day itself is excluded.
	Forecast []ForecastDay `json:"forecast"`

	// FetchedAt is when the snapshot was built.
	FetchedAt time.Time `json:"fetchedAt"`
}

// Category returns the semantic category for the snapshot's current condition.
func (s *Snapshot) Category() Category {
	return Classify(s.Condition)
}

// ForecastDay represents one forecast day, owned by a Snapshot.
type ForecastDay struct {
	// Date is the provider's calendar date identifier (YYYY-MM-DD).
	Date string `json:"date"`

	// TempMax and TempMin in Celsius.
	TempMax float64 `json:"tempMax"`
	TempMin float64 `json:"tempMin"`

	// Condition is the free-text condition description for the day.
	Condition string `json:"condition"`

	// IconHint is the provider-supplied icon identifier, passed through
	// for presentation.
	IconHint string `json:"iconHint"`
}
