package models

// LookupRequest is the body of POST /v1/lookups.
type LookupRequest struct {
	// Query is the free-text location to look up.
	Query string `json:"query" validate:"required,max=100"`
}

// Snapshot is the API view of a resolved location's current conditions and
// forecast.
type Snapshot struct {
	LocationKey string        `json:"locationKey"`
	DisplayName string        `json:"displayName"`
	Condition   string        `json:"condition"`
	Category    string        `json:"category"`
	Temperature float64       `json:"temperature"`
	Humidity    float64       `json:"humidity"`
	WindSpeed   float64       `json:"windSpeed"`
	Forecast    []ForecastDay `json:"forecast"`
	FetchedAt   Timestamp     `json:"fetchedAt"`
}

// ForecastDay is the API view of one forecast day.
type ForecastDay struct {
	Date      string  `json:"date"`
	TempMax   float64 `json:"tempMax"`
	TempMin   float64 `json:"tempMin"`
	Condition string  `json:"condition"`
	Category  string  `json:"category"`
	IconHint  string  `json:"iconHint"`
}

// SessionState is the API view of a session's lookup state. It is the
// entire surface a rendering layer needs: snapshot or none, error or none,
// the loading flag, the recent history, and the derived category.
type SessionState struct {
	Phase        string     `json:"phase"`
	Query        string     `json:"query"`
	Loading      bool       `json:"loading"`
	Current      *Snapshot  `json:"current,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	Category     string     `json:"category"`
	History      []Snapshot `json:"history"`
}

// HistoryResponse is the body of GET /v1/history.
type HistoryResponse struct {
	Items []Snapshot `json:"items"`
}

// CategoryTheme pairs a weather category with its presentation preset.
type CategoryTheme struct {
	Category     string `json:"category"`
	Icon         string `json:"icon"`
	GradientFrom string `json:"gradientFrom"`
	GradientTo   string `json:"gradientTo"`
	Animation    string `json:"animation"`
}

// ThemesResponse is the body of GET /v1/metadata/themes.
type ThemesResponse struct {
	Items []CategoryTheme `json:"items"`
}
