package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast/skycast/internal/api"
	"github.com/skycast/skycast/internal/api/models"
	"github.com/skycast/skycast/internal/history"
	"github.com/skycast/skycast/internal/lookup"
	"github.com/skycast/skycast/internal/weather"
)

// stubFetcher answers lookups from a fixed map; unknown queries fail with
// the configured error.
type stubFetcher struct {
	snapshots map[string]*weather.Snapshot
	errs      map[string]error
}

func (f *stubFetcher) Lookup(_ context.Context, query string) (*weather.Snapshot, error) {
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if snap, ok := f.snapshots[query]; ok {
		return snap, nil
	}
	return nil, weather.ErrLocationNotFound
}

func parisSnapshot() *weather.Snapshot {
	forecast := make([]weather.ForecastDay, 0, weather.MaxForecastDays)
	for i := 0; i < weather.MaxForecastDays; i++ {
		forecast = append(forecast, weather.ForecastDay{
			Date:      time.Date(2026, 9, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			TempMax:   25,
			TempMin:   15,
			Condition: "Partly Cloudy",
			IconHint:  "partly-cloudy-day",
		})
	}

	return &weather.Snapshot{
		LocationKey: "Paris",
		DisplayName: "Paris, France",
		Condition:   "clear",
		Temperature: 22,
		Humidity:    40,
		WindSpeed:   10,
		Forecast:    forecast,
		FetchedAt:   time.Now(),
	}
}

func londonSnapshot() *weather.Snapshot {
	return &weather.Snapshot{
		LocationKey: "London",
		DisplayName: "London, UK",
		Condition:   "light rain",
		Temperature: 14,
		Humidity:    80,
		WindSpeed:   20,
		FetchedAt:   time.Now(),
	}
}

func newTestRouter(fetcher *stubFetcher) http.Handler {
	svc := lookup.NewService(lookup.ServiceConfig{
		Fetcher: fetcher,
		History: history.NewInMemoryRepository(),
		Logger:  zerolog.Nop(),
	})

	return api.NewRouter(api.RouterConfig{
		Version:       "test",
		BuildTime:     "now",
		Logger:        zerolog.Nop(),
		LookupService: svc,
	})
}

func defaultFetcher() *stubFetcher {
	return &stubFetcher{
		snapshots: map[string]*weather.Snapshot{
			"Paris":  parisSnapshot(),
			"London": londonSnapshot(),
		},
		errs: map[string]error{
			"Nowhere":   weather.ErrLocationNotFound,
			"!!!":       weather.ErrInvalidQuery,
			"Throttled": weather.ErrRateLimited,
			"Outage":    weather.ErrProviderUnavailable,
		},
	}
}

func submitLookup(t *testing.T, router http.Handler, sessionID, query string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(models.LookupRequest{Query: query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/lookups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, router http.Handler, sessionID, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) models.SessionState {
	t.Helper()

	var state models.SessionState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	return state
}

func TestSubmitLookup_Success(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := submitLookup(t, router, "sess_test", "Paris")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	state := decodeState(t, rec)
	assert.Equal(t, "SUCCESS", state.Phase)
	assert.False(t, state.Loading)
	assert.Empty(t, state.ErrorMessage)
	assert.Equal(t, "SUNNY", state.Category)

	require.NotNil(t, state.Current)
	assert.Equal(t, "Paris, France", state.Current.DisplayName)
	assert.Equal(t, "clear", state.Current.Condition)
	assert.Equal(t, 22.0, state.Current.Temperature)
	require.Len(t, state.Current.Forecast, 7)
	assert.Equal(t, "CLOUDY", state.Current.Forecast[0].Category)

	require.Len(t, state.History, 1)
	assert.Equal(t, "Paris", state.History[0].LocationKey)
}

func TestSubmitLookup_MintsSessionID(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := submitLookup(t, router, "", "Paris")
	require.Equal(t, http.StatusOK, rec.Code)

	sessionID := rec.Header().Get("X-Session-Id")
	assert.NotEmpty(t, sessionID)
	assert.Contains(t, sessionID, "sess_")
}

func TestSubmitLookup_Errors(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantStatus     int
		wantDetail     string
		wantRetryAfter string
	}{
		{"location not found", "Nowhere", http.StatusNotFound, "City not found", ""},
		{"invalid query", "!!!", http.StatusBadRequest, "Invalid city name", ""},
		{"rate limited", "Throttled", http.StatusTooManyRequests, "Too many requests. Please try again later.", "60"},
		{"provider outage", "Outage", http.StatusBadGateway, "An error occurred while fetching weather data", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(defaultFetcher())

			rec := submitLookup(t, router, "sess_test", tc.query)
			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.wantRetryAfter, rec.Header().Get("Retry-After"))

			var problem models.Problem
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
			assert.Equal(t, tc.wantStatus, problem.Status)
			assert.Equal(t, tc.wantDetail, problem.Detail)
			assert.Equal(t, "/v1/lookups", problem.Instance)
		})
	}
}

func TestSubmitLookup_ValidatesBody(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	tests := []struct {
		name string
		body string
	}{
		{"empty query", `{"query":""}`},
		{"whitespace query", `{"query":"   "}`},
		{"missing query", `{}`},
		{"not json", `nope`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/lookups", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSubmitLookup_RejectsWrongContentType(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	req := httptest.NewRequest(http.MethodPost, "/v1/lookups", bytes.NewBufferString("query=Paris"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSubmitLookup_FailureKeepsPreviousState(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := submitLookup(t, router, "sess_test", "Paris")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = submitLookup(t, router, "sess_test", "Nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, router, "sess_test", "/v1/state")
	require.Equal(t, http.StatusOK, rec.Code)

	state := decodeState(t, rec)
	assert.Equal(t, "FAILURE", state.Phase)
	assert.Equal(t, "City not found", state.ErrorMessage)
	require.NotNil(t, state.Current)
	assert.Equal(t, "Paris", state.Current.LocationKey)
	require.Len(t, state.History, 1)
}

func TestGetState_NewSessionIsIdle(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := get(t, router, "sess_fresh", "/v1/state")
	require.Equal(t, http.StatusOK, rec.Code)

	state := decodeState(t, rec)
	assert.Equal(t, "IDLE", state.Phase)
	assert.Nil(t, state.Current)
	assert.Empty(t, state.History)
	assert.Equal(t, "OTHER", state.Category)
}

func TestClear(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := submitLookup(t, router, "sess_test", "Nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/clear", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_test")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	state := decodeState(t, rec)
	assert.Equal(t, "IDLE", state.Phase)
	assert.Empty(t, state.Query)
	assert.Empty(t, state.ErrorMessage)
}

func TestGetHistory_PromotesRepeatLookups(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	for _, q := range []string{"Paris", "London", "Paris"} {
		rec := submitLookup(t, router, "sess_test", q)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := get(t, router, "sess_test", "/v1/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Paris", resp.Items[0].LocationKey)
	assert.Equal(t, "London", resp.Items[1].LocationKey)
	assert.Equal(t, "SUNNY", resp.Items[0].Category)
	assert.Equal(t, "RAINY", resp.Items[1].Category)
}

func TestHistory_IsSessionScoped(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := submitLookup(t, router, "sess_a", "Paris")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, router, "sess_b", "/v1/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}

func TestGetThemes(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := get(t, router, "", "/v1/metadata/themes")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ThemesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Items, 4)

	byCategory := make(map[string]models.CategoryTheme, len(resp.Items))
	for _, item := range resp.Items {
		byCategory[item.Category] = item
	}

	sunny, ok := byCategory["SUNNY"]
	require.True(t, ok)
	assert.Equal(t, "sun", sunny.Icon)
	assert.Equal(t, "yellow-300", sunny.GradientFrom)
	assert.Equal(t, "orange-500", sunny.GradientTo)

	rainy, ok := byCategory["RAINY"]
	require.True(t, ok)
	assert.Equal(t, "blue-300", rainy.GradientFrom)
	assert.Equal(t, "blue-600", rainy.GradientTo)
}

func TestOpsEndpoints(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	for _, path := range []string{"/v1/ops/health", "/v1/ops/ready", "/v1/ops/status"} {
		rec := get(t, router, "", path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := get(t, router, "", "/v1/ops/status")
	var status models.SystemStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.Empty(t, status.Providers)
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(defaultFetcher())

	rec := get(t, router, "", "/v1/ops/health")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
