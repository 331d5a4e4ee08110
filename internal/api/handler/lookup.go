// Package handler provides HTTP handlers for the SkyCast API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skycast/skycast/internal/api/middleware"
	"github.com/skycast/skycast/internal/api/models"
	"github.com/skycast/skycast/internal/api/response"
	"github.com/skycast/skycast/internal/lookup"
	"github.com/skycast/skycast/internal/weather"
)

// LookupHandler handles lookup submission and session state endpoints.
type LookupHandler struct {
	lookups  *lookup.Service
	validate *validator.Validate
	metrics  *middleware.LookupMetrics
}

// NewLookupHandler creates a new LookupHandler. Metrics may be nil.
func NewLookupHandler(lookups *lookup.Service, metrics *middleware.LookupMetrics) *LookupHandler {
	return &LookupHandler{
		lookups:  lookups,
		validate: validator.New(),
		metrics:  metrics,
	}
}

// SubmitLookup handles POST /v1/lookups.
func (h *LookupHandler) SubmitLookup(w http.ResponseWriter, r *http.Request) {
	var req models.LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if err := h.validate.Struct(&req); err != nil {
		response.BadRequest(w, r, "invalid lookup request", fieldErrors(err))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	start := time.Now()

	state, err := h.lookups.Submit(r.Context(), sessionID, req.Query)
	if h.metrics != nil {
		h.metrics.Record(r, outcome(err), time.Since(start))
	}
	if err != nil {
		h.writeLookupError(w, r, state, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toSessionState(state))
}

// GetState handles GET /v1/state.
func (h *LookupHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	state, err := h.lookups.State(r.Context(), sessionID)
	if err != nil {
		response.InternalError(w, r, "failed to load session state")
		return
	}

	response.JSON(w, r, http.StatusOK, toSessionState(state))
}

// Clear handles POST /v1/clear. It resets the query text and error display
// but keeps the current snapshot and history.
func (h *LookupHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	state, err := h.lookups.Clear(r.Context(), sessionID)
	if err != nil {
		response.InternalError(w, r, "failed to clear session")
		return
	}

	response.JSON(w, r, http.StatusOK, toSessionState(state))
}

// GetHistory handles GET /v1/history.
func (h *LookupHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	state, err := h.lookups.State(r.Context(), sessionID)
	if err != nil {
		response.InternalError(w, r, "failed to load recent lookups")
		return
	}

	items := make([]models.Snapshot, 0, len(state.History))
	for i := range state.History {
		items = append(items, toSnapshot(&state.History[i]))
	}
	response.JSON(w, r, http.StatusOK, models.HistoryResponse{Items: items})
}

// writeLookupError maps the fetch error taxonomy onto HTTP problems, using
// the controller's user-facing message as the problem detail.
func (h *LookupHandler) writeLookupError(w http.ResponseWriter, r *http.Request, state *lookup.State, err error) {
	detail := ""
	if state != nil {
		detail = state.ErrorMessage
	}

	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		response.NotFound(w, r, detail)
	case errors.Is(err, weather.ErrInvalidQuery):
		response.BadRequest(w, r, detail, nil)
	case errors.Is(err, weather.ErrRateLimited):
		response.TooManyRequests(w, r, detail, 60)
	case errors.Is(err, weather.ErrProviderUnavailable), errors.Is(err, context.DeadlineExceeded):
		response.BadGateway(w, r, detail)
	default:
		response.InternalError(w, r, detail)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, weather.ErrLocationNotFound):
		return "not_found"
	case errors.Is(err, weather.ErrInvalidQuery):
		return "invalid_query"
	case errors.Is(err, weather.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, weather.ErrProviderUnavailable), errors.Is(err, context.DeadlineExceeded):
		return "fetch_failed"
	default:
		return "unexpected"
	}
}

// toSessionState converts the controller state to its API view.
func toSessionState(state *lookup.State) models.SessionState {
	out := models.SessionState{
		Phase:        string(state.Phase),
		Query:        state.Query,
		Loading:      state.Loading,
		ErrorMessage: state.ErrorMessage,
		Category:     string(state.Category),
		History:      make([]models.Snapshot, 0, len(state.History)),
	}

	if state.Current != nil {
		snap := toSnapshot(state.Current)
		out.Current = &snap
	}
	for i := range state.History {
		out.History = append(out.History, toSnapshot(&state.History[i]))
	}
	return out
}

func toSnapshot(snap *weather.Snapshot) models.Snapshot {
	out := models.Snapshot{
		LocationKey: snap.LocationKey,
		DisplayName: snap.DisplayName,
		Condition:   snap.Condition,
		Category:    string(snap.Category()),
		Temperature: snap.Temperature,
		Humidity:    snap.Humidity,
		WindSpeed:   snap.WindSpeed,
		Forecast:    make([]models.ForecastDay, 0, len(snap.Forecast)),
		FetchedAt:   models.Timestamp(snap.FetchedAt),
	}

	for _, d := range snap.Forecast {
		out.Forecast = append(out.Forecast, models.ForecastDay{
			Date:      d.Date,
			TempMax:   d.TempMax,
			TempMin:   d.TempMin,
			Condition: d.Condition,
			Category:  string(weather.Classify(d.Condition)),
			IconHint:  d.IconHint,
		})
	}
	return out
}

// fieldErrors converts validator errors to API field errors.
func fieldErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: "failed validation on " + fe.Tag(),
			Code:    fe.Tag(),
		})
	}
	return out
}
