package lookup

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/history"
	"github.com/skycast/skycast/internal/weather"
)

// User-facing failure messages. Every fetch error maps to exactly one of
// these; no error escapes the controller.
const (
	msgNotFound    = "City not found"
	msgInvalid     = "Invalid city name"
	msgRateLimited = "Too many requests. Please try again later."
	msgFetchFailed = "An error occurred while fetching weather data"
	msgUnexpected  = "An unexpected error occurred. Please try again."
)

// Fetcher resolves a location query into a snapshot. Satisfied by
// *weather.Service.
type Fetcher interface {
	Lookup(ctx context.Context, query string) (*weather.Snapshot, error)
}

// ServiceConfig holds configuration for the lookup service.
type ServiceConfig struct {
	// Fetcher resolves queries (required).
	Fetcher Fetcher

	// History stores per-session recent lookups (required).
	History history.Repository

	// Logger for controller operations.
	Logger zerolog.Logger

	// HistoryCapacity bounds the recent lookup list (default: 2).
	HistoryCapacity int

	// FetchTimeout bounds a single fetch (default: 10 seconds). Expiry
	// surfaces as a generic fetch failure.
	FetchTimeout time.Duration
}

// Service is the session state controller. All session mutation goes
// through Submit and Clear so the invariants hold centrally: a failed
// lookup never evicts the displayed snapshot or touches history, and the
// loading phase always settles.
type Service struct {
	fetcher         Fetcher
	historyRepo     history.Repository
	logger          zerolog.Logger
	historyCapacity int
	fetchTimeout    time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// sessionState is the mutable per-session record. seq is the sequence
// number of the most recently initiated submit; a settling fetch whose
// sequence is lower lost the race and is discarded.
type sessionState struct {
	phase   Phase
	query   string
	current *weather.Snapshot
	errMsg  string
	seq     uint64
}

// NewService creates a new lookup service.
func NewService(cfg ServiceConfig) *Service {
	capacity := cfg.HistoryCapacity
	if capacity <= 0 {
		capacity = history.DefaultCapacity
	}

	timeout := cfg.FetchTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Service{
		fetcher:         cfg.Fetcher,
		historyRepo:     cfg.History,
		logger:          cfg.Logger,
		historyCapacity: capacity,
		fetchTimeout:    timeout,
		sessions:        make(map[string]*sessionState),
	}
}

// Submit runs a lookup for the session and returns the settled state. The
// state always settles: on failure it carries the user-facing message, and
// the underlying fetch error is returned alongside so transports can map it
// to a status code. Overlapping submissions for the same session proceed
// independently; only the most recently initiated one is allowed to settle
// the session, and a discarded stale result reports no error.
func (s *Service) Submit(ctx context.Context, sessionID, query string) (*State, error) {
	seq := s.begin(sessionID, query)

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	snap, err := s.fetcher.Lookup(fetchCtx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[sessionID]
	if seq < sess.seq {
		// A newer submit owns the session; this result is stale.
		s.logger.Debug().
			Str("session_id", sessionID).
			Str("query", query).
			Uint64("seq", seq).
			Uint64("latest_seq", sess.seq).
			Msg("discarding stale lookup result")
		return s.stateLocked(ctx, sessionID, sess), nil
	}

	if err != nil {
		sess.phase = PhaseFailure
		sess.errMsg = userMessage(err)
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Str("query", query).
			Msg("lookup failed")
		return s.stateLocked(ctx, sessionID, sess), err
	}

	sess.phase = PhaseSuccess
	sess.current = snap
	sess.errMsg = ""

	s.recordLocked(ctx, sessionID, *snap)

	return s.stateLocked(ctx, sessionID, sess), nil
}

// Clear resets the session's query text and error message. The displayed
// snapshot and the history stay as they are.
func (s *Service) Clear(ctx context.Context, sessionID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	sess.query = ""
	sess.errMsg = ""
	if sess.phase != PhaseLoading {
		sess.phase = PhaseIdle
	}

	return s.stateLocked(ctx, sessionID, sess), nil
}

// State returns the session's current state view.
func (s *Service) State(ctx context.Context, sessionID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked(ctx, sessionID, s.session(sessionID)), nil
}

// begin transitions the session to Loading and claims the next sequence
// number. Any previous error display is cleared on submission.
func (s *Service) begin(sessionID, query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	sess.seq++
	sess.phase = PhaseLoading
	sess.query = query
	sess.errMsg = ""
	return sess.seq
}

// session returns the session record, creating an idle one if needed.
// Callers must hold s.mu.
func (s *Service) session(sessionID string) *sessionState {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &sessionState{phase: PhaseIdle}
		s.sessions[sessionID] = sess
	}
	return sess
}

// recordLocked updates the session's recent history with a successful
// snapshot. History failures are logged, not surfaced: the lookup itself
// succeeded. Callers must hold s.mu.
func (s *Service) recordLocked(ctx context.Context, sessionID string, snap weather.Snapshot) {
	entries, err := s.historyRepo.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("session_id", sessionID).
			Msg("failed to read recent history")
		return
	}

	entries = history.Record(entries, snap, s.historyCapacity)

	if err := s.historyRepo.Put(ctx, sessionID, entries); err != nil {
		s.logger.Error().Err(err).
			Str("session_id", sessionID).
			Msg("failed to write recent history")
	}
}

// stateLocked builds the read-only state view. Callers must hold s.mu.
func (s *Service) stateLocked(ctx context.Context, sessionID string, sess *sessionState) *State {
	entries, err := s.historyRepo.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("session_id", sessionID).
			Msg("failed to read recent history")
		entries = nil
	}

	st := &State{
		Phase:        sess.phase,
		Query:        sess.query,
		Loading:      sess.phase == PhaseLoading,
		Current:      sess.current,
		ErrorMessage: sess.errMsg,
		History:      entries,
		Category:     weather.CategoryOther,
	}
	if sess.current != nil {
		st.Category = sess.current.Category()
	}
	return st
}

// userMessage converts a fetch error into the message shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return msgNotFound
	case errors.Is(err, weather.ErrInvalidQuery):
		return msgInvalid
	case errors.Is(err, weather.ErrRateLimited):
		return msgRateLimited
	case errors.Is(err, weather.ErrProviderUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return msgFetchFailed
	default:
		return msgUnexpected
	}
}
