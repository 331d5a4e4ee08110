// Package lookup owns the per-session lookup flow: it drives the weather
// fetch, converts failures to user-facing messages, and keeps session state
// and recent history consistent.
package lookup

import (
	"github.com/skycast/skycast/internal/weather"
)

// Phase is the lookup state machine phase for a session.
type Phase string

const (
	// PhaseIdle means no lookup has run or the session was cleared.
	PhaseIdle Phase = "IDLE"

	// PhaseLoading means a fetch is in flight.
	PhaseLoading Phase = "LOADING"

	// PhaseSuccess means the last settled lookup produced a snapshot.
	PhaseSuccess Phase = "SUCCESS"

	// PhaseFailure means the last settled lookup failed.
	PhaseFailure Phase = "FAILURE"
)

// State is the read-only view of a session that presentation consumes:
// the current snapshot or none, an error message or none, the loading flag,
// the recent history, and the derived category.
type State struct {
	// Phase is the state machine phase.
	Phase Phase

	// Query is the session's current query text.
	Query string

	// Loading is true while a fetch is in flight.
	Loading bool

	// Current is the displayed snapshot, nil before the first success.
	// A failed lookup never clears it.
	Current *weather.Snapshot

	// ErrorMessage is the user-facing message of the last failure, empty
	// otherwise.
	ErrorMessage string

	// History holds the recent lookups, most recent first.
	History []weather.Snapshot

	// Category classifies Current's condition; CategoryOther when there
	// is no current snapshot.
	Category weather.Category
}
