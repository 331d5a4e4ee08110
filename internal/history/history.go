// Package history maintains the bounded, deduplicated list of a session's
// recent weather lookups.
package history

import (
	"context"

	"github.com/skycast/skycast/internal/weather"
)

// DefaultCapacity is the number of recent lookups kept per session.
const DefaultCapacity = 2

// Record returns entries with snap promoted to the front. Any existing entry
// sharing snap's location key is removed first, so re-querying a location
// resets its recency without growing the list. The result is truncated to
// capacity. Pure: entries is not mutated.
func Record(entries []weather.Snapshot, snap weather.Snapshot, capacity int) []weather.Snapshot {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	out := make([]weather.Snapshot, 0, len(entries)+1)
	out = append(out, snap)
	for _, e := range entries {
		if e.LocationKey == snap.LocationKey {
			continue
		}
		out = append(out, e)
	}

	if len(out) > capacity {
		out = out[:capacity]
	}
	return out
}

// Repository stores per-session recent lookup lists. Entries live only as
// long as the session; nothing survives a session's expiry.
type Repository interface {
	// Get returns the session's recent lookups, most recent first.
	// An unknown session yields an empty list, not an error.
	Get(ctx context.Context, sessionID string) ([]weather.Snapshot, error)

	// Put replaces the session's recent lookups.
	Put(ctx context.Context, sessionID string, entries []weather.Snapshot) error
}
