package history

import (
	"context"
	"sync"

	"github.com/skycast/skycast/internal/weather"
)

// InMemoryRepository is an in-memory implementation of Repository. It is the
// default for single-replica deployments and for tests; multi-replica
// deployments should use RedisRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string][]weather.Snapshot
}

// NewInMemoryRepository creates a new in-memory history repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[string][]weather.Snapshot),
	}
}

// Get returns the session's recent lookups.
func (r *InMemoryRepository) Get(_ context.Context, sessionID string) ([]weather.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.sessions[sessionID]

	// Return a copy
	out := make([]weather.Snapshot, len(entries))
	copy(out, entries)
	return out, nil
}

// Put replaces the session's recent lookups.
func (r *InMemoryRepository) Put(_ context.Context, sessionID string, entries []weather.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := make([]weather.Snapshot, len(entries))
	copy(cpy, entries)
	r.sessions[sessionID] = cpy
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
