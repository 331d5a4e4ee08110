package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/skycast/skycast/internal/weather"
)

// DefaultSessionTTL is how long a session's history survives without a new
// lookup. Expiry is refreshed on every Put.
const DefaultSessionTTL = 24 * time.Hour

// RedisRepository stores per-session history in Redis so replicas share
// session state. Each session is one JSON value under a TTL'd key.
type RedisRepository struct {
	client *redisv9.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis-backed history repository.
func NewRedisRepository(client *redisv9.Client, ttl time.Duration) *RedisRepository {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisRepository{client: client, ttl: ttl}
}

// Get returns the session's recent lookups.
func (r *RedisRepository) Get(ctx context.Context, sessionID string) ([]weather.Snapshot, error) {
	val, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redisv9.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var entries []weather.Snapshot
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	return entries, nil
}

// Put replaces the session's recent lookups and refreshes the session TTL.
func (r *RedisRepository) Put(ctx context.Context, sessionID string, entries []weather.Snapshot) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "history:" + sessionID
}

// Ensure RedisRepository implements Repository interface.
var _ Repository = (*RedisRepository)(nil)
