package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "soko:session:"

// RedisStore persists session state as JSON blobs in Redis with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Load reads the session state. A missing key or a blob that fails to decode
// yields an empty state.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("WARN: Corrupt session blob for %s, resetting to empty: %v", sessionID, err)
		return &State{}, nil
	}
	return &state, nil
}

// Save overwrites the session state wholesale and refreshes the TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}
