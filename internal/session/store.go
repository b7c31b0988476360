// README: Redis-backed session store with sliding TTL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cabbot/internal/types"
)

var ErrNotFound = errors.New("session not found")

// Store is the session persistence contract. Get refreshes the record's TTL
// as a side effect, so an active conversation never expires mid-flight.
type Store interface {
	Get(ctx context.Context, userID types.ID) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, userID types.ID) error
	Extend(ctx context.Context, userID types.ID) error
	ListActive(ctx context.Context) ([]types.ID, error)
}

const keyPrefix = "cabbot:session:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(userID types.ID) string {
	return keyPrefix + string(userID)
}

func (r *RedisStore) Get(ctx context.Context, userID types.ID) (*State, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	// Sliding expiry: reading a session keeps it alive.
	r.client.Expire(ctx, sessionKey(userID), r.ttl)
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *State) error {
	s.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.UserID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID types.ID) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// Extend pushes the record's expiry out by a full TTL without reading it.
func (r *RedisStore) Extend(ctx context.Context, userID types.ID) error {
	ok, err := r.client.Expire(ctx, sessionKey(userID), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("session extend: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListActive scans for live session keys. Scan order is unspecified; callers
// treat the result as a set.
func (r *RedisStore) ListActive(ctx context.Context) ([]types.ID, error) {
	var out []types.ID
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, types.ID(iter.Val()[len(keyPrefix):]))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("session scan: %w", err)
	}
	return out, nil
}
