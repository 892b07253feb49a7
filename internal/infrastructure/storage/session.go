// internal/infrastructure/storage/session.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps tab-scoped values in Redis. Every write refreshes the TTL.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a Redis-backed session scope
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "foodie",
		ttl:    ttl,
	}
}

func (s *SessionStore) key(owner, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, owner, key)
}

// Get returns the value stored for owner/key
func (s *SessionStore) Get(ctx context.Context, owner, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(owner, key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return val, nil
}

// Set stores value for owner/key
func (s *SessionStore) Set(ctx context.Context, owner, key, value string) error {
	if err := s.client.Set(ctx, s.key(owner, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

// Delete removes owner/key. Missing keys are not an error.
func (s *SessionStore) Delete(ctx context.Context, owner, key string) error {
	if err := s.client.Del(ctx, s.key(owner, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session key %s: %w", key, err)
	}
	return nil
}
