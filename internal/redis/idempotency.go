// Package redis holds the Redis-backed stores used by the local server.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// idempotencyPrefix namespaces replayed ride responses.
const idempotencyPrefix = "idempotency:ride:"

// IdempotencyStore keeps serialized responses keyed by Idempotency-Key.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a new IdempotencyStore. It returns nil for a
// nil client so callers can pass the result straight to the middleware.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	if client == nil {
		return nil
	}
	return &IdempotencyStore{client: client}
}

// Get returns the stored response, or nil on a cache miss.
func (s *IdempotencyStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return data, nil
}

// Set stores a response for ttl.
func (s *IdempotencyStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.client.Set(ctx, idempotencyPrefix+key, data, ttl).Err()
}
