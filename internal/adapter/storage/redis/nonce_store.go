package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NonceStore implements ports.NonceStore using Redis SET NX. EasyPay uses it
// for inbound processor webhook replay protection: each Authorize.net
// notification id is accepted at most once per TTL window.
type NonceStore struct {
	client *goredis.Client
	prefix string
}

// NewNonceStore creates a Redis-backed nonce store.
func NewNonceStore(client *goredis.Client) *NonceStore {
	return &NonceStore{
		client: client,
		prefix: "nonce:",
	}
}

// CheckAndSet atomically records a nonce within a scope (e.g. the inbound
// webhook source). It returns true when the nonce is fresh, false when it
// was already seen inside the TTL window.
func (s *NonceStore) CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error) {
	key := s.prefix + scope + ":" + nonce
	ok, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis nonce check: %w", err)
	}
	return ok, nil
}
