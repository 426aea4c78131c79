package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache implements ports.Cache over Redis: get/set with TTL, single-key
// delete, SCAN-based prefix invalidation, and an INCR+EXPIRE windowed
// counter. CachingStore[T] composes over it for any repository.
type Cache struct {
	client *goredis.Client
	prefix string
}

// NewCache creates a new Redis-backed Cache.
func NewCache(client *goredis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(k string) string { return c.prefix + k }

// Get returns the cached value and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis cache get: %w", err)
	}
	return val, true, nil
}

// Set stores value under key with the given TTL; ttl <= 0 means no expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache set: %w", err)
	}
	return nil
}

// Delete removes a single key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis cache delete: %w", err)
	}
	return nil
}

// InvalidatePattern removes every key under prefix using SCAN+DEL, avoiding
// the production-unsafe KEYS command.
func (c *Cache) InvalidatePattern(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.key(prefix)+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 500 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis cache invalidate pattern: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis cache scan: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis cache invalidate pattern: %w", err)
		}
	}
	return nil
}

// Incr atomically increments key's counter, setting window as its expiry on
// the first increment of each window. Used for fixed-window counters.
func (c *Cache) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := c.key(key)
	count, err := c.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis cache incr: %w", err)
	}
	if count == 1 && window > 0 {
		c.client.Expire(ctx, redisKey, window)
	}
	return count, nil
}
