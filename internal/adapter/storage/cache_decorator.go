// Package storage hosts the cache-aside decorator shared by the
// Payment/Webhook/AuditLog repositories: one generic CachingStore rather
// than three hand-duplicated cached-repository types.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"easypay/internal/core/ports"

	"github.com/rs/zerolog"
)

// CachingStore implements cache-aside reads and write-through invalidation
// over any entity type T, keyed by caller-supplied string keys. A repository
// wraps its Postgres reads in GetOrLoad and calls Invalidate after every
// write that can change a cached entry, so stale entries never survive it.
type CachingStore[T any] struct {
	cache       ports.Cache
	prefix      string
	ttl         time.Duration
	invalidator ports.DeferredInvalidator
	log         zerolog.Logger
}

// NewCachingStore creates a CachingStore namespaced under prefix, with
// entries expiring after ttl. invalidator may be nil, in which case a failed
// invalidation is only logged and the entry is left to age out on TTL.
func NewCachingStore[T any](cache ports.Cache, prefix string, ttl time.Duration, invalidator ports.DeferredInvalidator, log zerolog.Logger) *CachingStore[T] {
	return &CachingStore[T]{cache: cache, prefix: prefix, ttl: ttl, invalidator: invalidator, log: log}
}

func (s *CachingStore[T]) cacheKey(key string) string {
	return s.prefix + key
}

// GetOrLoad returns the cached value for key if present, else calls load,
// populates the cache with its result, and returns it. A nil, nil result
// from load (not-found) is never cached; negative lookups always reach
// the store.
func (s *CachingStore[T]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if raw, ok, err := s.cache.Get(ctx, s.cacheKey(key)); err == nil && ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return &v, nil
		}
	}

	v, err := load(ctx)
	if err != nil || v == nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(key), raw, s.ttl)
	}
	return v, nil
}

// Invalidate removes a single cached entry, called after any write that
// could make it stale. On failure it logs a warning and hands the retry
// to the TaskRunner's cache.invalidate job rather than letting the stale
// entry survive silently.
func (s *CachingStore[T]) Invalidate(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, s.cacheKey(key)); err != nil {
		s.log.Warn().Err(err).Str("key", s.cacheKey(key)).Msg("cache invalidation failed, deferring retry")
		if s.invalidator != nil {
			if defErr := s.invalidator.EnqueueInvalidation(ctx, s.prefix, key); defErr != nil {
				s.log.Warn().Err(defErr).Str("key", s.cacheKey(key)).Msg("failed to enqueue deferred cache invalidation")
			}
		}
		return fmt.Errorf("invalidate cache key %s%s: %w", s.prefix, key, err)
	}
	return nil
}

// InvalidateAll drops every entry under this store's prefix, used for
// broader write-through invalidation (e.g. list/stats views).
func (s *CachingStore[T]) InvalidateAll(ctx context.Context) error {
	if err := s.cache.InvalidatePattern(ctx, s.prefix); err != nil {
		s.log.Warn().Err(err).Str("prefix", s.prefix).Msg("cache pattern invalidation failed, deferring retry")
		if s.invalidator != nil {
			if defErr := s.invalidator.EnqueueInvalidation(ctx, s.prefix, ""); defErr != nil {
				s.log.Warn().Err(defErr).Str("prefix", s.prefix).Msg("failed to enqueue deferred cache invalidation")
			}
		}
		return fmt.Errorf("invalidate cache prefix %s: %w", s.prefix, err)
	}
	return nil
}
