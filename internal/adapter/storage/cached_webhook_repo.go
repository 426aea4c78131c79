package storage

import (
	"context"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// CachedWebhookRepo decorates a ports.WebhookRepository with cache-aside
// reads keyed by ID and event ID.
type CachedWebhookRepo struct {
	inner     ports.WebhookRepository
	byID      *CachingStore[domain.Webhook]
	byEventID *CachingStore[domain.Webhook]
}

// NewCachedWebhookRepo wraps inner with Redis-backed caching.
func NewCachedWebhookRepo(inner ports.WebhookRepository, cache ports.Cache, ttl time.Duration, invalidator ports.DeferredInvalidator, log zerolog.Logger) *CachedWebhookRepo {
	return &CachedWebhookRepo{
		inner:     inner,
		byID:      NewCachingStore[domain.Webhook](cache, "webhook:id:", ttl, invalidator, log),
		byEventID: NewCachingStore[domain.Webhook](cache, "webhook:event:", ttl, invalidator, log),
	}
}

func (r *CachedWebhookRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Webhook) error {
	return r.inner.Create(ctx, tx, w)
}

func (r *CachedWebhookRepo) Update(ctx context.Context, tx pgx.Tx, w *domain.Webhook) error {
	if err := r.inner.Update(ctx, tx, w); err != nil {
		return err
	}
	_ = r.byID.Invalidate(ctx, w.ID.String())
	_ = r.byEventID.Invalidate(ctx, w.EventID)
	return nil
}

func (r *CachedWebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	return r.byID.GetOrLoad(ctx, id.String(), func(ctx context.Context) (*domain.Webhook, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *CachedWebhookRepo) GetByEventID(ctx context.Context, eventID string) (*domain.Webhook, error) {
	return r.byEventID.GetOrLoad(ctx, eventID, func(ctx context.Context) (*domain.Webhook, error) {
		return r.inner.GetByEventID(ctx, eventID)
	})
}

// ClaimDue always reads through to Postgres: the FOR UPDATE SKIP LOCKED
// claim must never be served from cache.
func (r *CachedWebhookRepo) ClaimDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]domain.Webhook, error) {
	return r.inner.ClaimDue(ctx, tx, now, limit)
}
