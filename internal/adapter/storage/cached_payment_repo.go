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

// CachedPaymentRepo decorates a ports.PaymentRepository with cache-aside
// reads keyed by ID and external ID, invalidating both on every Update.
// Create passes straight through: a missing payment is never cached.
type CachedPaymentRepo struct {
	inner ports.PaymentRepository
	byID  *CachingStore[domain.Payment]
	byExt *CachingStore[domain.Payment]
}

// NewCachedPaymentRepo wraps inner with Redis-backed caching.
func NewCachedPaymentRepo(inner ports.PaymentRepository, cache ports.Cache, ttl time.Duration, invalidator ports.DeferredInvalidator, log zerolog.Logger) *CachedPaymentRepo {
	return &CachedPaymentRepo{
		inner: inner,
		byID:  NewCachingStore[domain.Payment](cache, "payment:id:", ttl, invalidator, log),
		byExt: NewCachingStore[domain.Payment](cache, "payment:ext:", ttl, invalidator, log),
	}
}

func (r *CachedPaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	return r.inner.Create(ctx, tx, p)
}

func (r *CachedPaymentRepo) Update(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	if err := r.inner.Update(ctx, tx, p); err != nil {
		return err
	}
	_ = r.byID.Invalidate(ctx, p.ID.String())
	_ = r.byExt.Invalidate(ctx, p.ExternalID)
	return nil
}

func (r *CachedPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return r.byID.GetOrLoad(ctx, id.String(), func(ctx context.Context) (*domain.Payment, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *CachedPaymentRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error) {
	return r.byExt.GetOrLoad(ctx, externalID, func(ctx context.Context) (*domain.Payment, error) {
		return r.inner.GetByExternalID(ctx, externalID)
	})
}

func (r *CachedPaymentRepo) GetByProcessorTransactionID(ctx context.Context, processorTxID string) (*domain.Payment, error) {
	return r.inner.GetByProcessorTransactionID(ctx, processorTxID)
}

// GetByIDForUpdate always reads through to Postgres: a locking read must
// never be served from cache.
func (r *CachedPaymentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Payment, error) {
	return r.inner.GetByIDForUpdate(ctx, tx, id)
}

func (r *CachedPaymentRepo) List(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	return r.inner.List(ctx, params)
}

func (r *CachedPaymentRepo) GetStats(ctx context.Context, periodStart *time.Time) (*ports.PaymentStats, error) {
	return r.inner.GetStats(ctx, periodStart)
}
