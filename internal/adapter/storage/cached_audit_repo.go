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

// CachedAuditRepo decorates a ports.AuditRepository, caching the
// ListByPayment read path per payment and invalidating it on every new
// record for that payment.
type CachedAuditRepo struct {
	inner     ports.AuditRepository
	byPayment *CachingStore[[]domain.AuditLog]
}

// NewCachedAuditRepo wraps inner with Redis-backed caching.
func NewCachedAuditRepo(inner ports.AuditRepository, cache ports.Cache, ttl time.Duration, invalidator ports.DeferredInvalidator, log zerolog.Logger) *CachedAuditRepo {
	return &CachedAuditRepo{
		inner:     inner,
		byPayment: NewCachingStore[[]domain.AuditLog](cache, "audit:payment:", ttl, invalidator, log),
	}
}

func (r *CachedAuditRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.AuditLog) error {
	if err := r.inner.Create(ctx, tx, a); err != nil {
		return err
	}
	if a.PaymentID != nil {
		_ = r.byPayment.Invalidate(ctx, a.PaymentID.String())
	}
	return nil
}

func (r *CachedAuditRepo) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.AuditLog, error) {
	logs, err := r.byPayment.GetOrLoad(ctx, paymentID.String(), func(ctx context.Context) (*[]domain.AuditLog, error) {
		rows, err := r.inner.ListByPayment(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil || logs == nil {
		return nil, err
	}
	return *logs, nil
}

func (r *CachedAuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.inner.DeleteOlderThan(ctx, cutoff)
}
