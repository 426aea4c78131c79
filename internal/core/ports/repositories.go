package ports

import (
	"context"
	"time"

	"easypay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository defines persistence operations for payments. Methods
// accepting pgx.Tx are used inside transaction blocks for pessimistic row
// locking: every lifecycle mutation locks its row before validating.
type PaymentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error
	Update(ctx context.Context, tx pgx.Tx, p *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error)
	GetByProcessorTransactionID(ctx context.Context, processorTxID string) (*domain.Payment, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Payment, error)

	List(ctx context.Context, params PaymentListParams) ([]domain.Payment, int64, error)
	GetStats(ctx context.Context, periodStart *time.Time) (*PaymentStats, error)
}

// PaymentListParams holds filter and pagination parameters for GET
// /api/v1/payments.
type PaymentListParams struct {
	CustomerID *string
	Status     *domain.Status
	Page       int
	PageSize   int
}

// PaymentStats holds aggregated reporting figures, in minor units.
type PaymentStats struct {
	TotalPayments int64
	Captured      int64
	Declined      int64
	Failed        int64
	Refunded      int64
	TotalCaptured int64
	TotalRefunded int64
}

// WebhookRepository defines persistence operations for outbound webhook
// delivery lineages.
type WebhookRepository interface {
	Create(ctx context.Context, tx pgx.Tx, w *domain.Webhook) error
	Update(ctx context.Context, tx pgx.Tx, w *domain.Webhook) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error)
	GetByEventID(ctx context.Context, eventID string) (*domain.Webhook, error)

	// ClaimDue selects up to limit rows with status pending or retrying and
	// next_retry_at unset or <= now, locking them FOR UPDATE SKIP LOCKED so that
	// multiple TaskRunner workers never deliver the same webhook twice.
	ClaimDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]domain.Webhook, error)
}

// AuditRepository defines append-only persistence for audit records.
type AuditRepository interface {
	Create(ctx context.Context, tx pgx.Tx, a *domain.AuditLog) error
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// DBTransactor provides database transaction management, shared across all
// repositories so PaymentEngine/WebhookDispatcher/AuditRecorder can compose
// multiple repo calls into one commit.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
