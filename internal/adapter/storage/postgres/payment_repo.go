package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository over the payments table:
// CRUD, lookups by every indexed identity, a filtered listing, aggregate
// stats, and a FOR UPDATE locking read for lifecycle mutations.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `id, external_id, amount, currency, customer_id, customer_email, customer_name,
	card_token, card_last_four, card_brand, card_exp_month, card_exp_year,
	processor_transaction_id, processor_response_code, processor_response_message,
	refunded_amount, refund_count, status, payment_method, description,
	is_test, is_live, metadata, created_at, updated_at, processed_at, settled_at`

// Create inserts a new payment within a database transaction.
func (r *PaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	metadata, err := marshalMetadata(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshal payment metadata: %w", err)
	}

	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`

	_, err = tx.Exec(ctx, query,
		p.ID, p.ExternalID, p.Amount, p.Currency, p.CustomerID, p.CustomerEmail, p.CustomerName,
		p.CardToken, p.CardLastFour, p.CardBrand, p.CardExpMonth, p.CardExpYear,
		p.ProcessorTransactionID, p.ProcessorResponseCode, p.ProcessorResponseMessage,
		p.RefundedAmount, p.RefundCount, p.Status, p.PaymentMethod, p.Description,
		p.IsTest, p.IsLive, metadata, p.CreatedAt, p.UpdatedAt, p.ProcessedAt, p.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// Update persists all mutable fields of a payment within a transaction.
func (r *PaymentRepo) Update(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	metadata, err := marshalMetadata(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshal payment metadata: %w", err)
	}
	p.UpdatedAt = time.Now()

	query := `UPDATE payments SET
		processor_transaction_id = $1, processor_response_code = $2, processor_response_message = $3,
		refunded_amount = $4, refund_count = $5, status = $6, description = $7, metadata = $8,
		updated_at = $9, processed_at = $10, settled_at = $11
		WHERE id = $12`

	tag, err := tx.Exec(ctx, query,
		p.ProcessorTransactionID, p.ProcessorResponseCode, p.ProcessorResponseMessage,
		p.RefundedAmount, p.RefundCount, p.Status, p.Description, metadata,
		p.UpdatedAt, p.ProcessedAt, p.SettledAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %s", p.ID)
	}
	return nil
}

// GetByID fetches a payment by UUID without locking.
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

// GetByExternalID fetches a payment by its client-supplied idempotency key.
func (r *PaymentRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, externalID))
}

// GetByProcessorTransactionID fetches a payment by the upstream processor's
// transaction identifier, used by the inbound webhook handler to locate the
// payment a processor notification refers to.
func (r *PaymentRepo) GetByProcessorTransactionID(ctx context.Context, processorTxID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE processor_transaction_id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, processorTxID))
}

// GetByIDForUpdate fetches a payment with pessimistic row locking. Must be
// called within a transaction: every mutating operation locks the row
// before validating the transition.
func (r *PaymentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return r.scanRow(tx.QueryRow(ctx, query, id))
}

// List fetches payments with filtering and pagination for
// GET /api/v1/payments.
func (r *PaymentRepo) List(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argIdx))
		args = append(args, *params.CustomerID)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	page, pageSize := params.Page, params.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	dataQuery := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, total, nil
}

// GetStats retrieves aggregated payment figures, optionally bounded to a
// period start.
func (r *PaymentRepo) GetStats(ctx context.Context, periodStart *time.Time) (*ports.PaymentStats, error) {
	condition := "TRUE"
	var args []any
	if periodStart != nil {
		condition = "created_at >= $1"
		args = append(args, *periodStart)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status IN ('captured','settled','partially_refunded')) AS captured,
		COUNT(*) FILTER (WHERE status = 'declined') AS declined,
		COUNT(*) FILTER (WHERE status = 'failed') AS failed,
		COUNT(*) FILTER (WHERE status IN ('refunded','partially_refunded')) AS refunded,
		COALESCE(SUM(amount) FILTER (WHERE status IN ('captured','settled','partially_refunded','refunded')), 0) AS total_captured,
		COALESCE(SUM(refunded_amount), 0) AS total_refunded
		FROM payments WHERE %s`, condition)

	stats := &ports.PaymentStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalPayments, &stats.Captured, &stats.Declined, &stats.Failed, &stats.Refunded,
		&stats.TotalCaptured, &stats.TotalRefunded,
	)
	if err != nil {
		return nil, fmt.Errorf("get payment stats: %w", err)
	}
	return stats, nil
}

func (r *PaymentRepo) scan(row pgx.Row) (*domain.Payment, error) {
	return r.scanRow(row)
}

func (r *PaymentRepo) scanRow(row pgx.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	var metadata []byte
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.Amount, &p.Currency, &p.CustomerID, &p.CustomerEmail, &p.CustomerName,
		&p.CardToken, &p.CardLastFour, &p.CardBrand, &p.CardExpMonth, &p.CardExpYear,
		&p.ProcessorTransactionID, &p.ProcessorResponseCode, &p.ProcessorResponseMessage,
		&p.RefundedAmount, &p.RefundCount, &p.Status, &p.PaymentMethod, &p.Description,
		&p.IsTest, &p.IsLive, &metadata, &p.CreatedAt, &p.UpdatedAt, &p.ProcessedAt, &p.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	if err := unmarshalMetadata(metadata, &p.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal payment metadata: %w", err)
	}
	return p, nil
}

// scanPaymentRow scans a pgx.Rows cursor row; kept separate from scanRow
// (which takes the narrower pgx.Row) since *PaymentRepo.List iterates rows.
func scanPaymentRow(rows pgx.Rows) (*domain.Payment, error) {
	p := &domain.Payment{}
	var metadata []byte
	err := rows.Scan(
		&p.ID, &p.ExternalID, &p.Amount, &p.Currency, &p.CustomerID, &p.CustomerEmail, &p.CustomerName,
		&p.CardToken, &p.CardLastFour, &p.CardBrand, &p.CardExpMonth, &p.CardExpYear,
		&p.ProcessorTransactionID, &p.ProcessorResponseCode, &p.ProcessorResponseMessage,
		&p.RefundedAmount, &p.RefundCount, &p.Status, &p.PaymentMethod, &p.Description,
		&p.IsTest, &p.IsLive, &metadata, &p.CreatedAt, &p.UpdatedAt, &p.ProcessedAt, &p.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalMetadata(metadata, &p.Metadata); err != nil {
		return nil, err
	}
	return p, nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func unmarshalMetadata(raw []byte, out *map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
