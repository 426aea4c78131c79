package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"easypay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository over the webhooks table.
// ClaimDue uses FOR UPDATE SKIP LOCKED so concurrently running retry
// workers never deliver the same webhook twice.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

const webhookColumns = `id, event_id, event_type, payment_id, url, payload, signature, headers,
	status, retry_count, max_retries, next_retry_at, response_status, response_body,
	delivered_at, failed_at, created_at, updated_at`

func (r *WebhookRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Webhook) error {
	headers, err := json.Marshal(w.Headers)
	if err != nil {
		return fmt.Errorf("marshal webhook headers: %w", err)
	}

	query := `INSERT INTO webhooks (` + webhookColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	_, err = tx.Exec(ctx, query,
		w.ID, w.EventID, w.EventType, w.PaymentID, w.URL, w.Payload, w.Signature, headers,
		w.Status, w.RetryCount, w.MaxRetries, w.NextRetryAt, w.ResponseStatus, w.ResponseBody,
		w.DeliveredAt, w.FailedAt, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook: %w", err)
	}
	return nil
}

func (r *WebhookRepo) Update(ctx context.Context, tx pgx.Tx, w *domain.Webhook) error {
	w.UpdatedAt = time.Now()

	query := `UPDATE webhooks SET
		status = $1, retry_count = $2, next_retry_at = $3, response_status = $4, response_body = $5,
		delivered_at = $6, failed_at = $7, updated_at = $8
		WHERE id = $9`

	tag, err := tx.Exec(ctx, query,
		w.Status, w.RetryCount, w.NextRetryAt, w.ResponseStatus, w.ResponseBody,
		w.DeliveredAt, w.FailedAt, w.UpdatedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook not found: %s", w.ID)
	}
	return nil
}

func (r *WebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

func (r *WebhookRepo) GetByEventID(ctx context.Context, eventID string) (*domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE event_id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, eventID))
}

// ClaimDue selects up to limit webhooks eligible for delivery (status
// pending or retrying with next_retry_at due), locking them FOR UPDATE SKIP
// LOCKED so concurrent TaskRunner workers never double-deliver.
func (r *WebhookRepo) ClaimDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks
		WHERE status IN ('pending', 'retrying') AND (next_retry_at IS NULL OR next_retry_at <= $1)
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claim due webhooks: %w", err)
	}
	defer rows.Close()

	var claimed []domain.Webhook
	for rows.Next() {
		w, err := scanWebhookRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claimed webhook: %w", err)
		}
		claimed = append(claimed, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claimed webhooks: %w", err)
	}
	return claimed, nil
}

func (r *WebhookRepo) scan(row pgx.Row) (*domain.Webhook, error) {
	w := &domain.Webhook{}
	var headers []byte
	err := row.Scan(
		&w.ID, &w.EventID, &w.EventType, &w.PaymentID, &w.URL, &w.Payload, &w.Signature, &headers,
		&w.Status, &w.RetryCount, &w.MaxRetries, &w.NextRetryAt, &w.ResponseStatus, &w.ResponseBody,
		&w.DeliveredAt, &w.FailedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan webhook: %w", err)
	}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &w.Headers); err != nil {
			return nil, fmt.Errorf("unmarshal webhook headers: %w", err)
		}
	}
	return w, nil
}

func scanWebhookRow(rows pgx.Rows) (*domain.Webhook, error) {
	w := &domain.Webhook{}
	var headers []byte
	err := rows.Scan(
		&w.ID, &w.EventID, &w.EventType, &w.PaymentID, &w.URL, &w.Payload, &w.Signature, &headers,
		&w.Status, &w.RetryCount, &w.MaxRetries, &w.NextRetryAt, &w.ResponseStatus, &w.ResponseBody,
		&w.DeliveredAt, &w.FailedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &w.Headers); err != nil {
			return nil, err
		}
	}
	return w, nil
}
