package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"easypay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AuditRepo implements ports.AuditRepository: append-only inserts, a
// per-payment listing, and a retention-cutoff bulk delete. There is no
// update path.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

const auditColumns = `id, action, level, message, entity_type, entity_id, payment_id,
	user_id, api_key_id, ip_address, user_agent, request_id, correlation_id,
	metadata, old_values, new_values, created_at`

// Create appends an audit record within the same transaction as the state
// change it describes, so an audit write never commits without the
// business change it documents.
func (r *AuditRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.AuditLog) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	oldValues, err := json.Marshal(a.OldValues)
	if err != nil {
		return fmt.Errorf("marshal audit old_values: %w", err)
	}
	newValues, err := json.Marshal(a.NewValues)
	if err != nil {
		return fmt.Errorf("marshal audit new_values: %w", err)
	}

	query := `INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`

	_, err = tx.Exec(ctx, query,
		a.ID, a.Action, a.Level, a.Message, a.EntityType, a.EntityID, a.PaymentID,
		a.UserID, a.APIKeyID, a.IPAddress, a.UserAgent, a.RequestID, a.CorrelationID,
		metadata, oldValues, newValues, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByPayment returns every audit record for a payment, newest first.
func (r *AuditRepo) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE payment_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		a, err := scanAuditRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		logs = append(logs, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return logs, nil
}

// DeleteOlderThan purges audit records created before cutoff, returning the
// number of rows removed. Records inside the retention window are never
// touched.
func (r *AuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old audit logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAuditRow(rows pgx.Rows) (*domain.AuditLog, error) {
	a := &domain.AuditLog{}
	var metadata, oldValues, newValues []byte
	err := rows.Scan(
		&a.ID, &a.Action, &a.Level, &a.Message, &a.EntityType, &a.EntityID, &a.PaymentID,
		&a.UserID, &a.APIKeyID, &a.IPAddress, &a.UserAgent, &a.RequestID, &a.CorrelationID,
		&metadata, &oldValues, &newValues, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, err
		}
	}
	if len(oldValues) > 0 {
		if err := json.Unmarshal(oldValues, &a.OldValues); err != nil {
			return nil, err
		}
	}
	if len(newValues) > 0 {
		if err := json.Unmarshal(newValues, &a.NewValues); err != nil {
			return nil, err
		}
	}
	return a, nil
}
