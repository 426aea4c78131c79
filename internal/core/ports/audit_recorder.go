package ports

import (
	"context"

	"easypay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AuditEntry is the input to AuditRecorder.Record.
type AuditEntry struct {
	Action     domain.AuditAction
	Level      domain.AuditLevel
	Message    string
	EntityType string
	EntityID   string
	PaymentID  *uuid.UUID

	UserID    *string
	APIKeyID  *string
	IPAddress *string
	UserAgent *string
	RequestID *string

	CorrelationID string

	Metadata  map[string]any
	OldValues map[string]any
	NewValues map[string]any
}

// AuditRecorder appends one AuditLog row per call, always within the same
// transaction as the business mutation it documents, so the audit trail
// and entity state cannot diverge.
type AuditRecorder interface {
	Record(ctx context.Context, tx pgx.Tx, entry AuditEntry) error
}
