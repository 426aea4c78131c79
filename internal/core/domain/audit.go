package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLevel classifies the severity of an audit record.
type AuditLevel string

const (
	AuditLevelInfo     AuditLevel = "info"
	AuditLevelWarning  AuditLevel = "warning"
	AuditLevelError    AuditLevel = "error"
	AuditLevelCritical AuditLevel = "critical"
)

// AuditAction enumerates recorded lifecycle actions.
type AuditAction string

const (
	AuditActionPaymentCreated              AuditAction = "payment.created"
	AuditActionPaymentAuthorized           AuditAction = "payment.authorized"
	AuditActionPaymentCaptured             AuditAction = "payment.captured"
	AuditActionPaymentSettled              AuditAction = "payment.settled"
	AuditActionPaymentDeclined             AuditAction = "payment.declined"
	AuditActionPaymentFailed               AuditAction = "payment.failed"
	AuditActionPaymentVoided               AuditAction = "payment.voided"
	AuditActionPaymentRefunded             AuditAction = "payment.refunded"
	AuditActionPaymentUpdated              AuditAction = "payment.updated"
	AuditActionPaymentReconciliationNeeded AuditAction = "payment.reconciliation_required"
	AuditActionWebhookDelivered            AuditAction = "webhook.delivered"
	AuditActionWebhookFailed               AuditAction = "webhook.failed"
	AuditActionWebhookExpired              AuditAction = "webhook.expired"
)

// AuditLog is an append-only record of a single audited state transition.
// Never updated or deleted inside the retention window.
type AuditLog struct {
	ID     uuid.UUID  `json:"id"`
	Action AuditAction `json:"action"`
	Level  AuditLevel `json:"level"`

	Message string `json:"message"`

	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	PaymentID  *uuid.UUID `json:"payment_id,omitempty"`

	UserID        *string `json:"user_id,omitempty"`
	APIKeyID      *string `json:"api_key_id,omitempty"`
	IPAddress     *string `json:"ip_address,omitempty"`
	UserAgent     *string `json:"user_agent,omitempty"`
	RequestID     *string `json:"request_id,omitempty"`
	CorrelationID string  `json:"correlation_id"`

	Metadata  map[string]any `json:"metadata,omitempty"`
	OldValues map[string]any `json:"old_values,omitempty"`
	NewValues map[string]any `json:"new_values,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
