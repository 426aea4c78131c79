package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEventType enumerates the events PaymentEngine and the inbound
// processor webhook handler can enqueue for outbound delivery.
type WebhookEventType string

const (
	WebhookEventPaymentCreated  WebhookEventType = "payment.created"
	WebhookEventPaymentCaptured WebhookEventType = "payment.captured"
	WebhookEventPaymentFailed   WebhookEventType = "payment.failed"
	WebhookEventPaymentRefunded WebhookEventType = "payment.refunded"
	WebhookEventPaymentVoided   WebhookEventType = "payment.voided"
)

// WebhookStatus represents the delivery state of a webhook lineage.
type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "pending"
	WebhookStatusDelivered WebhookStatus = "delivered"
	WebhookStatusFailed    WebhookStatus = "failed"
	WebhookStatusRetrying  WebhookStatus = "retrying"
	WebhookStatusExpired   WebhookStatus = "expired"
)

// Webhook is one outbound delivery attempt lineage.
type Webhook struct {
	ID        uuid.UUID        `json:"id"`
	EventID   string           `json:"event_id"`
	EventType WebhookEventType `json:"event_type"`
	PaymentID *uuid.UUID       `json:"payment_id,omitempty"`

	URL       string            `json:"url"`
	Payload   []byte            `json:"payload"`
	Signature string            `json:"signature"`
	Headers   map[string]string `json:"headers,omitempty"`

	Status         WebhookStatus `json:"status"`
	RetryCount     int           `json:"retry_count"`
	MaxRetries     int           `json:"max_retries"`
	NextRetryAt    *time.Time    `json:"next_retry_at,omitempty"`
	ResponseStatus *int          `json:"response_status,omitempty"`
	ResponseBody   *string       `json:"response_body,omitempty"`
	DeliveredAt    *time.Time    `json:"delivered_at,omitempty"`
	FailedAt       *time.Time    `json:"failed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether the webhook is delivered or expired; such
// records are immutable. Failed records are not reported as terminal.
func (w *Webhook) IsTerminal() bool {
	return w.Status == WebhookStatusDelivered || w.Status == WebhookStatusExpired
}

const (
	// WebhookRetryBase is the base retry backoff duration.
	WebhookRetryBase = 60 * time.Second
	// WebhookRetryCap is the maximum backoff interval.
	WebhookRetryCap = time.Hour
	// WebhookCallTimeout bounds each delivery attempt.
	WebhookCallTimeout = 30 * time.Second
)
