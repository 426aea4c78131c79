package ports

import (
	"context"
	"encoding/json"
	"time"

	"easypay/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption of card tokens
// and other secrets at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification, used both
// for outbound webhook payloads and inbound processor webhook verification.
type SignatureService interface {
	Sign(secretKey string, payload []byte) string
	Verify(secretKey string, payload []byte, signature string) bool
	CanonicalizeJSON(v any) ([]byte, error)
}

// IdempotencyCache is the Redis-layer idempotency check (fast path) keyed by
// Payment.ExternalID.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness, reused for inbound Authorize.net
// webhook replay protection.
type NonceStore interface {
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
}

// Cache is the key/value port: get, set with TTL, delete, pattern
// invalidation, and an atomic counter for rate-limiting style use cases.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	InvalidatePattern(ctx context.Context, prefix string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// DeferredInvalidator lets a CachingStore fall back to an asynchronous
// retry when a write-through invalidation itself fails: stale cache is
// tolerable, lost invalidation is not. Implemented by the TaskRunner's
// cache.invalidate job.
type DeferredInvalidator interface {
	EnqueueInvalidation(ctx context.Context, prefix, key string) error
}

// ReconciliationQueue hands a payment whose processor call succeeded but
// whose commit could not be made durable, even after PaymentEngine's
// in-process retry, to an out-of-band worker for manual reconciliation.
// Implemented by the TaskRunner's payment.reconcile job.
type ReconciliationQueue interface {
	EnqueueReconciliation(ctx context.Context, paymentID uuid.UUID, reason string) error
}

// --- ProcessorClient ---

// Card is validated before any request assembly: Luhn, MMYY expiration in
// the future, 3-4 digit CVV.
type Card struct {
	Number         string
	ExpirationMMYY string
	CVV            string
}

// BillingAddress accompanies a charge/authorize/refund call.
type BillingAddress struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	State     string
	Zip       string
	Country   string
}

// ChargeRequest is the input to ChargeCard/AuthorizeOnly.
type ChargeRequest struct {
	AmountMinor int64
	Card        Card
	Billing     *BillingAddress
	OrderInfo   map[string]string
	RefID       string
}

// CaptureRequest is the input to Capture; AmountMinor nil captures the full
// authorized amount.
type CaptureRequest struct {
	TransactionID string
	AmountMinor   *int64
	RefID         string
}

// RefundRequest is the input to Refund.
type RefundRequest struct {
	TransactionID string
	AmountMinor   int64
	Card          Card
	RefID         string
}

// VoidRequest is the input to Void.
type VoidRequest struct {
	TransactionID string
	RefID         string
}

// ProcessorOutcome is the coarse classification of a ProcessorResponse,
// derived from the processor's inner responseCode.
type ProcessorOutcome string

const (
	ProcessorOutcomeCaptured ProcessorOutcome = "captured"
	ProcessorOutcomeDeclined ProcessorOutcome = "declined"
	ProcessorOutcomeError    ProcessorOutcome = "error"
)

// ProcessorResponse is the structured result of any ProcessorClient
// operation that reached the upstream and parsed.
type ProcessorResponse struct {
	TransactionID string
	Outcome       ProcessorOutcome
	ResponseCode  string
	ResponseText  string
	AuthCode      *string
	AVSResponse   *string
	CVVResponse   *string
	Amount        *string
	RefID         *string
	Raw           json.RawMessage
}

// NetworkError wraps connect/read/TLS/decode failures. Retryable by callers;
// counts as a CircuitBreaker failure.
type NetworkError struct{ Err error }

func (e *NetworkError) Error() string { return "processor network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError indicates the processor rejected merchant credentials. Fatal
// until configuration changes; counts as a CircuitBreaker failure.
type AuthError struct{ Message string }

func (e *AuthError) Error() string { return "processor auth error: " + e.Message }

// ValidationError indicates a client-supplied Card/BillingAddress failed
// pre-flight validation and was never sent upstream.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return "validation error: " + e.Message }

// TransactionError carries a specific processor response code. Never
// retried; does not count as a CircuitBreaker failure.
type TransactionError struct {
	TransactionID string
	ResponseCode  string
	Message       string
}

func (e *TransactionError) Error() string { return "processor transaction error: " + e.Message }

// ProcessorClient is the upstream card gateway contract.
type ProcessorClient interface {
	Authenticate(ctx context.Context) error
	ChargeCard(ctx context.Context, req ChargeRequest) (*ProcessorResponse, error)
	AuthorizeOnly(ctx context.Context, req ChargeRequest) (*ProcessorResponse, error)
	Capture(ctx context.Context, req CaptureRequest) (*ProcessorResponse, error)
	Refund(ctx context.Context, req RefundRequest) (*ProcessorResponse, error)
	Void(ctx context.Context, req VoidRequest) (*ProcessorResponse, error)
}

// --- CircuitBreaker ---

// CircuitState enumerates the breaker's three states.
type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards calls to the upstream processor.
type CircuitBreaker interface {
	Call(ctx context.Context, fn func() error) error
	State() CircuitState
}

// --- RateLimiter ---

// RateLimiter is a sliding-window limiter keyed by client identity.
type RateLimiter interface {
	// Allow reports whether the request may proceed; when false, retryAfter
	// is the number of seconds the client should wait.
	Allow(identity string) (allowed bool, retryAfter int)
}

// --- RequestQueue ---

// Priority enumerates admission priority levels, highest first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// RequestQueue admits work under a bounded backlog, draining strictly in
// priority order (Critical first) via a fixed worker pool. Each submitted
// job carries a deadline; one dequeued past it is discarded and counted as
// a timeout instead of run.
type RequestQueue interface {
	// Submit admits fn at the given priority. It returns false immediately
	// if the queue is at capacity; fn is never invoked in that case.
	Submit(priority Priority, fn func(ctx context.Context)) bool
	// Stats reports the current backlog size per priority level.
	Stats() map[Priority]int
}

// --- PaymentEngine ---

// CreatePaymentInput is the validated input to PaymentEngine.Create.
type CreatePaymentInput struct {
	ExternalID    *string // client-supplied idempotency key; server-generates if nil
	Amount        int64
	Currency      string
	PaymentMethod domain.PaymentMethod
	CustomerID    *string
	CustomerEmail *string
	CustomerName  *string
	CardToken     string
	Description   *string
	Metadata      map[string]any
	IsTest        bool
	CorrelationID string
}

// PaymentEngine is the lifecycle state machine over Payment.
type PaymentEngine interface {
	Create(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error)
	Charge(ctx context.Context, paymentID uuid.UUID, correlationID string) (*domain.Payment, error)
	Authorize(ctx context.Context, paymentID uuid.UUID, correlationID string) (*domain.Payment, error)
	Capture(ctx context.Context, paymentID uuid.UUID, amount *int64, correlationID string) (*domain.Payment, error)
	Refund(ctx context.Context, paymentID uuid.UUID, amount *int64, reason string, metadata map[string]any, correlationID string) (*domain.Payment, error)
	Void(ctx context.Context, paymentID uuid.UUID, reason string, metadata map[string]any, correlationID string) (*domain.Payment, error)
	// Settle marks a captured payment settled, driven by the inbound
	// processor webhook observing the settlement batch; it never calls the
	// processor itself.
	Settle(ctx context.Context, paymentID uuid.UUID, correlationID string) (*domain.Payment, error)
	Update(ctx context.Context, paymentID uuid.UUID, description *string, metadata map[string]any) (*domain.Payment, error)
	Get(ctx context.Context, idOrExternalID string) (*domain.Payment, error)
}

// --- WebhookDispatcher ---

// WebhookDispatcher accepts enqueue requests from PaymentEngine and the
// inbound webhook handler, and drains the retry queue on a recurring tick.
type WebhookDispatcher interface {
	Enqueue(ctx context.Context, eventType domain.WebhookEventType, paymentID *uuid.UUID, payload any, targetURL, secret string) (*domain.Webhook, error)
	DeliverDueNow(ctx context.Context) (delivered int, err error)
}

// --- ReportingService ---

// ReportingService backs GET /api/v1/payments and internal reconciliation
// reporting; the read side of the payments surface.
type ReportingService interface {
	ListPayments(ctx context.Context, params PaymentListParams) ([]domain.Payment, int64, error)
	GetStats(ctx context.Context, periodStart *time.Time) (*PaymentStats, error)
}

// --- PaymentObservability (DESIGN NOTES capability) ---

// PaymentObservability bundles correlation-ID generation/propagation,
// metadata merging, and status-change tracking into one capability injected
// into PaymentEngine, per DESIGN NOTES, instead of a bag of optional deps.
type PaymentObservability interface {
	NewCorrelationID() string
	// MergeMetadata merges update into existing, rejecting the result if its
	// serialized size exceeds domain.MaxMetadataBytes.
	MergeMetadata(existing, update map[string]any) (map[string]any, error)
	TrackStatusChange(ctx context.Context, paymentID uuid.UUID, from, to domain.Status, correlationID string)
}
