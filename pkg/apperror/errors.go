// Package apperror defines the tagged-sum error type used across the core
// and surfaced at the HTTP boundary.
package apperror

import (
	"fmt"
	"net/http"
)

// Kind is the tagged-sum discriminant of AppError; each kind maps to one
// HTTP status.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindAuthentication  Kind = "authentication"
	KindAuthorization   Kind = "authorization"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindRateLimit       Kind = "rate_limit"
	KindPayment         Kind = "payment"
	KindExternalService Kind = "external_service"
	KindDatabase        Kind = "database"
	KindCache           Kind = "cache"
	KindWebhook         Kind = "webhook"
	KindUnavailable     Kind = "unavailable"
)

var kindHTTPStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindAuthentication:  http.StatusUnauthorized,
	KindAuthorization:   http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindRateLimit:       http.StatusTooManyRequests,
	KindPayment:         http.StatusBadRequest,
	KindExternalService: http.StatusBadGateway,
	KindDatabase:        http.StatusInternalServerError,
	KindCache:           http.StatusInternalServerError,
	KindWebhook:         http.StatusBadRequest,
	KindUnavailable:     http.StatusServiceUnavailable,
}

// AppError is EasyPay's CoreError: kind, code, message, HTTP status, a
// wrapped internal error, and an optional context map for diagnostics that
// never reach the client body.
type AppError struct {
	Kind       Kind           `json:"-"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
	Context    map[string]any `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext attaches diagnostic context and returns the same error for
// chaining at the call site.
func (e *AppError) WithContext(ctx map[string]any) *AppError {
	e.Context = ctx
	return e
}

// New constructs an AppError of the given kind with its HTTP status
// derived from the kind.
func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, HTTPStatus: kindHTTPStatus[kind]}
}

// Wrap is New plus an internal error retained for logging but never
// serialized to the client.
func Wrap(kind Kind, code, message string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, HTTPStatus: kindHTTPStatus[kind], Err: err}
}

// ---- validation ----

func ErrValidation(message string) *AppError {
	return New(KindValidation, "validation_error", message)
}

func ErrInvalidAmount(message string) *AppError {
	return New(KindValidation, "invalid_amount", message)
}

func ErrInvalidCurrency(code string) *AppError {
	return New(KindValidation, "invalid_currency", fmt.Sprintf("currency %q is not supported", code))
}

func ErrInvalidCard(message string) *AppError {
	return New(KindValidation, "invalid_card", message)
}

// ---- not_found / conflict ----

func ErrNotFound(entity string) *AppError {
	return New(KindNotFound, "not_found", fmt.Sprintf("%s not found", entity))
}

func ErrConflict(message string) *AppError {
	return New(KindConflict, "conflict", message)
}

func ErrDuplicateExternalID(externalID string) *AppError {
	return New(KindConflict, "duplicate_external_id", fmt.Sprintf("external_id %q already exists", externalID))
}

// ---- authentication / authorization ----

func ErrInvalidSignature() *AppError {
	return New(KindAuthentication, "invalid_signature", "invalid webhook signature")
}

func ErrUnauthorized(message string) *AppError {
	return New(KindAuthentication, "unauthorized", message)
}

// ---- rate_limit ----

// ErrRateLimited carries RetryAfter in Context so the HTTP layer can
// surface it in the error body.
func ErrRateLimited(retryAfter int) *AppError {
	return New(KindRateLimit, "rate_limited", "rate limit exceeded").
		WithContext(map[string]any{"retry_after": retryAfter})
}

// ---- payment (business rule) ----

func ErrIllegalTransition(from, to string) *AppError {
	return New(KindPayment, "illegal_transition", fmt.Sprintf("cannot transition payment from %s to %s", from, to))
}

func ErrRefundExceedsRemaining() *AppError {
	return New(KindPayment, "refund_exceeds_remaining", "refund amount exceeds remaining refundable balance")
}

func ErrNotRefundable(status string) *AppError {
	return New(KindPayment, "not_refundable", fmt.Sprintf("payment in status %q cannot be refunded", status))
}

func ErrNotVoidable(status string) *AppError {
	return New(KindPayment, "not_voidable", fmt.Sprintf("payment in status %q cannot be voided", status))
}

func ErrNotCapturable(status string) *AppError {
	return New(KindPayment, "not_capturable", fmt.Sprintf("payment in status %q cannot be captured", status))
}

// ErrNotPending is a conflict, not a business-rule rejection: a second
// charge of the same payment raced a completed one, and the caller should
// re-read the payment rather than retry.
func ErrNotPending(status string) *AppError {
	return New(KindConflict, "not_pending", fmt.Sprintf("payment in status %q is no longer pending", status))
}

func ErrCaptureAmountExceedsAuthorized() *AppError {
	return New(KindPayment, "capture_exceeds_authorized", "capture amount exceeds originally authorized amount")
}

// ---- external_service ----

func ErrProcessorUnavailable(err error) *AppError {
	return Wrap(KindExternalService, "processor_unavailable", "upstream processor unavailable", err)
}

func ErrCircuitOpen() *AppError {
	return New(KindExternalService, "circuit_open", "upstream processor circuit is open")
}

// ---- admission ----

// ErrServiceUnavailable is the RequestQueue admission shortcut raised when
// the upstream CircuitBreaker is Open, distinct from ErrCircuitOpen's 502
// since the request never reached PaymentEngine at all.
func ErrServiceUnavailable() *AppError {
	return New(KindUnavailable, "service_unavailable", "upstream processor circuit is open")
}

// ErrQueueFull is raised when a request's priority level's backlog is at
// capacity.
func ErrQueueFull() *AppError {
	return New(KindUnavailable, "queue_full", "request queue is full, try again later")
}

// ErrAdmissionTimeout is raised when a queued request is not dequeued
// before request_timeout elapses.
func ErrAdmissionTimeout() *AppError {
	return &AppError{Kind: KindUnavailable, Code: "timeout", Message: "request timed out waiting for admission", HTTPStatus: http.StatusGatewayTimeout}
}

func ErrProcessorAuth(err error) *AppError {
	return Wrap(KindExternalService, "processor_auth_failed", "upstream processor rejected credentials", err)
}

func ErrProcessorTransaction(code, text string) *AppError {
	return New(KindExternalService, "processor_transaction_error", text).
		WithContext(map[string]any{"response_code": code})
}

// ---- database / cache ----

func ErrDatabase(err error) *AppError {
	return Wrap(KindDatabase, "database_error", "internal database error", err)
}

func ErrCache(err error) *AppError {
	return Wrap(KindCache, "cache_error", "internal cache error", err)
}

// ---- webhook ----

func ErrWebhookDelivery(message string) *AppError {
	return New(KindWebhook, "webhook_delivery_error", message)
}

// ---- generic ----

// InternalError maps any uncaught error to the generic internal_error
// kind; the original is retained for logging only.
func InternalError(err error) *AppError {
	return Wrap(KindDatabase, "internal_error", "internal server error", err)
}

// NotImplemented backs reserved surfaces like /api/v1/subscriptions/*.
func NotImplemented(feature string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Code:       "not_implemented",
		Message:    fmt.Sprintf("%s is not implemented", feature),
		HTTPStatus: http.StatusNotImplemented,
	}
}
