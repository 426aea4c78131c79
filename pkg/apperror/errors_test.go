package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New(KindPayment, "PAY_001", "Insufficient funds"),
			expected: "[PAY_001] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap(KindDatabase, "SYS_001", "DB error", fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap(KindDatabase, "SYS_001", "wrapped", inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New(KindPayment, "PAY_001", "test")
	assert.Nil(t, appErr.Unwrap())
}

func TestKindHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindRateLimit, http.StatusTooManyRequests},
		{KindPayment, http.StatusBadRequest},
		{KindExternalService, http.StatusBadGateway},
		{KindDatabase, http.StatusInternalServerError},
		{KindCache, http.StatusInternalServerError},
		{KindWebhook, http.StatusBadRequest},
	}
	for _, tt := range tests {
		err := New(tt.kind, "x", "y")
		assert.Equal(t, tt.status, err.HTTPStatus, tt.kind)
	}
}

func TestPaymentRuleErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code string
	}{
		{"IllegalTransition", ErrIllegalTransition("captured", "voided"), "illegal_transition"},
		{"RefundExceedsRemaining", ErrRefundExceedsRemaining(), "refund_exceeds_remaining"},
		{"NotRefundable", ErrNotRefundable("pending"), "not_refundable"},
		{"NotVoidable", ErrNotVoidable("captured"), "not_voidable"},
		{"NotCapturable", ErrNotCapturable("captured"), "not_capturable"},
		{"CaptureExceedsAuthorized", ErrCaptureAmountExceedsAuthorized(), "capture_exceeds_authorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, KindPayment, tt.err.Kind)
			assert.Equal(t, http.StatusBadRequest, tt.err.HTTPStatus)
		})
	}
}

func TestErrNotPending_IsConflict(t *testing.T) {
	// A charge racing a completed one is a conflict, like a duplicate
	// external_id, not a 400 business-rule rejection.
	err := ErrNotPending("captured")
	assert.Equal(t, "not_pending", err.Code)
	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
}

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound("payment")
	assert.Contains(t, err.Message, "payment")
	assert.Equal(t, "not_found", err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
}

func TestErrDuplicateExternalID(t *testing.T) {
	err := ErrDuplicateExternalID("pay_abc123def456")
	assert.Equal(t, KindConflict, err.Kind)
	assert.Contains(t, err.Message, "pay_abc123def456")
}

func TestErrRateLimited_CarriesRetryAfter(t *testing.T) {
	err := ErrRateLimited(30)
	assert.Equal(t, KindRateLimit, err.Kind)
	assert.Equal(t, 30, err.Context["retry_after"])
}

func TestErrCircuitOpen(t *testing.T) {
	err := ErrCircuitOpen()
	assert.Equal(t, KindExternalService, err.Kind)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabase(inner)
	assert.Equal(t, "database_error", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	cacheErr := ErrCache(inner)
	assert.Equal(t, "cache_error", cacheErr.Code)
	assert.Equal(t, 500, cacheErr.HTTPStatus)
}

func TestNotImplemented(t *testing.T) {
	err := NotImplemented("subscriptions")
	assert.Equal(t, http.StatusNotImplemented, err.HTTPStatus)
	assert.Contains(t, err.Message, "subscriptions")
}
