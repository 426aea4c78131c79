package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to authorized", StatusPending, StatusAuthorized, true},
		{"pending to captured", StatusPending, StatusCaptured, true},
		{"pending to declined", StatusPending, StatusDeclined, true},
		{"pending to voided", StatusPending, StatusVoided, true},
		{"authorized to captured", StatusAuthorized, StatusCaptured, true},
		{"authorized to voided", StatusAuthorized, StatusVoided, true},
		{"captured to settled", StatusCaptured, StatusSettled, true},
		{"captured to refunded", StatusCaptured, StatusRefunded, true},
		{"captured to partially refunded", StatusCaptured, StatusPartiallyRefunded, true},
		{"partially refunded to refunded", StatusPartiallyRefunded, StatusRefunded, true},
		{"settled cannot void", StatusSettled, StatusVoided, false},
		{"captured cannot void", StatusCaptured, StatusVoided, false},
		{"declined is terminal", StatusDeclined, StatusCaptured, false},
		{"voided is terminal", StatusVoided, StatusCaptured, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusVoided.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusDeclined.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusCaptured.IsTerminal())
	assert.False(t, StatusPartiallyRefunded.IsTerminal())
}

func TestPayment_Remaining(t *testing.T) {
	p := &Payment{Amount: 10000, RefundedAmount: 3000}
	assert.Equal(t, int64(7000), p.Remaining())
}

func TestPayment_IsRefundable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusCaptured, true},
		{StatusSettled, true},
		{StatusPartiallyRefunded, true},
		{StatusPending, false},
		{StatusAuthorized, false},
		{StatusVoided, false},
		{StatusRefunded, false},
	}
	for _, tt := range tests {
		p := &Payment{Status: tt.status}
		assert.Equal(t, tt.want, p.IsRefundable(), tt.status)
	}
}

func TestPayment_IsVoidable(t *testing.T) {
	assert.True(t, (&Payment{Status: StatusPending}).IsVoidable())
	assert.True(t, (&Payment{Status: StatusAuthorized}).IsVoidable())
	assert.False(t, (&Payment{Status: StatusCaptured}).IsVoidable())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"10.00", 1000, false},
		{"0.01", 1, false},
		{"999999.99", 99999999, false},
		{"0.00", 0, false},
		{"10", 0, true},
		{"10.0", 0, true},
		{"-1.00", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "10.00", FormatAmount(1000))
	assert.Equal(t, "0.01", FormatAmount(1))
	assert.Equal(t, "999999.99", FormatAmount(99999999))
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(1))
	assert.True(t, ValidAmount(MaxAmountMinor))
	assert.False(t, ValidAmount(0))
	assert.False(t, ValidAmount(MaxAmountMinor+1))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("USD", nil))
	assert.True(t, ValidCurrency("usd", nil))
	assert.False(t, ValidCurrency("XYZ", nil))
}

func TestRefIDForRefund(t *testing.T) {
	assert.Equal(t, "pay_abc123:refund:1", RefIDForRefund("pay_abc123", 1))
	assert.Equal(t, "pay_abc123:refund:2", RefIDForRefund("pay_abc123", 2))
}

func TestWebhook_IsTerminal(t *testing.T) {
	assert.True(t, (&Webhook{Status: WebhookStatusDelivered}).IsTerminal())
	assert.True(t, (&Webhook{Status: WebhookStatusExpired}).IsTerminal())
	assert.False(t, (&Webhook{Status: WebhookStatusRetrying}).IsTerminal())
	assert.False(t, (&Webhook{Status: WebhookStatusPending}).IsTerminal())
}
