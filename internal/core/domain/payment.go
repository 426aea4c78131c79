package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a Payment.
type Status string

const (
	StatusPending           Status = "pending"
	StatusAuthorized        Status = "authorized"
	StatusCaptured          Status = "captured"
	StatusSettled           Status = "settled"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
	StatusVoided            Status = "voided"
	StatusFailed            Status = "failed"
	StatusDeclined          Status = "declined"
)

// legalTransitions enumerates the payment lifecycle state graph. A
// transition not present here is always rejected by PaymentEngine.
var legalTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusAuthorized: true,
		StatusCaptured:   true,
		StatusDeclined:   true,
		StatusVoided:     true,
		StatusFailed:     true,
	},
	StatusAuthorized: {
		StatusCaptured: true,
		StatusVoided:   true,
		StatusFailed:   true,
	},
	StatusCaptured: {
		StatusSettled:           true,
		StatusRefunded:          true,
		StatusPartiallyRefunded: true,
	},
	StatusSettled: {
		StatusRefunded:          true,
		StatusPartiallyRefunded: true,
	},
	StatusPartiallyRefunded: {
		StatusRefunded:          true,
		StatusPartiallyRefunded: true,
	},
}

// CanTransition reports whether moving from one status to another is
// legal under the lifecycle state graph.
func CanTransition(from, to Status) bool {
	next, ok := legalTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// IsTerminal reports whether a status admits no further transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusVoided, StatusFailed, StatusDeclined, StatusRefunded:
		return true
	default:
		return false
	}
}

// PaymentMethod enumerates the supported instrument categories.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
)

// Payment represents one attempted money movement through the upstream
// processor. Amounts are stored as int64 minor units (cents); see money.go
// for the decimal-string <-> minor-unit conversions used at the HTTP and
// processor boundaries.
type Payment struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`

	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`

	CustomerID    *string `json:"customer_id,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`

	CardToken    string  `json:"-"`
	CardLastFour *string `json:"card_last_four,omitempty"`
	CardBrand    *string `json:"card_brand,omitempty"`
	CardExpMonth *int    `json:"card_exp_month,omitempty"`
	CardExpYear  *int    `json:"card_exp_year,omitempty"`

	ProcessorTransactionID   *string `json:"processor_transaction_id,omitempty"`
	ProcessorResponseCode    *string `json:"processor_response_code,omitempty"`
	ProcessorResponseMessage *string `json:"processor_response_message,omitempty"`

	RefundedAmount int64 `json:"refunded_amount"`
	RefundCount    int   `json:"refund_count"`

	Status Status `json:"status"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	Description   *string       `json:"description,omitempty"`

	IsTest bool `json:"is_test"`
	IsLive bool `json:"is_live"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
}

// Remaining returns the amount still available to refund.
func (p *Payment) Remaining() int64 {
	return p.Amount - p.RefundedAmount
}

// IsRefundable reports whether the payment is in a state that can accept
// a refund.
func (p *Payment) IsRefundable() bool {
	switch p.Status {
	case StatusCaptured, StatusSettled, StatusPartiallyRefunded:
		return true
	default:
		return false
	}
}

// IsVoidable reports whether the payment is in a state that can accept a
// void: only payments not yet captured.
func (p *Payment) IsVoidable() bool {
	return p.Status == StatusPending || p.Status == StatusAuthorized
}

const (
	// MaxMetadataBytes bounds serialized metadata size.
	MaxMetadataBytes = 16 * 1024
	// MaxAmountMinor is 999,999.99 expressed in minor units.
	MaxAmountMinor = 99_999_999
	// MinAmountMinor is 0.01 expressed in minor units.
	MinAmountMinor = 1
)
