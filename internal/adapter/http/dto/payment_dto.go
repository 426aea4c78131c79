package dto

import (
	"time"

	"easypay/internal/core/domain"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// CreatePaymentRequest is the request body for POST /api/v1/payments.
type CreatePaymentRequest struct {
	ExternalID    *string        `json:"external_id,omitempty" binding:"omitempty,safe_id,max=100"`
	Amount        string         `json:"amount" binding:"required"`
	Currency      string         `json:"currency" binding:"required,len=3"`
	PaymentMethod string         `json:"payment_method" binding:"required"`
	CustomerID    *string        `json:"customer_id,omitempty" binding:"omitempty,max=100"`
	CustomerEmail *string        `json:"customer_email,omitempty" binding:"omitempty,email"`
	CustomerName  *string        `json:"customer_name,omitempty" binding:"omitempty,max=200"`
	CardToken     string         `json:"card_token" binding:"required"`
	Description   *string        `json:"description,omitempty" binding:"omitempty,max=500"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	IsTest        bool           `json:"is_test,omitempty"`
	Capture       bool           `json:"capture,omitempty"`
}

// UpdatePaymentRequest is the request body for PUT /api/v1/payments/{id}.
type UpdatePaymentRequest struct {
	Description *string        `json:"description,omitempty" binding:"omitempty,max=500"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CapturePaymentRequest is the request body for POST .../capture.
type CapturePaymentRequest struct {
	Amount *string `json:"amount,omitempty"`
}

// RefundPaymentRequest is the request body for POST .../refund.
type RefundPaymentRequest struct {
	Amount   *string        `json:"amount,omitempty"`
	Reason   string         `json:"reason" binding:"required,max=500"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CancelPaymentRequest is the request body for POST .../cancel, mapped to
// PaymentEngine.Void.
type CancelPaymentRequest struct {
	Reason   string         `json:"reason" binding:"required,max=500"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// PaymentResponse is the response body shape shared by every endpoint that
// returns a single payment.
type PaymentResponse struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`

	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	RefundedAmount string `json:"refunded_amount"`
	RefundCount    int    `json:"refund_count"`

	CustomerID    *string `json:"customer_id,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`

	CardLastFour *string `json:"card_last_four,omitempty"`
	CardBrand    *string `json:"card_brand,omitempty"`

	ProcessorTransactionID *string `json:"processor_transaction_id,omitempty"`

	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	Description   *string `json:"description,omitempty"`

	IsTest bool `json:"is_test"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	SettledAt   *string `json:"settled_at,omitempty"`
}

// PaymentListResponse wraps a paginated payment list.
type PaymentListResponse struct {
	Items      []PaymentResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// ToPaymentResponse converts a domain Payment into its wire representation,
// rendering minor-unit amounts back to decimal strings.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                     p.ID.String(),
		ExternalID:             p.ExternalID,
		Amount:                 domain.FormatAmount(p.Amount),
		Currency:               p.Currency,
		RefundedAmount:         domain.FormatAmount(p.RefundedAmount),
		RefundCount:            p.RefundCount,
		CustomerID:             p.CustomerID,
		CustomerEmail:          p.CustomerEmail,
		CustomerName:           p.CustomerName,
		CardLastFour:           p.CardLastFour,
		CardBrand:              p.CardBrand,
		ProcessorTransactionID: p.ProcessorTransactionID,
		Status:                 string(p.Status),
		PaymentMethod:          string(p.PaymentMethod),
		Description:            p.Description,
		IsTest:                 p.IsTest,
		Metadata:               p.Metadata,
		CreatedAt:              p.CreatedAt.Format(timeLayout),
		UpdatedAt:              p.UpdatedAt.Format(timeLayout),
		ProcessedAt:            formatTimePtr(p.ProcessedAt),
		SettledAt:              formatTimePtr(p.SettledAt),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}
