package handler

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/pkg/apperror"
	"easypay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProcessorSignatureHeader carries the HMAC signature Authorize.net computes
// over the notification body.
const ProcessorSignatureHeader = "X-ANET-Signature"

// nonceTTL bounds how long a notification id is remembered for replay
// protection. Authorize.net retries failed notifications for up to a day.
const nonceTTL = 24 * time.Hour

// processorNotification is the subset of the Authorize.net webhook envelope
// the handler acts on.
type processorNotification struct {
	NotificationID string `json:"notificationId"`
	EventType      string `json:"eventType"`
	Payload        struct {
		ID           string `json:"id"`
		ResponseCode int    `json:"responseCode"`
	} `json:"payload"`
}

// WebhookHandler receives inbound Authorize.net notifications, verifies
// their signature, and applies settlement observations to payments.
type WebhookHandler struct {
	engine   ports.PaymentEngine
	payments ports.PaymentRepository
	sig      ports.SignatureService
	nonces   ports.NonceStore
	obs      ports.PaymentObservability
	secret   string
	log      zerolog.Logger
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(
	engine ports.PaymentEngine,
	payments ports.PaymentRepository,
	sig ports.SignatureService,
	nonces ports.NonceStore,
	obs ports.PaymentObservability,
	secret string,
	log zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		engine:   engine,
		payments: payments,
		sig:      sig,
		nonces:   nonces,
		obs:      obs,
		secret:   secret,
		log:      log,
	}
}

// Receive handles POST /api/v1/webhooks/authorize-net. The raw body is
// verified against the processor's HMAC before any JSON decoding; a bad or
// missing signature is a 401 and the body is never acted on.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.Error(c, apperror.ErrValidation("unreadable request body"))
		return
	}

	signature := c.GetHeader(ProcessorSignatureHeader)
	if signature == "" || !h.sig.Verify(h.secret, body, signature) {
		response.Error(c, apperror.ErrInvalidSignature())
		return
	}

	var notification processorNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		response.Error(c, apperror.ErrValidation("malformed notification body"))
		return
	}

	ctx := c.Request.Context()

	if notification.NotificationID != "" {
		fresh, err := h.nonces.CheckAndSet(ctx, "authorize-net", notification.NotificationID, nonceTTL)
		if err != nil {
			h.log.Warn().Err(err).Msg("nonce store unavailable, accepting notification without replay check")
		} else if !fresh {
			// Already processed; acknowledge so the processor stops retrying.
			response.OK(c, gin.H{"status": "duplicate"})
			return
		}
	}

	switch notification.EventType {
	case "net.authcapture.created", "net.capture.created":
		h.applySettlement(c, notification)
	default:
		h.log.Info().Str("event_type", notification.EventType).Msg("ignoring unhandled processor notification")
		response.OK(c, gin.H{"status": "ignored"})
	}
}

// applySettlement resolves the notification's transaction id to a payment
// and marks it settled. A transaction we do not know is acknowledged anyway:
// returning an error would only make the processor retry a notification that
// can never succeed.
func (h *WebhookHandler) applySettlement(c *gin.Context, notification processorNotification) {
	ctx := c.Request.Context()

	p, err := h.payments.GetByProcessorTransactionID(ctx, notification.Payload.ID)
	if err != nil {
		response.Error(c, apperror.ErrDatabase(err))
		return
	}
	if p == nil {
		h.log.Warn().Str("processor_transaction_id", notification.Payload.ID).Msg("settlement notification for unknown transaction")
		response.OK(c, gin.H{"status": "unknown_transaction"})
		return
	}
	if p.Status == domain.StatusSettled {
		response.OK(c, gin.H{"status": "already_settled"})
		return
	}

	settled, err := h.engine.Settle(ctx, p.ID, h.obs.NewCorrelationID())
	if err != nil {
		var appErr *apperror.AppError
		// A payment that moved on (refunded, voided) cannot settle anymore;
		// acknowledge rather than invite retries.
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindPayment {
			h.log.Info().Str("payment_id", p.ID.String()).Str("status", string(p.Status)).Msg("settlement notification arrived after payment left captured state")
			response.OK(c, gin.H{"status": "not_settleable"})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"status": "settled", "payment_id": settled.ID.String()})
}
