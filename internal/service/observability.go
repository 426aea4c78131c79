package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentObservability implements ports.PaymentObservability, bundling
// correlation-ID generation, metadata merging, and status-change logging
// into the single capability DESIGN NOTES calls for instead of threading
// three separate optional dependencies through PaymentEngine.
type paymentObservability struct {
	sink ports.MetricSink
	log  zerolog.Logger
}

// NewPaymentObservability creates a new PaymentObservability. sink may be
// nil when no metrics backend is wired (tests).
func NewPaymentObservability(sink ports.MetricSink, log zerolog.Logger) ports.PaymentObservability {
	return &paymentObservability{sink: sink, log: log}
}

// NewCorrelationID returns a random 16-byte hex string used to correlate an
// HTTP request with the AuditLog and WebhookDispatcher records it produces.
func (o *paymentObservability) NewCorrelationID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// MergeMetadata shallow-merges update into existing (update wins on key
// collision) and rejects the result if it serializes past
// domain.MaxMetadataBytes.
func (o *paymentObservability) MergeMetadata(existing, update map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(existing)+len(update))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range update {
		merged[k] = v
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, apperror.ErrValidation("metadata is not serializable")
	}
	if len(raw) > domain.MaxMetadataBytes {
		return nil, apperror.ErrValidation("metadata exceeds maximum size of 16KiB")
	}
	return merged, nil
}

// TrackStatusChange logs a structured lifecycle transition. It never fails;
// it is a side channel for operational visibility, not business logic.
func (o *paymentObservability) TrackStatusChange(ctx context.Context, paymentID uuid.UUID, from, to domain.Status, correlationID string) {
	if o.sink != nil {
		o.sink.PaymentTransition(string(from), string(to))
	}
	o.log.Info().
		Str("payment_id", paymentID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("correlation_id", correlationID).
		Msg("payment status changed")
}
