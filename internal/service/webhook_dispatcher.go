package service

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// webhookDispatcher implements ports.WebhookDispatcher. Retry scheduling
// is driven by domain.Webhook's persisted next_retry_at rather than an
// in-process sleep goroutine, and claiming uses FOR UPDATE SKIP LOCKED so
// TaskRunner workers never double-deliver.
type webhookDispatcher struct {
	repo ports.WebhookRepository
	txor ports.DBTransactor
	sig  ports.SignatureService

	clock ports.Clock
	idgen ports.IDGen

	httpClient *http.Client
	maxRetries int
	batchSize  int

	sink ports.MetricSink
	log  zerolog.Logger
}

// NewWebhookDispatcher creates a new WebhookDispatcher.
func NewWebhookDispatcher(
	repo ports.WebhookRepository,
	txor ports.DBTransactor,
	sig ports.SignatureService,
	clock ports.Clock,
	idgen ports.IDGen,
	maxRetries int,
	callTimeout time.Duration,
	sink ports.MetricSink,
	log zerolog.Logger,
) ports.WebhookDispatcher {
	return &webhookDispatcher{
		repo:       repo,
		txor:       txor,
		sig:        sig,
		clock:      clock,
		idgen:      idgen,
		httpClient: &http.Client{Timeout: callTimeout},
		maxRetries: maxRetries,
		batchSize:  50,
		sink:       sink,
		log:        log,
	}
}

// Enqueue signs payload, persists a new Webhook in pending state, and
// performs the initial delivery attempt immediately.
func (d *webhookDispatcher) Enqueue(ctx context.Context, eventType domain.WebhookEventType, paymentID *uuid.UUID, payload any, targetURL, secret string) (*domain.Webhook, error) {
	canonical, err := d.sig.CanonicalizeJSON(payload)
	if err != nil {
		return nil, apperror.ErrWebhookDelivery("failed to canonicalize webhook payload")
	}
	signature := d.sig.Sign(secret, canonical)

	now := d.clock.Now()
	w := &domain.Webhook{
		ID:        d.idgen.NewUUID(),
		EventID:   d.idgen.NewUUID().String(),
		EventType: eventType,
		PaymentID: paymentID,
		URL:       targetURL,
		Payload:   canonical,
		Signature: signature,
		Headers: map[string]string{
			"Content-Type":        "application/json",
			"X-Webhook-Signature": signature,
		},
		Status:     domain.WebhookStatusPending,
		MaxRetries: d.maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := d.txor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase(err)
	}
	if err := d.repo.Create(ctx, tx, w); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabase(err)
	}

	if err := d.attempt(ctx, w); err != nil {
		d.log.Warn().Err(err).Str("webhook_id", w.ID.String()).Msg("initial webhook delivery attempt failed")
	}

	return w, nil
}

// DeliverDueNow claims every webhook currently due for (re)delivery and
// attempts each, returning the number successfully delivered.
func (d *webhookDispatcher) DeliverDueNow(ctx context.Context) (int, error) {
	tx, err := d.txor.Begin(ctx)
	if err != nil {
		return 0, apperror.ErrDatabase(err)
	}

	claimed, err := d.repo.ClaimDue(ctx, tx, d.clock.Now(), d.batchSize)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, apperror.ErrDatabase(err)
	}

	delivered := 0
	for i := range claimed {
		w := &claimed[i]
		outcome := d.send(ctx, w)
		d.applyOutcome(w, outcome)
		if err := d.repo.Update(ctx, tx, w); err != nil {
			_ = tx.Rollback(ctx)
			return delivered, apperror.ErrDatabase(err)
		}
		if w.Status == domain.WebhookStatusDelivered {
			delivered++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return delivered, apperror.ErrDatabase(err)
	}
	return delivered, nil
}

// attempt performs a single delivery attempt and persists its outcome in
// its own transaction, used for the immediate attempt at enqueue time.
func (d *webhookDispatcher) attempt(ctx context.Context, w *domain.Webhook) error {
	outcome := d.send(ctx, w)
	d.applyOutcome(w, outcome)

	tx, err := d.txor.Begin(ctx)
	if err != nil {
		return apperror.ErrDatabase(err)
	}
	if err := d.repo.Update(ctx, tx, w); err != nil {
		_ = tx.Rollback(ctx)
		return apperror.ErrDatabase(err)
	}
	return tx.Commit(ctx)
}

// deliveryOutcome is the classification of a single HTTP attempt.
type deliveryOutcome struct {
	delivered     bool
	permanentFail bool
	statusCode    int
	body          string
}

// send performs the HTTP POST, never returning an error: network failures,
// timeouts, and non-2xx responses are all folded into deliveryOutcome so the
// caller has one place to apply the retry/expire state machine.
func (d *webhookDispatcher) send(ctx context.Context, w *domain.Webhook) deliveryOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(w.Payload))
	if err != nil {
		return deliveryOutcome{permanentFail: true, body: err.Error()}
	}
	for k, v := range w.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return deliveryOutcome{body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return deliveryOutcome{delivered: true, statusCode: resp.StatusCode, body: string(body)}
	case resp.StatusCode == 408 || resp.StatusCode == 425 || resp.StatusCode == 429:
		return deliveryOutcome{statusCode: resp.StatusCode, body: string(body)}
	case resp.StatusCode >= 500:
		return deliveryOutcome{statusCode: resp.StatusCode, body: string(body)}
	case resp.StatusCode >= 400:
		return deliveryOutcome{permanentFail: true, statusCode: resp.StatusCode, body: string(body)}
	default:
		return deliveryOutcome{statusCode: resp.StatusCode, body: string(body)}
	}
}

// applyOutcome mutates w's delivery-state fields: 2xx delivers; permanent
// 4xx fails outright; everything else increments retry_count with
// exponential backoff, base 60s capped at 1h, expiring once retry_count
// would exceed max_retries.
func (d *webhookDispatcher) applyOutcome(w *domain.Webhook, o deliveryOutcome) {
	now := d.clock.Now()
	status := o.statusCode
	w.ResponseStatus = &status
	if o.body != "" {
		body := o.body
		w.ResponseBody = &body
	}

	if o.delivered {
		w.Status = domain.WebhookStatusDelivered
		w.DeliveredAt = &now
		w.NextRetryAt = nil
		d.observe(w)
		return
	}

	if o.permanentFail {
		w.Status = domain.WebhookStatusFailed
		w.FailedAt = &now
		w.NextRetryAt = nil
		d.observe(w)
		return
	}

	w.RetryCount++
	if w.RetryCount > w.MaxRetries {
		// retry_count never exceeds max_retries, even in the expired record.
		w.RetryCount = w.MaxRetries
		w.Status = domain.WebhookStatusExpired
		w.FailedAt = &now
		w.NextRetryAt = nil
		d.observe(w)
		return
	}

	backoff := domain.WebhookRetryBase * time.Duration(math.Pow(2, float64(w.RetryCount-1)))
	if backoff > domain.WebhookRetryCap {
		backoff = domain.WebhookRetryCap
	}
	next := now.Add(backoff)
	w.Status = domain.WebhookStatusRetrying
	w.NextRetryAt = &next
	d.observe(w)
}

func (d *webhookDispatcher) observe(w *domain.Webhook) {
	if d.sink != nil {
		d.sink.WebhookDelivery(string(w.Status))
	}
}
