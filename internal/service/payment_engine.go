package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// commitBackoff is the retry schedule for the commit tie-break: a
// processor call that succeeded but whose commit failed is retried on this
// schedule before falling back to a reconciliation audit log.
var commitBackoff = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

// cardPayload is the JSON shape carried inside CreatePaymentInput.CardToken
// and, encrypted, inside Payment.CardToken. Only the ciphertext and the
// last-four/brand/expiry extracted from it ever reach storage in the
// clear; the PAN itself is never persisted.
type cardPayload struct {
	Number         string `json:"number"`
	ExpirationMMYY string `json:"exp"`
	CVV            string `json:"cvv"`
}

// paymentEngine implements ports.PaymentEngine: the lifecycle state
// machine over Payment, coordinating row-locked local mutation with
// upstream processor calls under at-most-once money-movement semantics.
type paymentEngine struct {
	repo  ports.PaymentRepository
	audit ports.AuditRecorder
	txor  ports.DBTransactor

	processor  ports.ProcessorClient
	breaker    ports.CircuitBreaker
	enc        ports.EncryptionService
	idem       ports.IdempotencyCache
	obs        ports.PaymentObservability
	dispatcher ports.WebhookDispatcher

	clock ports.Clock
	idgen ports.IDGen

	reconciler ports.ReconciliationQueue

	currencyAllowList map[string]bool
	webhookTargetURL  string
	webhookSecret     string

	log zerolog.Logger
}

// NewPaymentEngine creates a new PaymentEngine.
func NewPaymentEngine(
	repo ports.PaymentRepository,
	audit ports.AuditRecorder,
	txor ports.DBTransactor,
	processor ports.ProcessorClient,
	breaker ports.CircuitBreaker,
	enc ports.EncryptionService,
	idem ports.IdempotencyCache,
	obs ports.PaymentObservability,
	dispatcher ports.WebhookDispatcher,
	clock ports.Clock,
	idgen ports.IDGen,
	reconciler ports.ReconciliationQueue,
	currencyAllowList map[string]bool,
	webhookTargetURL, webhookSecret string,
	log zerolog.Logger,
) ports.PaymentEngine {
	return &paymentEngine{
		repo:              repo,
		audit:             audit,
		txor:              txor,
		processor:         processor,
		breaker:           breaker,
		enc:               enc,
		idem:              idem,
		obs:               obs,
		dispatcher:        dispatcher,
		clock:             clock,
		idgen:             idgen,
		reconciler:        reconciler,
		currencyAllowList: currencyAllowList,
		webhookTargetURL:  webhookTargetURL,
		webhookSecret:     webhookSecret,
		log:               log,
	}
}

// Create validates the input, encrypts the card payload at rest, and
// persists a pending Payment with its creation AuditLog in one transaction.
// It never calls the processor: charging is an explicit second step, which
// keeps Create cheap and retryable.
func (e *paymentEngine) Create(ctx context.Context, input ports.CreatePaymentInput) (*domain.Payment, error) {
	if !domain.ValidAmount(input.Amount) {
		return nil, apperror.ErrInvalidAmount(fmt.Sprintf("amount %d minor units is out of bounds", input.Amount))
	}
	if !domain.ValidCurrency(input.Currency, e.currencyAllowList) {
		return nil, apperror.ErrInvalidCurrency(input.Currency)
	}
	if input.PaymentMethod != domain.PaymentMethodCreditCard {
		return nil, apperror.ErrValidation(fmt.Sprintf("unsupported payment method %q", input.PaymentMethod))
	}
	if input.CustomerEmail != nil && !emailPattern.MatchString(*input.CustomerEmail) {
		return nil, apperror.ErrValidation("customer_email is not a valid email address")
	}

	var card cardPayload
	if err := json.Unmarshal([]byte(input.CardToken), &card); err != nil || card.Number == "" {
		return nil, apperror.ErrInvalidCard("card_token does not carry a valid card payload")
	}

	encrypted, err := e.enc.Encrypt(input.CardToken)
	if err != nil {
		return nil, apperror.ErrDatabase(fmt.Errorf("encrypt card token: %w", err))
	}

	lastFour := lastFourDigits(card.Number)
	brand := detectCardBrand(card.Number)
	expMonth, expYear := parseExpMMYY(card.ExpirationMMYY)

	extID := e.idgen.NewExternalID()
	if input.ExternalID != nil {
		extID = *input.ExternalID
		// Fast-path duplicate check before touching the database; the unique
		// index on external_id remains the authoritative guard.
		if e.idem != nil {
			if cached, err := e.idem.Get(ctx, extID); err == nil && len(cached) > 0 {
				return nil, apperror.ErrDuplicateExternalID(extID)
			}
		}
	}

	now := e.clock.Now()
	p := &domain.Payment{
		ID:            e.idgen.NewUUID(),
		ExternalID:    extID,
		Amount:        input.Amount,
		Currency:      strings.ToUpper(input.Currency),
		CustomerID:    input.CustomerID,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
		CardToken:     encrypted,
		CardLastFour:  &lastFour,
		CardBrand:     &brand,
		CardExpMonth:  expMonth,
		CardExpYear:   expYear,
		Status:        domain.StatusPending,
		PaymentMethod: input.PaymentMethod,
		Description:   input.Description,
		IsTest:        input.IsTest,
		IsLive:        !input.IsTest,
		Metadata:      input.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = e.withTx(ctx, func(tx pgx.Tx) error {
		if createErr := e.repo.Create(ctx, tx, p); createErr != nil {
			if !isUniqueViolation(createErr) {
				return apperror.ErrDatabase(createErr)
			}
			// A client-supplied idempotency key that collides is a definitive
			// duplicate; only server-generated ids get regenerated.
			if input.ExternalID != nil {
				return apperror.ErrDuplicateExternalID(extID)
			}
			// One automatic id-regeneration retry, then give up.
			p.ExternalID = e.idgen.NewExternalID()
			if retryErr := e.repo.Create(ctx, tx, p); retryErr != nil {
				if isUniqueViolation(retryErr) {
					return apperror.ErrConflict(fmt.Sprintf("external_id %q collided twice", extID))
				}
				return apperror.ErrDatabase(retryErr)
			}
		}
		return e.audit.Record(ctx, tx, ports.AuditEntry{
			Action:        domain.AuditActionPaymentCreated,
			EntityType:    "payment",
			EntityID:      p.ID.String(),
			PaymentID:     &p.ID,
			CorrelationID: input.CorrelationID,
			Message:       "payment created in pending status",
			NewValues:     map[string]any{"status": string(p.Status)},
		})
	})
	if err != nil {
		return nil, err
	}

	if e.idem != nil {
		if err := e.idem.Set(ctx, p.ExternalID, []byte(p.ID.String()), 24*time.Hour); err != nil {
			e.log.Warn().Err(err).Str("external_id", p.ExternalID).Msg("failed to record idempotency key")
		}
	}

	e.obs.TrackStatusChange(ctx, p.ID, "", p.Status, input.CorrelationID)
	e.enqueueWebhook(ctx, domain.WebhookEventPaymentCreated, p, input.CorrelationID)
	return p, nil
}

// Charge authorizes and captures a pending payment in one processor call.
func (e *paymentEngine) Charge(ctx context.Context, paymentID uuid.UUID, correlationID string) (*domain.Payment, error) {
	return e.processorStep(ctx, paymentID, correlationID, "",
		func(p *domain.Payment) error {
			if p.Status != domain.StatusPending {
				return apperror.ErrNotPending(string(p.Status))
			}
			return nil
		},
		func(p *domain.Payment, card *ports.Card) (*ports.ProcessorResponse, error) {
			return e.processor.ChargeCard(ctx, ports.ChargeRequest{
				AmountMinor: p.Amount, Card: *card, RefID: domain.RefIDForCharge(p.ExternalID),
			})
		},
		true,
		func(p *domain.Payment, resp *ports.ProcessorResponse) error {
			return e.applyProcessorOutcome(p, domain.StatusCaptured, resp)
		},
	)
}

// Authorize is Charge with capture deferred: target state is authorized.
func (e *paymentEngine) Authorize(ctx context.Context, paymentID uuid.UUID, correlationID string) (*domain.Payment, error) {
	return e.processorStep(ctx, paymentID, correlationID, "",
		func(p *domain.Payment) error {
			if p.Status != domain.StatusPending {
				return apperror.ErrNotPending(string(p.Status))
			}
			return nil
		},
		func(p *domain.Payment, card *ports.Card) (*ports.ProcessorResponse, error) {
			return e.processor.AuthorizeOnly(ctx, ports.ChargeRequest{
				AmountMinor: p.Amount, Card: *card, RefID: domain.RefIDForCharge(p.ExternalID),
			})
		},
		true,
		func(p *domain.Payment, resp *ports.ProcessorResponse) error {
			return e.applyProcessorOutcome(p, domain.StatusAuthorized, resp)
		},
	)
}

// Capture settles a previously authorized payment, optionally for less than
// the originally authorized amount.
func (e *paymentEngine) Capture(ctx context.Context, paymentID uuid.UUID, amount *int64, correlationID string) (*domain.Payment, error) {
	return e.processorStep(ctx, paymentID, correlationID, "",
		func(p *domain.Payment) error {
			if p.Status != domain.StatusAuthorized {
				return apperror.ErrNotCapturable(string(p.Status))
			}
			if amount != nil && *amount > p.Amount {
				return apperror.ErrCaptureAmountExceedsAuthorized()
			}
			return nil
		},
		func(p *domain.Payment, _ *ports.Card) (*ports.ProcessorResponse, error) {
			txID := ""
			if p.ProcessorTransactionID != nil {
				txID = *p.ProcessorTransactionID
			}
			return e.processor.Capture(ctx, ports.CaptureRequest{
				TransactionID: txID, AmountMinor: amount, RefID: domain.RefIDForCharge(p.ExternalID),
			})
		},
		false,
		func(p *domain.Payment, resp *ports.ProcessorResponse) error {
			return e.applyProcessorOutcome(p, domain.StatusCaptured, resp)
		},
	)
}

// Refund reverses part or all of a captured/settled/partially_refunded
// payment. amount nil means "refund everything still remaining".
func (e *paymentEngine) Refund(ctx context.Context, paymentID uuid.UUID, amount *int64, reason string, metadata map[string]any, correlationID string) (*domain.Payment, error) {
	return e.processorStep(ctx, paymentID, correlationID, reason,
		func(p *domain.Payment) error {
			if !p.IsRefundable() {
				return apperror.ErrNotRefundable(string(p.Status))
			}
			refundAmount := p.Remaining()
			if amount != nil {
				refundAmount = *amount
			}
			if refundAmount <= 0 || refundAmount > p.Remaining() {
				return apperror.ErrRefundExceedsRemaining()
			}
			if len(metadata) > 0 {
				merged, err := e.obs.MergeMetadata(p.Metadata, metadata)
				if err != nil {
					return err
				}
				p.Metadata = merged
			}
			return nil
		},
		func(p *domain.Payment, card *ports.Card) (*ports.ProcessorResponse, error) {
			txID := ""
			if p.ProcessorTransactionID != nil {
				txID = *p.ProcessorTransactionID
			}
			refundAmount := p.Remaining()
			if amount != nil {
				refundAmount = *amount
			}
			return e.processor.Refund(ctx, ports.RefundRequest{
				TransactionID: txID,
				AmountMinor:   refundAmount,
				Card:          *card,
				RefID:         domain.RefIDForRefund(p.ExternalID, p.RefundCount+1),
			})
		},
		true,
		func(p *domain.Payment, resp *ports.ProcessorResponse) error {
			refundAmount := p.Remaining()
			if amount != nil {
				refundAmount = *amount
			}
			p.RefundedAmount += refundAmount
			p.RefundCount++
			target := domain.StatusPartiallyRefunded
			if p.Remaining() == 0 {
				target = domain.StatusRefunded
			}
			return e.applyProcessorOutcome(p, target, resp)
		},
	)
}

// Void cancels a payment that has not yet been captured. A payment that
// never reached the processor (still pending, never charged) is voided
// locally without an upstream call.
func (e *paymentEngine) Void(ctx context.Context, paymentID uuid.UUID, reason string, metadata map[string]any, correlationID string) (*domain.Payment, error) {
	return e.processorStep(ctx, paymentID, correlationID, reason,
		func(p *domain.Payment) error {
			if !p.IsVoidable() {
				return apperror.ErrNotVoidable(string(p.Status))
			}
			if len(metadata) > 0 {
				merged, err := e.obs.MergeMetadata(p.Metadata, metadata)
				if err != nil {
					return err
				}
				p.Metadata = merged
			}
			return nil
		},
		func(p *domain.Payment, _ *ports.Card) (*ports.ProcessorResponse, error) {
			if p.ProcessorTransactionID == nil {
				return &ports.ProcessorResponse{
					Outcome:      ports.ProcessorOutcomeCaptured,
					ResponseCode: "local_void",
					ResponseText: "voided before any processor call",
				}, nil
			}
			return e.processor.Void(ctx, ports.VoidRequest{
				TransactionID: *p.ProcessorTransactionID, RefID: domain.RefIDForCharge(p.ExternalID),
			})
		},
		false,
		func(p *domain.Payment, resp *ports.ProcessorResponse) error {
			return e.applyProcessorOutcome(p, domain.StatusVoided, resp)
		},
	)
}

// Settle transitions a captured payment to settled once the inbound
// processor webhook reports the settlement batch. No upstream call is made:
// settlement is observed, not requested.
func (e *paymentEngine) Settle(ctx context.Context, paymentID uuid.UUID, correlationID string) (*domain.Payment, error) {
	tx, err := e.txor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase(err)
	}

	p, err := e.repo.GetByIDForUpdate(ctx, tx, paymentID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	if p == nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrNotFound("payment")
	}
	if !domain.CanTransition(p.Status, domain.StatusSettled) {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrIllegalTransition(string(p.Status), string(domain.StatusSettled))
	}

	from := p.Status
	now := e.clock.Now()
	p.Status = domain.StatusSettled
	p.SettledAt = &now
	p.UpdatedAt = now

	if err := e.repo.Update(ctx, tx, p); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	if err := e.audit.Record(ctx, tx, auditEntryForTransition(p, from, correlationID, "settlement observed via processor webhook")); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}

	e.obs.TrackStatusChange(ctx, p.ID, from, p.Status, correlationID)
	return p, nil
}

// Update mutates only description and metadata; it never touches money
// fields, status, or the processor.
func (e *paymentEngine) Update(ctx context.Context, paymentID uuid.UUID, description *string, metadata map[string]any) (*domain.Payment, error) {
	tx, err := e.txor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase(err)
	}

	p, err := e.repo.GetByIDForUpdate(ctx, tx, paymentID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	if p == nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrNotFound("payment")
	}

	if description != nil {
		p.Description = description
	}
	if len(metadata) > 0 {
		merged, err := e.obs.MergeMetadata(p.Metadata, metadata)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
		p.Metadata = merged
	}
	p.UpdatedAt = e.clock.Now()

	if err := e.repo.Update(ctx, tx, p); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}

	entry := ports.AuditEntry{
		Action:     domain.AuditActionPaymentUpdated,
		EntityType: "payment",
		EntityID:   p.ID.String(),
		PaymentID:  &p.ID,
		Message:    "payment description/metadata updated",
		NewValues:  map[string]any{"description": p.Description},
	}
	if err := e.audit.Record(ctx, tx, entry); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	return p, nil
}

// Get resolves idOrExternalID as a UUID first, falling back to ExternalID.
func (e *paymentEngine) Get(ctx context.Context, idOrExternalID string) (*domain.Payment, error) {
	if id, err := uuid.Parse(idOrExternalID); err == nil {
		p, err := e.repo.GetByID(ctx, id)
		if err != nil {
			return nil, apperror.ErrDatabase(err)
		}
		if p == nil {
			return nil, apperror.ErrNotFound("payment")
		}
		return p, nil
	}

	p, err := e.repo.GetByExternalID(ctx, idOrExternalID)
	if err != nil {
		return nil, apperror.ErrDatabase(err)
	}
	if p == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	return p, nil
}

// processorStep is the shared shape behind Charge/Authorize/Capture/
// Refund/Void: lock the row for the duration of the processor call, run the
// call through the CircuitBreaker, apply the outcome, and persist it with
// the commit-retry tie-break. needsCard controls
// whether the payment's card token is decrypted before call runs.
func (e *paymentEngine) processorStep(
	ctx context.Context,
	paymentID uuid.UUID,
	correlationID string,
	note string,
	precondition func(p *domain.Payment) error,
	call func(p *domain.Payment, card *ports.Card) (*ports.ProcessorResponse, error),
	needsCard bool,
	onSuccess func(p *domain.Payment, resp *ports.ProcessorResponse) error,
) (*domain.Payment, error) {
	tx, err := e.txor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase(err)
	}

	p, err := e.repo.GetByIDForUpdate(ctx, tx, paymentID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	if p == nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrNotFound("payment")
	}
	if err := precondition(p); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	var cardPtr *ports.Card
	if needsCard {
		card, err := e.decryptCard(p.CardToken)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, apperror.ErrDatabase(fmt.Errorf("decrypt card token: %w", err))
		}
		cardPtr = &card
	}

	resp, terminalErr, availErr := e.runThroughBreaker(ctx, func() (*ports.ProcessorResponse, error) {
		return call(p, cardPtr)
	})
	if availErr != nil {
		_ = tx.Rollback(ctx)
		return nil, e.classifyAvailabilityError(ctx, p, availErr, correlationID)
	}

	from := p.Status
	var entry ports.AuditEntry
	if terminalErr != nil {
		e.applyTerminalFailure(p, terminalErr)
		entry = auditEntryForTransition(p, from, correlationID, joinNote(note, terminalErr.Error()))
	} else {
		if err := onSuccess(p, resp); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
		entry = auditEntryForTransition(p, from, correlationID, note)
	}
	p.UpdatedAt = e.clock.Now()

	if err := e.repo.Update(ctx, tx, p); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}
	if err := e.audit.Record(ctx, tx, entry); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.ErrDatabase(err)
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		if commitErr := e.retryCommit(ctx, p, entry); commitErr != nil {
			return nil, commitErr
		}
	}

	e.obs.TrackStatusChange(ctx, p.ID, from, p.Status, correlationID)
	e.enqueuePostChargeWebhook(ctx, p, correlationID)
	return p, nil
}

// runThroughBreaker routes a processor call through the CircuitBreaker,
// classifying ValidationError/TransactionError as terminal outcomes that do
// not count as breaker failures; only NetworkError/AuthError trip it.
func (e *paymentEngine) runThroughBreaker(ctx context.Context, call func() (*ports.ProcessorResponse, error)) (resp *ports.ProcessorResponse, terminalErr error, availErr error) {
	availErr = e.breaker.Call(ctx, func() error {
		r, err := call()
		if err != nil {
			var txErr *ports.TransactionError
			var valErr *ports.ValidationError
			if errors.As(err, &txErr) || errors.As(err, &valErr) {
				terminalErr = err
				return nil
			}
			return err
		}
		resp = r
		return nil
	})
	return
}

// classifyAvailabilityError maps a circuit-open/NetworkError/AuthError into
// an AppError and appends a best-effort warning AuditLog. The Payment row
// is left untouched so the caller can retry the operation later.
func (e *paymentEngine) classifyAvailabilityError(ctx context.Context, p *domain.Payment, err error, correlationID string) *apperror.AppError {
	var appErr *apperror.AppError
	var netErr *ports.NetworkError
	var authErr *ports.AuthError

	var result *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		result = appErr
	case errors.As(err, &netErr):
		result = apperror.ErrProcessorUnavailable(netErr)
	case errors.As(err, &authErr):
		result = apperror.ErrProcessorAuth(authErr)
	default:
		result = apperror.ErrProcessorUnavailable(err)
	}

	e.recordBestEffortAudit(ctx, ports.AuditEntry{
		Action:        domain.AuditActionPaymentFailed,
		Level:         domain.AuditLevelWarning,
		Message:       "processor call failed: " + err.Error(),
		EntityType:    "payment",
		EntityID:      p.ID.String(),
		PaymentID:     &p.ID,
		CorrelationID: correlationID,
	})
	return result
}

// applyProcessorOutcome writes the processor's response fields onto p and
// performs the corresponding status transition, falling back from Declined
// to Failed when the state graph has no Declined edge from the current
// status (only pending->declined is defined).
func (e *paymentEngine) applyProcessorOutcome(p *domain.Payment, target domain.Status, resp *ports.ProcessorResponse) error {
	now := e.clock.Now()
	// The processor transaction id is set on the first transition out of
	// pending and never changes: a refund/void response carries its own
	// transaction id, which must not displace the original charge's.
	if resp.TransactionID != "" && p.ProcessorTransactionID == nil {
		p.ProcessorTransactionID = &resp.TransactionID
	}
	if resp.ResponseCode != "" {
		code := resp.ResponseCode
		p.ProcessorResponseCode = &code
	}
	if resp.ResponseText != "" {
		text := resp.ResponseText
		p.ProcessorResponseMessage = &text
	}

	switch resp.Outcome {
	case ports.ProcessorOutcomeCaptured:
		if !domain.CanTransition(p.Status, target) {
			return apperror.ErrIllegalTransition(string(p.Status), string(target))
		}
		p.Status = target
		p.ProcessedAt = &now
	case ports.ProcessorOutcomeDeclined:
		declineTarget := domain.StatusDeclined
		if !domain.CanTransition(p.Status, declineTarget) {
			declineTarget = domain.StatusFailed
		}
		if !domain.CanTransition(p.Status, declineTarget) {
			return apperror.ErrIllegalTransition(string(p.Status), string(declineTarget))
		}
		p.Status = declineTarget
	default:
		if !domain.CanTransition(p.Status, domain.StatusFailed) {
			return apperror.ErrIllegalTransition(string(p.Status), string(domain.StatusFailed))
		}
		p.Status = domain.StatusFailed
	}
	return nil
}

// applyTerminalFailure transitions p to failed after a ValidationError or
// TransactionError, preserving whatever processor detail is available.
func (e *paymentEngine) applyTerminalFailure(p *domain.Payment, err error) {
	var txErr *ports.TransactionError
	if errors.As(err, &txErr) {
		code := txErr.ResponseCode
		msg := txErr.Message
		p.ProcessorResponseCode = &code
		p.ProcessorResponseMessage = &msg
		if txErr.TransactionID != "" {
			p.ProcessorTransactionID = &txErr.TransactionID
		}
	}
	p.Status = domain.StatusFailed
}

// retryCommit re-persists the already-decided Payment/AuditLog pair in a
// fresh transaction, up to len(commitBackoff) times, covering a processor
// success whose commit failed. Exhausting the retries falls back to a
// reconciliation-required critical AuditLog.
func (e *paymentEngine) retryCommit(ctx context.Context, p *domain.Payment, entry ports.AuditEntry) error {
	var lastErr error
	for _, backoff := range commitBackoff {
		time.Sleep(backoff)

		tx, err := e.txor.Begin(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if err := e.repo.Update(ctx, tx, p); err != nil {
			_ = tx.Rollback(ctx)
			lastErr = err
			continue
		}
		if err := e.audit.Record(ctx, tx, entry); err != nil {
			_ = tx.Rollback(ctx)
			lastErr = err
			continue
		}
		if err := tx.Commit(ctx); err != nil {
			_ = tx.Rollback(ctx)
			lastErr = err
			continue
		}
		return nil
	}

	reason := fmt.Sprintf("processor succeeded but commit failed after %d retries: %v", len(commitBackoff), lastErr)
	e.recordBestEffortAudit(ctx, ports.AuditEntry{
		Action:        domain.AuditActionPaymentReconciliationNeeded,
		Level:         domain.AuditLevelCritical,
		Message:       reason,
		EntityType:    "payment",
		EntityID:      p.ID.String(),
		PaymentID:     &p.ID,
		CorrelationID: entry.CorrelationID,
		NewValues:     reconciliationValues(p),
	})
	if e.reconciler != nil {
		if err := e.reconciler.EnqueueReconciliation(ctx, p.ID, reason); err != nil {
			e.log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to enqueue payment reconciliation task")
		}
	}
	return apperror.ErrDatabase(lastErr)
}

func reconciliationValues(p *domain.Payment) map[string]any {
	values := map[string]any{"status": string(p.Status)}
	if p.ProcessorTransactionID != nil {
		values["processor_transaction_id"] = *p.ProcessorTransactionID
	}
	return values
}

// recordBestEffortAudit writes one AuditLog row in its own transaction,
// logging rather than failing the caller if it cannot be persisted.
func (e *paymentEngine) recordBestEffortAudit(ctx context.Context, entry ports.AuditEntry) {
	tx, err := e.txor.Begin(ctx)
	if err != nil {
		e.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to open tx for best-effort audit log")
		return
	}
	if err := e.audit.Record(ctx, tx, entry); err != nil {
		_ = tx.Rollback(ctx)
		e.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to record best-effort audit log")
		return
	}
	if err := tx.Commit(ctx); err != nil {
		e.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to commit best-effort audit log")
	}
}

// enqueueWebhook asks the WebhookDispatcher to deliver event for p. A blank
// target URL (no outbound destination configured) is a silent no-op.
func (e *paymentEngine) enqueueWebhook(ctx context.Context, event domain.WebhookEventType, p *domain.Payment, correlationID string) {
	if e.webhookTargetURL == "" {
		return
	}
	payload := map[string]any{
		"event_type":     string(event),
		"payment_id":     p.ID.String(),
		"external_id":    p.ExternalID,
		"status":         string(p.Status),
		"amount":         domain.FormatAmount(p.Amount),
		"currency":       p.Currency,
		"correlation_id": correlationID,
	}
	if _, err := e.dispatcher.Enqueue(ctx, event, &p.ID, payload, e.webhookTargetURL, e.webhookSecret); err != nil {
		e.log.Warn().Err(err).Str("payment_id", p.ID.String()).Str("event", string(event)).Msg("failed to enqueue webhook")
	}
}

// enqueuePostChargeWebhook emits the event type matching p's post-transition
// status. Authorized has no dedicated event.
func (e *paymentEngine) enqueuePostChargeWebhook(ctx context.Context, p *domain.Payment, correlationID string) {
	switch p.Status {
	case domain.StatusCaptured:
		e.enqueueWebhook(ctx, domain.WebhookEventPaymentCaptured, p, correlationID)
	case domain.StatusDeclined, domain.StatusFailed:
		e.enqueueWebhook(ctx, domain.WebhookEventPaymentFailed, p, correlationID)
	case domain.StatusRefunded, domain.StatusPartiallyRefunded:
		e.enqueueWebhook(ctx, domain.WebhookEventPaymentRefunded, p, correlationID)
	case domain.StatusVoided:
		e.enqueueWebhook(ctx, domain.WebhookEventPaymentVoided, p, correlationID)
	}
}

// decryptCard reverses the encryption Create applied to CardToken and
// decodes it back into the processor's Card shape.
func (e *paymentEngine) decryptCard(token string) (ports.Card, error) {
	raw, err := e.enc.Decrypt(token)
	if err != nil {
		return ports.Card{}, err
	}
	var payload cardPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ports.Card{}, fmt.Errorf("decode decrypted card payload: %w", err)
	}
	return ports.Card{Number: payload.Number, ExpirationMMYY: payload.ExpirationMMYY, CVV: payload.CVV}, nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error, for operations that have no commit-retry tie-break.
func (e *paymentEngine) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := e.txor.Begin(ctx)
	if err != nil {
		return apperror.ErrDatabase(fmt.Errorf("begin tx: %w", err))
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.ErrDatabase(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func auditEntryForTransition(p *domain.Payment, from domain.Status, correlationID, note string) ports.AuditEntry {
	msg := fmt.Sprintf("payment transitioned from %s to %s", from, p.Status)
	if note != "" {
		msg += ": " + note
	}
	return ports.AuditEntry{
		Action:        actionForStatus(p.Status),
		EntityType:    "payment",
		EntityID:      p.ID.String(),
		PaymentID:     &p.ID,
		CorrelationID: correlationID,
		Message:       msg,
		OldValues:     map[string]any{"status": string(from)},
		NewValues:     map[string]any{"status": string(p.Status)},
	}
}

func actionForStatus(s domain.Status) domain.AuditAction {
	switch s {
	case domain.StatusAuthorized:
		return domain.AuditActionPaymentAuthorized
	case domain.StatusCaptured:
		return domain.AuditActionPaymentCaptured
	case domain.StatusSettled:
		return domain.AuditActionPaymentSettled
	case domain.StatusDeclined:
		return domain.AuditActionPaymentDeclined
	case domain.StatusFailed:
		return domain.AuditActionPaymentFailed
	case domain.StatusVoided:
		return domain.AuditActionPaymentVoided
	case domain.StatusRefunded, domain.StatusPartiallyRefunded:
		return domain.AuditActionPaymentRefunded
	default:
		return domain.AuditActionPaymentUpdated
	}
}

func joinNote(note, extra string) string {
	if note == "" {
		return extra
	}
	if extra == "" {
		return note
	}
	return note + "; " + extra
}

func lastFourDigits(number string) string {
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}

// detectCardBrand classifies a PAN by IIN prefix. Unrecognized prefixes
// return "unknown" rather than failing Create; brand is informational.
func detectCardBrand(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "visa"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "amex"
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return "discover"
	}
	if len(number) >= 2 {
		if prefix2, err := strconv.Atoi(number[:2]); err == nil && prefix2 >= 51 && prefix2 <= 55 {
			return "mastercard"
		}
	}
	if len(number) >= 4 {
		if prefix4, err := strconv.Atoi(number[:4]); err == nil && prefix4 >= 2221 && prefix4 <= 2720 {
			return "mastercard"
		}
	}
	return "unknown"
}

// parseExpMMYY decodes a 4-digit MMYY string, returning nil/nil when it
// cannot be parsed rather than failing Create; expiry display is
// best-effort, the authoritative check happens at charge time.
func parseExpMMYY(mmyy string) (*int, *int) {
	if len(mmyy) != 4 {
		return nil, nil
	}
	month, err1 := strconv.Atoi(mmyy[:2])
	year, err2 := strconv.Atoi(mmyy[2:])
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	fullYear := 2000 + year
	return &month, &fullYear
}
