package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/internal/core/ports/mocks"
	"easypay/internal/platform/clock"
	"easypay/internal/platform/idgen"
	"easypay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockTx implements pgx.Tx for testing; commitErr makes Commit fail to
// exercise the commit-retry tie-break.
type mockTx struct {
	pgx.Tx
	commitErr error
}

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return m.commitErr }

const testCardToken = `{"number":"4242424242424242","exp":"1230","cvv":"123"}`

type engineTestDeps struct {
	engine     ports.PaymentEngine
	repo       *mocks.MockPaymentRepository
	audit      *mocks.MockAuditRecorder
	transactor *mocks.MockDBTransactor
	processor  *mocks.MockProcessorClient
	dispatcher *mocks.MockWebhookDispatcher
	reconciler *mocks.MockReconciliationQueue
	enc        *AESEncryptionService
	clock      *clock.Fixed
	ctrl       *gomock.Controller
}

func setupEngine(t *testing.T, webhookURL string) *engineTestDeps {
	ctrl := gomock.NewController(t)
	enc, err := NewAESEncryptionService("test-master-secret")
	require.NoError(t, err)

	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := &engineTestDeps{
		repo:       mocks.NewMockPaymentRepository(ctrl),
		audit:      mocks.NewMockAuditRecorder(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		processor:  mocks.NewMockProcessorClient(ctrl),
		dispatcher: mocks.NewMockWebhookDispatcher(ctrl),
		reconciler: mocks.NewMockReconciliationQueue(ctrl),
		enc:        enc,
		clock:      clk,
		ctrl:       ctrl,
	}

	breaker := NewCircuitBreaker(5, time.Minute, 3, clk, zerolog.Nop())
	obs := NewPaymentObservability(nil, zerolog.Nop())

	d.engine = NewPaymentEngine(
		d.repo, d.audit, d.transactor,
		d.processor, breaker, enc, nil, obs, d.dispatcher,
		clk, idgen.New(), d.reconciler,
		nil, webhookURL, "whsec_test", zerolog.Nop(),
	)
	return d
}

func (d *engineTestDeps) pendingPayment(t *testing.T, amount int64) *domain.Payment {
	t.Helper()
	encrypted, err := d.enc.Encrypt(testCardToken)
	require.NoError(t, err)
	return &domain.Payment{
		ID:            uuid.New(),
		ExternalID:    "pay_0123456789ab",
		Amount:        amount,
		Currency:      "USD",
		CardToken:     encrypted,
		Status:        domain.StatusPending,
		PaymentMethod: domain.PaymentMethodCreditCard,
		CreatedAt:     d.clock.Now(),
		UpdatedAt:     d.clock.Now(),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// ==================== Create ====================

func TestPaymentEngine_Create_Success(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	p, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
		Amount:        1000,
		Currency:      "USD",
		PaymentMethod: domain.PaymentMethodCreditCard,
		CardToken:     testCardToken,
		IsTest:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.Regexp(t, regexp.MustCompile(`^pay_[0-9a-f]{12}$`), p.ExternalID)
	require.NotNil(t, p.CardLastFour)
	assert.Equal(t, "4242", *p.CardLastFour)
	require.NotNil(t, p.CardBrand)
	assert.Equal(t, "visa", *p.CardBrand)
	assert.True(t, p.IsTest)
	assert.False(t, p.IsLive)
}

func TestPaymentEngine_Create_InvalidAmount(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	for _, amount := range []int64{0, -100, domain.MaxAmountMinor + 1} {
		_, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
			Amount:        amount,
			Currency:      "USD",
			PaymentMethod: domain.PaymentMethodCreditCard,
			CardToken:     testCardToken,
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
	}
}

func TestPaymentEngine_Create_BoundaryAmounts(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	for _, amount := range []int64{domain.MinAmountMinor, domain.MaxAmountMinor} {
		_, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
			Amount:        amount,
			Currency:      "USD",
			PaymentMethod: domain.PaymentMethodCreditCard,
			CardToken:     testCardToken,
		})
		assert.NoError(t, err)
	}
}

func TestPaymentEngine_Create_InvalidCurrency(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	_, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
		Amount:        1000,
		Currency:      "XXX",
		PaymentMethod: domain.PaymentMethodCreditCard,
		CardToken:     testCardToken,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "invalid_currency", appErr.Code)
}

func TestPaymentEngine_Create_InvalidEmail(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	email := "not-an-email"
	_, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
		Amount:        1000,
		Currency:      "USD",
		PaymentMethod: domain.PaymentMethodCreditCard,
		CardToken:     testCardToken,
		CustomerEmail: &email,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestPaymentEngine_Create_ClientExternalIDConflict(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(uniqueViolation())

	extID := "order-42"
	_, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
		ExternalID:    &extID,
		Amount:        1000,
		Currency:      "USD",
		PaymentMethod: domain.PaymentMethodCreditCard,
		CardToken:     testCardToken,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
}

func TestPaymentEngine_Create_RegeneratesServerIDOnce(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	first := d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(uniqueViolation())
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).After(first)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	p, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
		Amount:        1000,
		Currency:      "USD",
		PaymentMethod: domain.PaymentMethodCreditCard,
		CardToken:     testCardToken,
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^pay_[0-9a-f]{12}$`), p.ExternalID)
}

func TestPaymentEngine_Create_SecondCollisionConflicts(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(uniqueViolation()).Times(2)

	_, err := d.engine.Create(context.Background(), ports.CreatePaymentInput{
		Amount:        1000,
		Currency:      "USD",
		PaymentMethod: domain.PaymentMethodCreditCard,
		CardToken:     testCardToken,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
}

// ==================== Charge ====================

func TestPaymentEngine_Charge_Captured(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().ChargeCard(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.ChargeRequest) (*ports.ProcessorResponse, error) {
			assert.Equal(t, int64(1000), req.AmountMinor)
			assert.Equal(t, "4242424242424242", req.Card.Number)
			assert.Equal(t, domain.RefIDForCharge(p.ExternalID), req.RefID)
			return &ports.ProcessorResponse{
				TransactionID: "anet_123",
				Outcome:       ports.ProcessorOutcomeCaptured,
				ResponseCode:  "1",
				ResponseText:  "This transaction has been approved.",
			}, nil
		})
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, err := d.engine.Charge(context.Background(), p.ID, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCaptured, result.Status)
	require.NotNil(t, result.ProcessorTransactionID)
	assert.Equal(t, "anet_123", *result.ProcessorTransactionID)
	assert.NotNil(t, result.ProcessedAt)
}

func TestPaymentEngine_Charge_Declined(t *testing.T) {
	d := setupEngine(t, "https://merchant.example/hooks")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().ChargeCard(gomock.Any(), gomock.Any()).Return(&ports.ProcessorResponse{
		Outcome:      ports.ProcessorOutcomeDeclined,
		ResponseCode: "2",
		ResponseText: "This transaction has been declined.",
	}, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.dispatcher.EXPECT().Enqueue(gomock.Any(), domain.WebhookEventPaymentFailed, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.Webhook{}, nil)

	result, err := d.engine.Charge(context.Background(), p.ID, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, result.Status)
	require.NotNil(t, result.ProcessorResponseCode)
	assert.Equal(t, "2", *result.ProcessorResponseCode)
}

func TestPaymentEngine_Charge_NetworkErrorLeavesPending(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).AnyTimes()
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().ChargeCard(gomock.Any(), gomock.Any()).
		Return(nil, &ports.NetworkError{Err: errors.New("connect timeout")})
	// Best-effort warning audit is written in its own transaction; the
	// payment row itself is never updated.
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	_, err := d.engine.Charge(context.Background(), p.ID, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindExternalService, appErr.Kind)
	assert.Equal(t, domain.StatusPending, p.Status)
}

func TestPaymentEngine_Charge_TransactionErrorFails(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().ChargeCard(gomock.Any(), gomock.Any()).
		Return(nil, &ports.TransactionError{ResponseCode: "3", Message: "processing error"})
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, err := d.engine.Charge(context.Background(), p.ID, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, result.Status)
	require.NotNil(t, result.ProcessorResponseCode)
	assert.Equal(t, "3", *result.ProcessorResponseCode)
}

func TestPaymentEngine_Charge_NotPending(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)
	p.Status = domain.StatusCaptured

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)

	_, err := d.engine.Charge(context.Background(), p.ID, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, "not_pending", appErr.Code)
}

func TestPaymentEngine_Charge_NotFound(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	id := uuid.New()
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), id).Return(nil, nil)

	_, err := d.engine.Charge(context.Background(), id, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

// ==================== Authorize / Capture ====================

func TestPaymentEngine_Authorize_ThenCapture(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 5000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil).Times(2)
	d.processor.EXPECT().AuthorizeOnly(gomock.Any(), gomock.Any()).Return(&ports.ProcessorResponse{
		TransactionID: "anet_auth_1",
		Outcome:       ports.ProcessorOutcomeCaptured,
		ResponseCode:  "1",
	}, nil)
	d.processor.EXPECT().Capture(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.CaptureRequest) (*ports.ProcessorResponse, error) {
			assert.Equal(t, "anet_auth_1", req.TransactionID)
			return &ports.ProcessorResponse{
				TransactionID: "anet_auth_1",
				Outcome:       ports.ProcessorOutcomeCaptured,
				ResponseCode:  "1",
			}, nil
		})
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	result, err := d.engine.Authorize(context.Background(), p.ID, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAuthorized, result.Status)

	result, err = d.engine.Capture(context.Background(), p.ID, nil, "corr_2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCaptured, result.Status)
}

func TestPaymentEngine_Capture_ExceedsAuthorized(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 5000)
	p.Status = domain.StatusAuthorized

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)

	over := int64(6000)
	_, err := d.engine.Capture(context.Background(), p.ID, &over, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "capture_exceeds_authorized", appErr.Code)
}

// ==================== Refund ====================

func refundableAtWith(d *engineTestDeps, t *testing.T, amount, refunded int64, count int) *domain.Payment {
	p := d.pendingPayment(t, amount)
	p.Status = domain.StatusCaptured
	txID := "anet_123"
	p.ProcessorTransactionID = &txID
	p.RefundedAmount = refunded
	p.RefundCount = count
	if refunded > 0 {
		p.Status = domain.StatusPartiallyRefunded
	}
	return p
}

func TestPaymentEngine_Refund_PartialThenFull(t *testing.T) {
	d := setupEngine(t, "https://merchant.example/hooks")
	defer d.ctrl.Finish()

	p := refundableAtWith(d, t, 10000, 0, 0)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil).Times(2)
	d.processor.EXPECT().Refund(gomock.Any(), gomock.Any()).Return(&ports.ProcessorResponse{
		TransactionID: "anet_ref_1",
		Outcome:       ports.ProcessorOutcomeCaptured,
		ResponseCode:  "1",
	}, nil).Times(2)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.dispatcher.EXPECT().Enqueue(gomock.Any(), domain.WebhookEventPaymentRefunded, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.Webhook{}, nil).Times(2)

	thirty := int64(3000)
	result, err := d.engine.Refund(context.Background(), p.ID, &thirty, "requested", nil, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyRefunded, result.Status)
	assert.Equal(t, int64(3000), result.RefundedAmount)
	assert.Equal(t, 1, result.RefundCount)

	seventy := int64(7000)
	result, err = d.engine.Refund(context.Background(), p.ID, &seventy, "requested", nil, "corr_2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, result.Status)
	assert.Equal(t, int64(10000), result.RefundedAmount)
	assert.Equal(t, 2, result.RefundCount)
}

func TestPaymentEngine_Refund_ExceedsRemaining(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := refundableAtWith(d, t, 5000, 4000, 1)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)

	over := int64(4000)
	_, err := d.engine.Refund(context.Background(), p.ID, &over, "requested", nil, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindPayment, appErr.Kind)
	assert.Equal(t, "refund_exceeds_remaining", appErr.Code)
}

func TestPaymentEngine_Refund_NotRefundable(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)

	_, err := d.engine.Refund(context.Background(), p.ID, nil, "requested", nil, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "not_refundable", appErr.Code)
}

func TestPaymentEngine_Refund_UsesSequencedRefID(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := refundableAtWith(d, t, 10000, 3000, 1)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().Refund(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.RefundRequest) (*ports.ProcessorResponse, error) {
			assert.Equal(t, domain.RefIDForRefund(p.ExternalID, 2), req.RefID)
			return &ports.ProcessorResponse{Outcome: ports.ProcessorOutcomeCaptured, ResponseCode: "1"}, nil
		})
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	amount := int64(1000)
	_, err := d.engine.Refund(context.Background(), p.ID, &amount, "requested", nil, "corr_1")
	require.NoError(t, err)
}

// ==================== Void ====================

func TestPaymentEngine_Void_PendingNeverChargedSkipsProcessor(t *testing.T) {
	d := setupEngine(t, "https://merchant.example/hooks")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	// No processor.Void expectation: a payment without a processor
	// transaction id is voided locally.
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.dispatcher.EXPECT().Enqueue(gomock.Any(), domain.WebhookEventPaymentVoided, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.Webhook{}, nil)

	result, err := d.engine.Void(context.Background(), p.ID, "customer cancelled", nil, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoided, result.Status)
}

func TestPaymentEngine_Void_Authorized(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)
	p.Status = domain.StatusAuthorized
	txID := "anet_auth_9"
	p.ProcessorTransactionID = &txID

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().Void(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.VoidRequest) (*ports.ProcessorResponse, error) {
			assert.Equal(t, "anet_auth_9", req.TransactionID)
			return &ports.ProcessorResponse{Outcome: ports.ProcessorOutcomeCaptured, ResponseCode: "1"}, nil
		})
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, err := d.engine.Void(context.Background(), p.ID, "merchant cancelled", nil, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoided, result.Status)
}

func TestPaymentEngine_Void_CapturedRejected(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)
	p.Status = domain.StatusCaptured

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)

	_, err := d.engine.Void(context.Background(), p.ID, "too late", nil, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "not_voidable", appErr.Code)
}

// ==================== Settle ====================

func TestPaymentEngine_Settle_Captured(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)
	p.Status = domain.StatusCaptured

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, err := d.engine.Settle(context.Background(), p.ID, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSettled, result.Status)
	assert.NotNil(t, result.SettledAt)
}

func TestPaymentEngine_Settle_PendingRejected(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)

	_, err := d.engine.Settle(context.Background(), p.ID, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "illegal_transition", appErr.Code)
}

// ==================== Update / Get ====================

func TestPaymentEngine_Update_MergesMetadata(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)
	p.Metadata = map[string]any{"a": "1"}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	desc := "updated description"
	result, err := d.engine.Update(context.Background(), p.ID, &desc, map[string]any{"b": "2"})
	require.NoError(t, err)
	assert.Equal(t, "updated description", *result.Description)
	assert.Equal(t, "1", result.Metadata["a"])
	assert.Equal(t, "2", result.Metadata["b"])
}

func TestPaymentEngine_Get_ByUUIDAndExternalID(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.repo.EXPECT().GetByID(gomock.Any(), p.ID).Return(p, nil)
	result, err := d.engine.Get(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)

	d.repo.EXPECT().GetByExternalID(gomock.Any(), p.ExternalID).Return(p, nil)
	result, err = d.engine.Get(context.Background(), p.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, p.ExternalID, result.ExternalID)
}

func TestPaymentEngine_Get_NotFound(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	d.repo.EXPECT().GetByExternalID(gomock.Any(), "pay_missing").Return(nil, nil)
	_, err := d.engine.Get(context.Background(), "pay_missing")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

// ==================== Commit-retry tie-break ====================

func TestPaymentEngine_Charge_CommitRetrySucceeds(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	// First transaction's commit fails; the retry transaction commits.
	first := d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{commitErr: errors.New("broken pipe")}, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).After(first)

	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().ChargeCard(gomock.Any(), gomock.Any()).Return(&ports.ProcessorResponse{
		TransactionID: "anet_123",
		Outcome:       ports.ProcessorOutcomeCaptured,
		ResponseCode:  "1",
	}, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	result, err := d.engine.Charge(context.Background(), p.ID, "corr_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCaptured, result.Status)
}

func TestPaymentEngine_Charge_CommitRetryExhaustedFlagsReconciliation(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	// Every transaction fails to commit; the engine falls back to the
	// critical reconciliation audit log and the reconcile queue.
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{commitErr: errors.New("broken pipe")}, nil).Times(4)
	// The best-effort critical audit gets its own (also failing) tx.
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{commitErr: errors.New("broken pipe")}, nil).AnyTimes()

	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)
	d.processor.EXPECT().ChargeCard(gomock.Any(), gomock.Any()).Return(&ports.ProcessorResponse{
		TransactionID: "anet_123",
		Outcome:       ports.ProcessorOutcomeCaptured,
		ResponseCode:  "1",
	}, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry ports.AuditEntry) error {
			if entry.Action == domain.AuditActionPaymentReconciliationNeeded {
				assert.Equal(t, domain.AuditLevelCritical, entry.Level)
				assert.Equal(t, "anet_123", entry.NewValues["processor_transaction_id"])
			}
			return nil
		}).AnyTimes()
	d.reconciler.EXPECT().EnqueueReconciliation(gomock.Any(), p.ID, gomock.Any()).Return(nil)

	_, err := d.engine.Charge(context.Background(), p.ID, "corr_1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindDatabase, appErr.Kind)
}

// ==================== Metadata bound ====================

func TestPaymentEngine_Update_MetadataTooLarge(t *testing.T) {
	d := setupEngine(t, "")
	defer d.ctrl.Finish()

	p := d.pendingPayment(t, 1000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), p.ID).Return(p, nil)

	big := make([]byte, domain.MaxMetadataBytes)
	for i := range big {
		big[i] = 'x'
	}

	_, err := d.engine.Update(context.Background(), p.ID, nil, map[string]any{"blob": string(big)})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}
