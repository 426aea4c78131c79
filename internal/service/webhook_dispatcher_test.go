package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/internal/core/ports/mocks"
	"easypay/internal/platform/clock"
	"easypay/internal/platform/idgen"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type dispatcherTestDeps struct {
	dispatcher ports.WebhookDispatcher
	repo       *mocks.MockWebhookRepository
	transactor *mocks.MockDBTransactor
	sig        *HMACSignatureService
	clock      *clock.Fixed
	ctrl       *gomock.Controller
}

func setupDispatcher(t *testing.T, maxRetries int) *dispatcherTestDeps {
	ctrl := gomock.NewController(t)
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := &dispatcherTestDeps{
		repo:       mocks.NewMockWebhookRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		sig:        NewHMACSignatureService(),
		clock:      clk,
		ctrl:       ctrl,
	}
	d.dispatcher = NewWebhookDispatcher(
		d.repo, d.transactor, d.sig, clk, idgen.New(),
		maxRetries, 5*time.Second, nil, zerolog.Nop(),
	)
	return d
}

const dispatcherSecret = "whsec_test"

func TestWebhookDispatcher_Enqueue_DeliversImmediately(t *testing.T) {
	d := setupDispatcher(t, 5)
	defer d.ctrl.Finish()

	var gotSignature atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature.Store(r.Header.Get("X-Webhook-Signature"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var persisted *domain.Webhook
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
			persisted = w
			return nil
		})

	paymentID := uuid.New()
	payload := map[string]any{"event_type": "payment.captured", "amount": "10.00"}
	w, err := d.dispatcher.Enqueue(context.Background(), domain.WebhookEventPaymentCaptured, &paymentID, payload, server.URL, dispatcherSecret)
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, domain.WebhookStatusDelivered, persisted.Status)
	assert.NotNil(t, persisted.DeliveredAt)
	require.NotNil(t, persisted.ResponseStatus)
	assert.Equal(t, http.StatusOK, *persisted.ResponseStatus)
	assert.Equal(t, 0, persisted.RetryCount)

	// The signature header the destination saw verifies against the
	// canonical payload bytes.
	sigHeader, _ := gotSignature.Load().(string)
	assert.True(t, d.sig.Verify(dispatcherSecret, w.Payload, sigHeader))
}

func TestWebhookDispatcher_Enqueue_SchedulesRetryOn503(t *testing.T) {
	d := setupDispatcher(t, 5)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var persisted *domain.Webhook
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
			persisted = w
			return nil
		})

	_, err := d.dispatcher.Enqueue(context.Background(), domain.WebhookEventPaymentCaptured, nil, map[string]any{"a": 1}, server.URL, dispatcherSecret)
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, domain.WebhookStatusRetrying, persisted.Status)
	assert.Equal(t, 1, persisted.RetryCount)
	require.NotNil(t, persisted.NextRetryAt)
	assert.Equal(t, d.clock.Now().Add(domain.WebhookRetryBase), *persisted.NextRetryAt)
}

func TestWebhookDispatcher_Enqueue_PermanentFailureOn404(t *testing.T) {
	d := setupDispatcher(t, 5)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var persisted *domain.Webhook
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
			persisted = w
			return nil
		})

	_, err := d.dispatcher.Enqueue(context.Background(), domain.WebhookEventPaymentFailed, nil, map[string]any{"a": 1}, server.URL, dispatcherSecret)
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, domain.WebhookStatusFailed, persisted.Status)
	assert.NotNil(t, persisted.FailedAt)
	assert.Nil(t, persisted.NextRetryAt)
	assert.Equal(t, 0, persisted.RetryCount)
}

func TestWebhookDispatcher_Enqueue_429IsRetryable(t *testing.T) {
	d := setupDispatcher(t, 5)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var persisted *domain.Webhook
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
			persisted = w
			return nil
		})

	_, err := d.dispatcher.Enqueue(context.Background(), domain.WebhookEventPaymentCaptured, nil, map[string]any{"a": 1}, server.URL, dispatcherSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.WebhookStatusRetrying, persisted.Status)
}

func TestWebhookDispatcher_Enqueue_NetworkErrorIsRetryable(t *testing.T) {
	d := setupDispatcher(t, 5)
	defer d.ctrl.Finish()

	var persisted *domain.Webhook
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil).Times(2)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
			persisted = w
			return nil
		})

	// Nothing listens on this port.
	_, err := d.dispatcher.Enqueue(context.Background(), domain.WebhookEventPaymentCaptured, nil, map[string]any{"a": 1}, "http://127.0.0.1:1", dispatcherSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.WebhookStatusRetrying, persisted.Status)
	assert.Equal(t, 1, persisted.RetryCount)
}

func TestWebhookDispatcher_ExponentialBackoffDoublesAndCaps(t *testing.T) {
	d := setupDispatcher(t, 20)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cases := []struct {
		retryCountBefore int
		wantBackoff      time.Duration
	}{
		{0, 60 * time.Second},
		{1, 120 * time.Second},
		{2, 240 * time.Second},
		{6, time.Hour},  // 60s * 2^6 = 64m, capped
		{10, time.Hour}, // far past the cap
	}

	for _, tc := range cases {
		var persisted *domain.Webhook
		d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
		d.repo.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.Webhook{{
			ID:         uuid.New(),
			EventID:    uuid.NewString(),
			EventType:  domain.WebhookEventPaymentCaptured,
			URL:        server.URL,
			Payload:    []byte(`{"a":1}`),
			Status:     domain.WebhookStatusRetrying,
			RetryCount: tc.retryCountBefore,
			MaxRetries: 20,
		}}, nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
				persisted = w
				return nil
			})

		_, err := d.dispatcher.DeliverDueNow(context.Background())
		require.NoError(t, err)

		require.NotNil(t, persisted, "retry_count %d", tc.retryCountBefore)
		require.NotNil(t, persisted.NextRetryAt)
		assert.Equal(t, d.clock.Now().Add(tc.wantBackoff), *persisted.NextRetryAt,
			"retry_count %d", tc.retryCountBefore)
	}
}

func TestWebhookDispatcher_DeliverDueNow_Delivers(t *testing.T) {
	d := setupDispatcher(t, 5)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), d.clock.Now(), gomock.Any()).Return([]domain.Webhook{{
		ID:         uuid.New(),
		EventID:    uuid.NewString(),
		EventType:  domain.WebhookEventPaymentCaptured,
		URL:        server.URL,
		Payload:    []byte(`{"a":1}`),
		Status:     domain.WebhookStatusRetrying,
		RetryCount: 2,
		MaxRetries: 5,
	}}, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
			assert.Equal(t, domain.WebhookStatusDelivered, w.Status)
			assert.Equal(t, 2, w.RetryCount)
			return nil
		})

	delivered, err := d.dispatcher.DeliverDueNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestWebhookDispatcher_ExpiresPastMaxRetries(t *testing.T) {
	d := setupDispatcher(t, 3)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.repo.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.Webhook{{
		ID:         uuid.New(),
		EventID:    uuid.NewString(),
		EventType:  domain.WebhookEventPaymentCaptured,
		URL:        server.URL,
		Payload:    []byte(`{"a":1}`),
		Status:     domain.WebhookStatusRetrying,
		RetryCount: 3,
		MaxRetries: 3,
	}}, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
			assert.Equal(t, domain.WebhookStatusExpired, w.Status)
			assert.Equal(t, 3, w.RetryCount)
			assert.NotNil(t, w.FailedAt)
			assert.Nil(t, w.NextRetryAt)
			return nil
		})

	delivered, err := d.dispatcher.DeliverDueNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
}
