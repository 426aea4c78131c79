package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// The asynq client/server connect lazily, so handlers can be exercised
// directly without a Redis instance.

func TestTaskRunner_HandleCacheInvalidate_Key(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockCache(ctrl)
	repo := mocks.NewMockPaymentRepository(ctrl)
	runner := NewTaskRunner("127.0.0.1:6379", cache, repo, zerolog.Nop())

	cache.EXPECT().Delete(gomock.Any(), "payment:id:abc").Return(nil)

	payload, err := json.Marshal(cacheInvalidatePayload{Prefix: "payment:id:", Key: "abc"})
	require.NoError(t, err)
	err = runner.handleCacheInvalidate(context.Background(), asynq.NewTask(TaskCacheInvalidate, payload))
	assert.NoError(t, err)
}

func TestTaskRunner_HandleCacheInvalidate_Pattern(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockCache(ctrl)
	repo := mocks.NewMockPaymentRepository(ctrl)
	runner := NewTaskRunner("127.0.0.1:6379", cache, repo, zerolog.Nop())

	cache.EXPECT().InvalidatePattern(gomock.Any(), "payment_list:").Return(nil)

	payload, err := json.Marshal(cacheInvalidatePayload{Prefix: "payment_list:"})
	require.NoError(t, err)
	err = runner.handleCacheInvalidate(context.Background(), asynq.NewTask(TaskCacheInvalidate, payload))
	assert.NoError(t, err)
}

func TestTaskRunner_HandleCacheInvalidate_MalformedPayloadSkipsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewTaskRunner("127.0.0.1:6379", mocks.NewMockCache(ctrl), mocks.NewMockPaymentRepository(ctrl), zerolog.Nop())

	err := runner.handleCacheInvalidate(context.Background(), asynq.NewTask(TaskCacheInvalidate, []byte("not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestTaskRunner_HandleWebhookDeliver_DrivesDispatcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockWebhookDispatcher(ctrl)
	runner := NewTaskRunner("127.0.0.1:6379", mocks.NewMockCache(ctrl), mocks.NewMockPaymentRepository(ctrl), zerolog.Nop())
	runner.SetWebhookDispatcher(dispatcher)

	dispatcher.EXPECT().DeliverDueNow(gomock.Any()).Return(3, nil)

	err := runner.handleWebhookDeliver(context.Background(), asynq.NewTask(TaskWebhookDeliver, nil))
	assert.NoError(t, err)
}

func TestTaskRunner_HandleWebhookDeliver_NoDispatcherIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewTaskRunner("127.0.0.1:6379", mocks.NewMockCache(ctrl), mocks.NewMockPaymentRepository(ctrl), zerolog.Nop())

	err := runner.handleWebhookDeliver(context.Background(), asynq.NewTask(TaskWebhookDeliver, nil))
	assert.NoError(t, err)
}

func TestTaskRunner_HandlePaymentReconcile_LogsWithoutMutating(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPaymentRepository(ctrl)
	runner := NewTaskRunner("127.0.0.1:6379", mocks.NewMockCache(ctrl), repo, zerolog.Nop())

	paymentID := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), paymentID).Return(&domain.Payment{
		ID:     paymentID,
		Status: domain.StatusCaptured,
	}, nil)
	// No Update expectation: reconciliation never mutates Payment.

	payload, err := json.Marshal(paymentReconcilePayload{PaymentID: paymentID, Reason: "commit retries exhausted"})
	require.NoError(t, err)
	err = runner.handlePaymentReconcile(context.Background(), asynq.NewTask(TaskPaymentReconcile, payload))
	assert.NoError(t, err)
}
