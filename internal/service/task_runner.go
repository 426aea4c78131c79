package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"easypay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Job type names, per REDESIGN FLAGS' unification of the source's two
// overlapping background processors into one TaskRunner.
const (
	TaskWebhookDeliver   = "webhook.deliver"
	TaskCacheInvalidate  = "cache.invalidate"
	TaskPaymentReconcile = "payment.reconcile"
)

const (
	queueCritical = "critical"
	queueDefault  = "default"
)

// webhookDeliverTick is how often the scheduler re-asks WebhookDispatcher
// to drain whatever is currently due. Short enough that a due retry waits
// at most a few seconds past its next_retry_at.
const webhookDeliverTick = "@every 10s"

type cacheInvalidatePayload struct {
	Prefix string `json:"prefix"`
	Key    string `json:"key"`
}

type paymentReconcilePayload struct {
	PaymentID uuid.UUID `json:"payment_id"`
	Reason    string    `json:"reason"`
}

// TaskRunner is the generic delayed/recurring background processor, built
// on github.com/hibiken/asynq. It runs three job types: webhook.deliver
// (recurring, drives WebhookDispatcher.DeliverDueNow), cache.invalidate
// (one-off, the deferred retry from CachingStore's failure policy), and
// payment.reconcile (one-off, raised when PaymentEngine's in-process
// commit-retry is exhausted).
type TaskRunner struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux

	dispatcher ports.WebhookDispatcher
	cache      ports.Cache
	repo       ports.PaymentRepository

	log zerolog.Logger
}

// NewTaskRunner wires the asynq client, server, and scheduler against the
// same Redis instance backing Cache and IdempotencyCache. The
// WebhookDispatcher is attached afterwards via SetWebhookDispatcher: the
// cached webhook repository the dispatcher persists through routes its
// deferred invalidations back through this runner.
func NewTaskRunner(
	redisAddr string,
	cache ports.Cache,
	repo ports.PaymentRepository,
	log zerolog.Logger,
) *TaskRunner {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	r := &TaskRunner{
		client: asynq.NewClient(redisOpt),
		mux:    asynq.NewServeMux(),
		cache:  cache,
		repo:   repo,
		log:    log,
	}

	r.mux.HandleFunc(TaskWebhookDeliver, r.handleWebhookDeliver)
	r.mux.HandleFunc(TaskCacheInvalidate, r.handleCacheInvalidate)
	r.mux.HandleFunc(TaskPaymentReconcile, r.handlePaymentReconcile)

	r.server = asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			queueCritical: 6,
			queueDefault:  3,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("task_type", task.Type()).Msg("task processing failed")
		}),
	})

	r.scheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		LogLevel: asynq.WarnLevel,
	})

	return r
}

// Start registers the recurring webhook.deliver tick, starts the scheduler
// in the background, then runs the asynq server, blocking until Shutdown
// stops it. Callers run Start in its own goroutine.
func (r *TaskRunner) Start() error {
	tickTask := asynq.NewTask(TaskWebhookDeliver, nil)
	if _, err := r.scheduler.Register(webhookDeliverTick, tickTask, asynq.Queue(queueDefault), asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("register webhook.deliver schedule: %w", err)
	}

	go func() {
		if err := r.scheduler.Run(); err != nil {
			r.log.Error().Err(err).Msg("task scheduler stopped")
		}
	}()

	return r.server.Run(r.mux)
}

// Shutdown stops the scheduler and server and closes the enqueue client.
func (r *TaskRunner) Shutdown() {
	r.scheduler.Shutdown()
	r.server.Shutdown()
	_ = r.client.Close()
}

// EnqueueInvalidation implements ports.DeferredInvalidator.
func (r *TaskRunner) EnqueueInvalidation(ctx context.Context, prefix, key string) error {
	payload, err := json.Marshal(cacheInvalidatePayload{Prefix: prefix, Key: key})
	if err != nil {
		return fmt.Errorf("marshal cache invalidation payload: %w", err)
	}
	_, err = r.client.EnqueueContext(ctx, asynq.NewTask(TaskCacheInvalidate, payload),
		asynq.Queue(queueDefault), asynq.MaxRetry(5), asynq.Timeout(10*time.Second))
	return err
}

// EnqueueReconciliation implements ports.ReconciliationQueue.
func (r *TaskRunner) EnqueueReconciliation(ctx context.Context, paymentID uuid.UUID, reason string) error {
	payload, err := json.Marshal(paymentReconcilePayload{PaymentID: paymentID, Reason: reason})
	if err != nil {
		return fmt.Errorf("marshal reconciliation payload: %w", err)
	}
	_, err = r.client.EnqueueContext(ctx, asynq.NewTask(TaskPaymentReconcile, payload),
		asynq.Queue(queueCritical), asynq.MaxRetry(10), asynq.Timeout(30*time.Second))
	return err
}

// SetWebhookDispatcher completes the two-phase wiring between the runner
// and the dispatcher. Must be called before Start.
func (r *TaskRunner) SetWebhookDispatcher(d ports.WebhookDispatcher) {
	r.dispatcher = d
}

func (r *TaskRunner) handleWebhookDeliver(ctx context.Context, _ *asynq.Task) error {
	if r.dispatcher == nil {
		return nil
	}
	delivered, err := r.dispatcher.DeliverDueNow(ctx)
	if err != nil {
		return fmt.Errorf("deliver due webhooks: %w", err)
	}
	if delivered > 0 {
		r.log.Info().Int("delivered", delivered).Msg("webhook.deliver tick")
	}
	return nil
}

// handleCacheInvalidate retries a single key delete, or an entire prefix
// pattern delete when no key is present (InvalidateAll's deferred form).
func (r *TaskRunner) handleCacheInvalidate(ctx context.Context, t *asynq.Task) error {
	var payload cacheInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%w: unmarshal cache.invalidate payload: %v", asynq.SkipRetry, err)
	}

	if payload.Key == "" {
		if err := r.cache.InvalidatePattern(ctx, payload.Prefix); err != nil {
			return fmt.Errorf("deferred invalidate pattern %s: %w", payload.Prefix, err)
		}
		return nil
	}

	if err := r.cache.Delete(ctx, payload.Prefix+payload.Key); err != nil {
		return fmt.Errorf("deferred invalidate key %s%s: %w", payload.Prefix, payload.Key, err)
	}
	return nil
}

// handlePaymentReconcile surfaces a payment whose processor outcome and
// Store record may have diverged. It never mutates Payment (only
// PaymentEngine owns that); it logs at warning for an operator to act on,
// since resolution against the processor record is manual.
func (r *TaskRunner) handlePaymentReconcile(ctx context.Context, t *asynq.Task) error {
	var payload paymentReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%w: unmarshal payment.reconcile payload: %v", asynq.SkipRetry, err)
	}

	p, err := r.repo.GetByID(ctx, payload.PaymentID)
	if err != nil {
		return fmt.Errorf("load payment %s for reconciliation: %w", payload.PaymentID, err)
	}

	r.log.Warn().
		Str("payment_id", p.ID.String()).
		Str("status", string(p.Status)).
		Str("reason", payload.Reason).
		Msg("payment flagged for manual reconciliation against processor record")
	return nil
}
