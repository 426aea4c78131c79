package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeTx implements just enough of pgx.Tx for the in-memory repos: it
// carries the row locks taken during the transaction and releases them on
// Commit or Rollback, mirroring Postgres's FOR UPDATE semantics closely
// enough to exercise the engine's serialization of concurrent mutations.
type fakeTx struct {
	pgx.Tx

	mu      sync.Mutex
	unlocks []func()
	done    bool
}

func (tx *fakeTx) addUnlock(f func()) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		f()
		return
	}
	tx.unlocks = append(tx.unlocks, f)
}

func (tx *fakeTx) release() {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return
	}
	tx.done = true
	for _, f := range tx.unlocks {
		f()
	}
	tx.unlocks = nil
}

func (tx *fakeTx) Commit(_ context.Context) error   { tx.release(); return nil }
func (tx *fakeTx) Rollback(_ context.Context) error { tx.release(); return nil }

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor { return &inMemoryTransactor{} }

func (t *inMemoryTransactor) Begin(_ context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]domain.Payment
	byExt    map[string]uuid.UUID

	lockMu   sync.Mutex
	rowLocks map[uuid.UUID]*sync.Mutex
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{
		payments: make(map[uuid.UUID]domain.Payment),
		byExt:    make(map[string]uuid.UUID),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *inMemoryPaymentRepo) rowLock(id uuid.UUID) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	l, ok := r.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		r.rowLocks[id] = l
	}
	return l
}

func (r *inMemoryPaymentRepo) Create(_ context.Context, _ pgx.Tx, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byExt[p.ExternalID]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "payments_external_id_key"}
	}
	r.payments[p.ID] = *p
	r.byExt[p.ExternalID] = p.ID
	return nil
}

func (r *inMemoryPaymentRepo) Update(_ context.Context, _ pgx.Tx, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.payments[p.ID] = *p
	return nil
}

func (r *inMemoryPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (r *inMemoryPaymentRepo) GetByExternalID(_ context.Context, externalID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byExt[externalID]
	if !ok {
		return nil, nil
	}
	p := r.payments[id]
	return &p, nil
}

func (r *inMemoryPaymentRepo) GetByProcessorTransactionID(_ context.Context, processorTxID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.ProcessorTransactionID != nil && *p.ProcessorTransactionID == processorTxID {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

// GetByIDForUpdate takes the payment's row lock and holds it until the
// enclosing fakeTx commits or rolls back, so concurrent mutations of the
// same payment serialize exactly as they would under Postgres FOR UPDATE.
func (r *inMemoryPaymentRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Payment, error) {
	lock := r.rowLock(id)
	lock.Lock()

	ftx, ok := tx.(*fakeTx)
	if !ok {
		lock.Unlock()
		return nil, pgx.ErrTxClosed
	}
	ftx.addUnlock(lock.Unlock)

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, found := r.payments[id]
	if !found {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (r *inMemoryPaymentRepo) List(_ context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Payment
	for _, p := range r.payments {
		if params.CustomerID != nil && (p.CustomerID == nil || *p.CustomerID != *params.CustomerID) {
			continue
		}
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	page, pageSize := params.Page, params.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *inMemoryPaymentRepo) GetStats(_ context.Context, periodStart *time.Time) (*ports.PaymentStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &ports.PaymentStats{}
	for _, p := range r.payments {
		if periodStart != nil && p.CreatedAt.Before(*periodStart) {
			continue
		}
		stats.TotalPayments++
		switch p.Status {
		case domain.StatusCaptured, domain.StatusSettled, domain.StatusPartiallyRefunded:
			stats.Captured++
			stats.TotalCaptured += p.Amount
		case domain.StatusDeclined:
			stats.Declined++
		case domain.StatusFailed:
			stats.Failed++
		case domain.StatusRefunded:
			stats.Refunded++
			stats.TotalCaptured += p.Amount
		}
		stats.TotalRefunded += p.RefundedAmount
	}
	return stats, nil
}

// --- In-Memory Webhook Repo ---

type inMemoryWebhookRepo struct {
	mu       sync.RWMutex
	webhooks map[uuid.UUID]domain.Webhook
}

func newInMemoryWebhookRepo() *inMemoryWebhookRepo {
	return &inMemoryWebhookRepo{webhooks: make(map[uuid.UUID]domain.Webhook)}
}

func (r *inMemoryWebhookRepo) Create(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.webhooks {
		if existing.EventID == w.EventID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "webhooks_event_id_key"}
		}
	}
	r.webhooks[w.ID] = *w
	return nil
}

func (r *inMemoryWebhookRepo) Update(_ context.Context, _ pgx.Tx, w *domain.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[w.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.webhooks[w.ID] = *w
	return nil
}

func (r *inMemoryWebhookRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.webhooks[id]
	if !ok {
		return nil, nil
	}
	copied := w
	return &copied, nil
}

func (r *inMemoryWebhookRepo) GetByEventID(_ context.Context, eventID string) (*domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.webhooks {
		if w.EventID == eventID {
			copied := w
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWebhookRepo) ClaimDue(_ context.Context, _ pgx.Tx, now time.Time, limit int) ([]domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []domain.Webhook
	for _, w := range r.webhooks {
		if w.Status != domain.WebhookStatusPending && w.Status != domain.WebhookStatusRetrying {
			continue
		}
		if w.NextRetryAt != nil && w.NextRetryAt.After(now) {
			continue
		}
		due = append(due, w)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *inMemoryWebhookRepo) byPayment(paymentID uuid.UUID) []domain.Webhook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Webhook
	for _, w := range r.webhooks {
		if w.PaymentID != nil && *w.PaymentID == paymentID {
			out = append(out, w)
		}
	}
	return out
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu   sync.RWMutex
	logs []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo { return &inMemoryAuditRepo{} }

func (r *inMemoryAuditRepo) Create(_ context.Context, _ pgx.Tx, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *a)
	return nil
}

func (r *inMemoryAuditRepo) ListByPayment(_ context.Context, paymentID uuid.UUID) ([]domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.AuditLog
	for _, a := range r.logs {
		if a.PaymentID != nil && *a.PaymentID == paymentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *inMemoryAuditRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []domain.AuditLog
	var deleted int64
	for _, a := range r.logs {
		if a.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.logs = kept
	return deleted, nil
}
