package service

import (
	"context"
	"fmt"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// auditRecorder implements ports.AuditRecorder over the transactional
// AuditRepository, so every record commits alongside the Payment/Webhook
// mutation it documents.
type auditRecorder struct {
	repo  ports.AuditRepository
	clock ports.Clock
	idgen ports.IDGen
}

// NewAuditRecorder creates a new AuditRecorder.
func NewAuditRecorder(repo ports.AuditRepository, clock ports.Clock, idgen ports.IDGen) ports.AuditRecorder {
	return &auditRecorder{repo: repo, clock: clock, idgen: idgen}
}

func (r *auditRecorder) Record(ctx context.Context, tx pgx.Tx, entry ports.AuditEntry) error {
	level := entry.Level
	if level == "" {
		level = domain.AuditLevelInfo
	}

	log := &domain.AuditLog{
		ID:            r.idgen.NewUUID(),
		Action:        entry.Action,
		Level:         level,
		Message:       entry.Message,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		PaymentID:     entry.PaymentID,
		UserID:        entry.UserID,
		APIKeyID:      entry.APIKeyID,
		IPAddress:     entry.IPAddress,
		UserAgent:     entry.UserAgent,
		RequestID:     entry.RequestID,
		CorrelationID: entry.CorrelationID,
		Metadata:      entry.Metadata,
		OldValues:     entry.OldValues,
		NewValues:     entry.NewValues,
		CreatedAt:     r.clock.Now(),
	}

	if err := r.repo.Create(ctx, tx, log); err != nil {
		return fmt.Errorf("record audit log: %w", err)
	}
	return nil
}
