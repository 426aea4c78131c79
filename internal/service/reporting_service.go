package service

import (
	"context"
	"time"

	"easypay/internal/core/domain"
	"easypay/internal/core/ports"
	"easypay/pkg/apperror"
)

// reportingService implements ports.ReportingService: the read side of
// the payments surface, kept apart from PaymentEngine so list/stats
// queries never contend with lifecycle mutations.
type reportingService struct {
	paymentRepo ports.PaymentRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(paymentRepo ports.PaymentRepository) ports.ReportingService {
	return &reportingService{paymentRepo: paymentRepo}
}

// ListPayments returns a paginated, filtered list of payments.
func (s *reportingService) ListPayments(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabase(err)
	}
	return payments, total, nil
}

// GetStats returns aggregated payment figures, optionally bounded by
// periodStart.
func (s *reportingService) GetStats(ctx context.Context, periodStart *time.Time) (*ports.PaymentStats, error) {
	stats, err := s.paymentRepo.GetStats(ctx, periodStart)
	if err != nil {
		return nil, apperror.ErrDatabase(err)
	}
	return stats, nil
}
