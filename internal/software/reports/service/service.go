package service

import (
	"context"

	"ride-booking/internal/general/logger"
	"ride-booking/internal/ports"
)

// reportService serves the read-only reporting queries.
type reportService struct {
	logger *logger.Logger
	repo   ports.ReportRepository
}

// NewReportService creates a new ReportService over the given repository.
func NewReportService(logger *logger.Logger, repo ports.ReportRepository) ports.ReportService {
	return &reportService{logger: logger, repo: repo}
}

func (service *reportService) RideHistory(ctx context.Context) ([]ports.RideHistoryRow, error) {
	return service.repo.RideHistory(ctx)
}

func (service *reportService) RiderSpending(ctx context.Context) ([]ports.RiderSpendingRow, error) {
	return service.repo.RiderSpending(ctx)
}

func (service *reportService) DriverEarnings(ctx context.Context) ([]ports.DriverEarningsRow, error) {
	return service.repo.DriverEarnings(ctx)
}

func (service *reportService) PaymentAudit(ctx context.Context) ([]ports.PaymentAuditRow, error) {
	return service.repo.PaymentAudit(ctx)
}
