package service

import (
	"context"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

const (
	defaultChartDays   = 7
	maxChartDays       = 365
	defaultTopProducts = 5
	alertLimit         = 10
	distributionWindow = 30 * 24 * time.Hour
)

type dashboardService struct {
	reportRepo        repository.ReportRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(reportRepo repository.ReportRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		reportRepo:        reportRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.reportRepo.DashboardStats(ctx, s.lowStockThreshold)
}

func (s *dashboardService) RevenueChart(ctx context.Context, days int) ([]domain.RevenuePoint, error) {
	if days < 1 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}
	return s.reportRepo.RevenueChart(ctx, days)
}

func (s *dashboardService) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	if limit < 1 {
		limit = defaultTopProducts
	}
	return s.reportRepo.TopProducts(ctx, limit)
}

func (s *dashboardService) Alerts(ctx context.Context) (*domain.Alerts, error) {
	overdue, err := s.reportRepo.OverdueAlerts(ctx, alertLimit)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.reportRepo.LowStockAlerts(ctx, s.lowStockThreshold, alertLimit)
	if err != nil {
		return nil, err
	}
	return &domain.Alerts{Overdue: overdue, LowStock: lowStock}, nil
}

// StatusDistribution counts orders created in the last 30 days by status.
func (s *dashboardService) StatusDistribution(ctx context.Context) ([]domain.StatusCount, error) {
	return s.reportRepo.StatusDistribution(ctx, s.now().Add(-distributionWindow))
}
