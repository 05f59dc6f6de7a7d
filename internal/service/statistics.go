package service

import (
	"context"
	"log/slog"

	"github.com/avollmer/stockdesk/internal/gateway"
	"github.com/avollmer/stockdesk/internal/model"
	"github.com/shopspring/decimal"
)

// StatisticsService reads the server-derived aggregate report. The report is
// consumed by detail views and never mutated.
type StatisticsService struct {
	gw     *gateway.Client
	logger *slog.Logger
}

// NewStatisticsService creates a statistics service on top of the gateway.
func NewStatisticsService(gw *gateway.Client, logger *slog.Logger) *StatisticsService {
	return &StatisticsService{gw: gw, logger: logger.With("component", "service/statistics")}
}

// Fetch retrieves the full statistics report.
func (s *StatisticsService) Fetch(ctx context.Context) (*model.Statistics, error) {
	var stats model.Statistics
	if err := s.gw.Get(ctx, "/operations/statistics", &stats); err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch statistics", "error", err)
		return nil, err
	}
	return &stats, nil
}

// ArticleStatistics retrieves the per-article aggregates.
func (s *StatisticsService) ArticleStatistics(ctx context.Context) (*model.ArticleStatistics, error) {
	stats, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return &stats.ArticleStatistics, nil
}

// OrderStatistics retrieves the per-order aggregates.
func (s *StatisticsService) OrderStatistics(ctx context.Context) (*model.OrderStatistics, error) {
	stats, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return &stats.OrderStatistics, nil
}

// CustomerStatistics retrieves the per-customer aggregates.
func (s *StatisticsService) CustomerStatistics(ctx context.Context) (*model.CustomerStatistics, error) {
	stats, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return &stats.CustomerStatistics, nil
}

// TotalPrices retrieves the order-id to order-total mapping.
func (s *StatisticsService) TotalPrices(ctx context.Context) (map[int]decimal.Decimal, error) {
	stats, err := s.OrderStatistics(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TotalPrices, nil
}
