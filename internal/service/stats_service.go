package service

import (
	"context"
	"fmt"
	"time"

	"pulse-shop/internal/model"
	"pulse-shop/internal/repository"

	"github.com/rs/zerolog"
)

// orderWindow is the look-back period for the recent order count.
const orderWindow = 24 * time.Hour

type statsService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, logger zerolog.Logger) StatsService {
	return &statsService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "stats").Logger(),
	}
}

func (s *statsService) Stats(ctx context.Context) (*model.StoreStats, error) {
	products, stock, err := s.productRepo.Inventory(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read inventory totals")
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	orders, err := s.orderRepo.CountSince(ctx, s.now().Add(-orderWindow))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count recent orders")
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	return &model.StoreStats{
		ProductCount: products,
		StockCount:   stock,
		OrderCount:   orders,
	}, nil
}
