package service

import (
	"context"
	"fmt"

	"pulse-shop/internal/model"
	"pulse-shop/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products newest first.
func (s *productService) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit < 0 || offset < 0 {
		return nil, model.NewInvalidPayload("limit and offset must not be negative")
	}

	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates the request and inserts a product.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (int64, error) {
	if req == nil {
		return 0, model.NewInvalidPayload("request body is required")
	}
	if err := validateStruct(req); err != nil {
		return 0, err
	}

	cents, err := toCents(*req.Price)
	if err != nil {
		return 0, err
	}

	id, err := s.productRepo.Create(ctx, model.ProductFields{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  cents,
		ImageURL:    req.ImageURL,
		Stock:       *req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create product")
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Str("name", req.Name).Msg("product created")

	return id, nil
}

// Update applies a partial update.
func (s *productService) Update(ctx context.Context, id int64, req *model.UpdateProductRequest) error {
	if req == nil {
		return model.ErrNoUpdatesProvided
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	upd := model.ProductUpdate{
		Name:        nonEmpty(req.Name),
		Description: nonEmpty(req.Description),
		ImageURL:    nonEmpty(req.ImageURL),
		Category:    nonEmpty(req.Category),
		Stock:       req.Stock,
	}
	if req.Price != nil {
		cents, err := toCents(*req.Price)
		if err != nil {
			return err
		}
		upd.PriceCents = &cents
	}

	if upd.IsEmpty() {
		return model.ErrNoUpdatesProvided
	}

	found, err := s.productRepo.Update(ctx, id, upd)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")

	return nil
}

// Delete soft-deletes a product. Past orders keep referencing it.
func (s *productService) Delete(ctx context.Context, id int64) error {
	found, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")

	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
