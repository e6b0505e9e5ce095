package catalog

import (
	"context"
	"fmt"
	"sync"

	"pulse-shop/internal/model"

	"github.com/rs/zerolog"
)

// Seeder fills an empty product table from catalogue files.
type Seeder struct {
	loader Loader
	store  Store
	logger zerolog.Logger
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(loader Loader, store Store, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed loads all files concurrently and inserts their products, in file order,
// if the store has never held a product. Returns the number of inserted products.
func (s *Seeder) Seed(ctx context.Context, paths []string) (int64, error) {
	products, err := s.loadAll(ctx, paths)
	if err != nil {
		return 0, err
	}

	inserted, err := s.store.SeedIfEmpty(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalogue: %w", err)
	}

	if inserted == 0 {
		s.logger.Info().Msg("catalogue already present, nothing seeded")
	} else {
		s.logger.Info().Int64("products", inserted).Msg("catalogue seeded")
	}

	return inserted, nil
}

func (s *Seeder) loadAll(ctx context.Context, paths []string) ([]model.ProductFields, error) {
	type loadResult struct {
		index    int
		products []model.ProductFields
		err      error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			products, err := s.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, products: products, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in order
	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	var all []model.ProductFields
	for i, result := range results {
		if result.err != nil {
			s.logger.Error().Err(result.err).Str("file", paths[i]).Msg("failed to load catalogue file")
			return nil, fmt.Errorf("failed to load catalogue file %s: %w", paths[i], result.err)
		}
		all = append(all, result.products...)
	}

	return all, nil
}
