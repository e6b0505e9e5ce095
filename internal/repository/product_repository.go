package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"pulse-shop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// seedLockKey serialises catalog seeding across concurrently starting instances.
const seedLockKey = 7_310_001

const productColumns = `id, name, description, price_cents, image_url, stock, category, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves products newest first. A limit of 0 returns every product.
func (r *productRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	// LIMIT NULL means no limit in PostgreSQL.
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}

	rows, err := r.pool.Query(ctx, query, limitArg, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a product and returns its ID.
func (r *productRepository) Create(ctx context.Context, f model.ProductFields) (int64, error) {
	query := `
		INSERT INTO products (name, description, price_cents, image_url, stock, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, f.Name, f.Description, f.PriceCents, f.ImageURL, f.Stock, f.Category).Scan(&id)
	if err != nil {
		r.logger.Error().Err(err).Str("name", f.Name).Msg("failed to create product")
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Int64("product_id", id).Msg("product created successfully")

	return id, nil
}

// Update applies the non-nil fields of upd.
func (r *productRepository) Update(ctx context.Context, id int64, upd model.ProductUpdate) (bool, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.PriceCents != nil {
		add("price_cents", *upd.PriceCents)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Stock != nil {
		add("stock", *upd.Stock)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}

	if len(sets) == 0 {
		return false, model.ErrNoUpdatesProvided
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d AND deleted_at IS NULL",
		strings.Join(sets, ", "), len(args),
	)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Delete soft-deletes a product so that order history keeps its reference.
func (r *productRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE products
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Inventory returns the number of live products and their summed stock.
func (r *productRepository) Inventory(ctx context.Context) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(stock), 0)
		FROM products
		WHERE deleted_at IS NULL
	`

	var products, stock int64
	if err := r.pool.QueryRow(ctx, query).Scan(&products, &stock); err != nil {
		r.logger.Error().Err(err).Msg("failed to query inventory")
		return 0, 0, fmt.Errorf("failed to query inventory: %w", err)
	}

	return products, stock, nil
}

// SeedIfEmpty bulk inserts products only when the table has never held a row.
func (r *productRepository) SeedIfEmpty(ctx context.Context, products []model.ProductFields) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", seedLockKey); err != nil {
		return 0, fmt.Errorf("failed to acquire seed lock: %w", err)
	}

	var existing int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		r.logger.Debug().Int64("existing", existing).Msg("products table not empty, skipping seed")
		return 0, nil
	}

	inserted, err := tx.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"name", "description", "price_cents", "image_url", "stock", "category"},
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			p := products[i]
			return []any{p.Name, p.Description, p.PriceCents, p.ImageURL, p.Stock, p.Category}, nil
		}),
	)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(products)).Msg("failed to copy seed products")
		return 0, fmt.Errorf("failed to insert seed products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit seed products: %w", err)
	}

	r.logger.Info().Int64("count", inserted).Msg("catalog seeded")

	return inserted, nil
}

// LockForUpdate row-locks the given products in ascending ID order and returns the IDs that exist.
func (r *productRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	query := `
		SELECT id
		FROM products
		WHERE id = ANY($1) AND deleted_at IS NULL
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(sorted)).Msg("failed to lock products")
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}

	locked, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to collect locked product ids")
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}

	return locked, nil
}

// DecrementStock subtracts qty from the product's stock if at least qty is available.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id int64, qty int) (int64, bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1 AND deleted_at IS NULL
		RETURNING price_cents
	`

	var priceCents int64
	err := tx.QueryRow(ctx, query, qty, id).Scan(&priceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().
				Int64("product_id", id).
				Int("quantity", qty).
				Msg("insufficient stock")
			return 0, false, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to decrement stock")
		return 0, false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return priceCents, true, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.Stock, &p.Category, &p.CreatedAt)
	return p, err
}
