package repository

import (
	"context"
	"testing"
	"time"

	"pulse-shop/internal/database"
	"pulse-shop/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the migrated schema and returns a connection pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr, zerolog.Nop()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	})

	return pool
}

// seedProduct inserts a product directly and returns its ID.
func seedProduct(t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO products (name, description, price_cents, image_url, stock, category)
		VALUES ($1, 'test product', $2, 'https://example.com/p.png', $3, 'Test')
		RETURNING id
	`, name, priceCents, stock).Scan(&id)
	require.NoError(t, err)

	return id
}

// seedUser inserts a user with the given role and returns it.
func seedUser(t *testing.T, pool *pgxpool.Pool, email, role string) *model.User {
	t.Helper()

	u := &model.User{Email: email, PasswordHash: "$2a$10$hash", Role: role}
	created, err := NewUserRepository(pool, zerolog.Nop()).CreateIfAbsent(context.Background(), u)
	require.NoError(t, err)
	require.True(t, created)

	return u
}

func stockOf(t *testing.T, pool *pgxpool.Pool, id int64) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(), "SELECT stock FROM products WHERE id = $1", id).Scan(&stock)
	require.NoError(t, err)

	return stock
}
