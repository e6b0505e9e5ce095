package repository

import (
	"context"
	"time"

	"pulse-shop/internal/model"

	"github.com/jackc/pgx/v5"
)

// TxManager runs a function inside a database transaction.
type TxManager interface {
	// WithTx begins a transaction, passes it to fn and commits when fn returns nil.
	// Any error or panic from fn rolls the transaction back.
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ProductRepository defines the interface for product data access operations.
// Soft-deleted products are invisible to every read and write method.
type ProductRepository interface {
	// List retrieves products newest first. A limit of 0 returns every product.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create inserts a product and returns its ID.
	Create(ctx context.Context, fields model.ProductFields) (int64, error)

	// Update applies the non-nil fields of upd. Reports false when the product does not exist.
	Update(ctx context.Context, id int64, upd model.ProductUpdate) (bool, error)

	// Delete soft-deletes a product. Reports false when the product does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// Inventory returns the number of live products and their summed stock.
	Inventory(ctx context.Context) (products int64, stock int64, err error)

	// SeedIfEmpty bulk inserts products only when the table has never held a row.
	// Returns the number of inserted rows.
	SeedIfEmpty(ctx context.Context, products []model.ProductFields) (int64, error)

	// LockForUpdate row-locks the given products in ascending ID order within tx
	// and returns the IDs that exist.
	LockForUpdate(ctx context.Context, tx pgx.Tx, ids []int64) ([]int64, error)

	// DecrementStock subtracts qty from the product's stock if at least qty is available,
	// in a single statement. Returns the unit price at decrement time and whether it succeeded.
	DecrementStock(ctx context.Context, tx pgx.Tx, id int64, qty int) (int64, bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// CreateOrder inserts a new order within the provided transaction and fills in its ID and creation time.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// ListRecent retrieves the newest orders with their items.
	ListRecent(ctx context.Context, limit int) ([]model.OrderWithItems, error)

	// CountSince counts orders created at or after since.
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// UserRepository defines the interface for back-office user access.
type UserRepository interface {
	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateIfAbsent inserts the user unless the email is already taken.
	// Reports whether a row was created.
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
}

// SessionRepository defines the interface for admin session storage.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *model.AdminSession) error

	// FindIdentity resolves a token to the admin behind it if the session
	// is still valid at now. Returns nil when the token is unknown or expired.
	FindIdentity(ctx context.Context, token string, now time.Time) (*model.AdminIdentity, error)

	// DeleteExpired removes the user's sessions that expired at or before now.
	DeleteExpired(ctx context.Context, userID int64, now time.Time) (int64, error)
}
