package service

import (
	"context"

	"pulse-shop/internal/model"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves products newest first. A limit of 0 returns every product.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product, or ErrProductNotFound.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create validates the request and inserts a product.
	Create(ctx context.Context, req *model.CreateProductRequest) (int64, error)

	// Update applies a partial update. Empty strings count as not supplied.
	Update(ctx context.Context, id int64, req *model.UpdateProductRequest) error

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id int64) error
}

// OrderService defines operations for checkout and order history.
type OrderService interface {
	// PlaceOrder reserves stock for every line item and persists the order atomically.
	// A non-empty idempotencyKey makes retries of the same request replay the first result.
	PlaceOrder(ctx context.Context, req *model.OrderRequest, idempotencyKey string) (*model.OrderResponse, error)

	// ListRecent retrieves the newest orders with their items.
	ListRecent(ctx context.Context) ([]model.OrderWithItems, error)
}

// AuthService issues and checks admin session tokens.
type AuthService interface {
	// Login verifies the credentials of an admin user and opens a session.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// Authorize resolves a bearer token to the admin behind it, or ErrUnauthorized.
	Authorize(ctx context.Context, token string) (*model.AdminIdentity, error)

	// EnsureAdmin creates the admin account unless one with that email already exists.
	EnsureAdmin(ctx context.Context, email, password string) error
}

// StatsService reports aggregate store counters.
type StatsService interface {
	Stats(ctx context.Context) (*model.StoreStats, error)
}
