package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item in the catalogue together with its available stock.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Stock       int       `json:"stock" db:"stock"`
	Category    string    `json:"category" db:"category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ProductFields holds the values required to create a product.
type ProductFields struct {
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Stock       int
	Category    string
}

// ProductUpdate holds a partial product update. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	PriceCents  *int64
	ImageURL    *string
	Stock       *int
	Category    *string
}

// IsEmpty reports whether the update carries no field at all.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.PriceCents == nil &&
		u.ImageURL == nil && u.Stock == nil && u.Category == nil
}

// CreateProductRequest is the admin payload for creating a product.
// Price is expressed in major currency units and converted to cents.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       *int             `json:"stock" validate:"required,gte=0,lte=2147483647"`
	ImageURL    string           `json:"image_url" validate:"required"`
	Category    string           `json:"category" validate:"required"`
}

// UpdateProductRequest is the admin payload for a partial product update.
// Empty strings count as "not supplied".
type UpdateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0,lte=2147483647"`
	ImageURL    string           `json:"image_url"`
	Category    string           `json:"category"`
}

// CreateProductResponse is returned after a product has been created.
type CreateProductResponse struct {
	ID int64 `json:"id"`
}

// StatusResponse is a minimal acknowledgement body.
type StatusResponse struct {
	Status string `json:"status"`
}
