package model

import "time"

// OrderStatusPlaced is the only status an order is created with.
const OrderStatusPlaced = "placed"

// Order represents a placed customer order.
type Order struct {
	ID           int64     `json:"id" db:"id"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	Email        string    `json:"email" db:"email"`
	TotalCents   int64     `json:"total_cents" db:"total_cents"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// OrderItem represents a line item of an order with the unit price captured at order time.
type OrderItem struct {
	ID         int64 `json:"-" db:"id"`
	OrderID    int64 `json:"order_id" db:"order_id"`
	ProductID  int64 `json:"product_id" db:"product_id"`
	Quantity   int   `json:"quantity" db:"quantity"`
	PriceCents int64 `json:"price_cents" db:"price_cents"`
}

// OrderItemDetail is an order item joined with the product name for admin listings.
type OrderItemDetail struct {
	OrderID    int64  `json:"order_id"`
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// OrderWithItems is an order together with its line items.
type OrderWithItems struct {
	Order
	Items []OrderItemDetail `json:"items"`
}

// OrderRequest represents the checkout payload.
type OrderRequest struct {
	Name  string             `json:"name" validate:"required"`
	Email string             `json:"email" validate:"required"`
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest represents a single line item in a checkout payload.
type OrderItemRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// OrderResponse is returned after an order has been placed.
type OrderResponse struct {
	OrderID    int64 `json:"order_id"`
	TotalCents int64 `json:"total_cents"`
}

// StoreStats holds aggregate counters over the catalogue and recent orders.
type StoreStats struct {
	ProductCount int64 `json:"product_count"`
	StockCount   int64 `json:"stock_count"`
	OrderCount   int64 `json:"order_count"`
}
