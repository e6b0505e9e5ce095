package handler

import (
	"errors"
	"net/http"
	"strings"

	"pulse-shop/internal/model"
	"pulse-shop/internal/service"

	"github.com/rs/zerolog"
)

// IdempotencyKeyHeader lets a client retry checkout without placing a second order.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 255

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		writeError(w, r, model.NewInvalidPayload("Idempotency-Key: must be at most 255 characters"), h.logger)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), &req, key)
	if err != nil {
		status := statusFor(err)
		// Unknown products in a cart are a bad request, not a missing resource.
		if errors.Is(err, model.ErrProductNotFound) {
			status = http.StatusBadRequest
		}
		writeErrorStatus(w, r, status, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListRecent handles GET /api/admin/orders requests.
func (h *OrderHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListRecent(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
