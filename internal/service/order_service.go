package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"pulse-shop/internal/idempotency"
	"pulse-shop/internal/metrics"
	"pulse-shop/internal/model"
	"pulse-shop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// recentOrdersLimit bounds the admin order listing.
const recentOrdersLimit = 50

var (
	// ErrOrderTotalTooLarge rejects carts whose total does not fit in int64 cents.
	ErrOrderTotalTooLarge = model.NewInvalidPayload("order total is too large")

	// ErrIdempotencyKeyReused rejects a key replayed with a different cart.
	ErrIdempotencyKeyReused = model.NewInvalidPayload("Idempotency-Key was already used for a different order")
)

// storedOrder is the idempotent result kept under a key, bound to the request that produced it.
type storedOrder struct {
	Fingerprint string              `json:"fingerprint"`
	Response    model.OrderResponse `json:"response"`
}

// orderService implements OrderService.
type orderService struct {
	txm            repository.TxManager
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	idem           idempotency.Store
	idempotencyTTL time.Duration
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	txm repository.TxManager,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	idem idempotency.Store,
	idempotencyTTL time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		txm:            txm,
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		idem:           idem,
		idempotencyTTL: idempotencyTTL,
		metrics:        m,
		logger:         logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the cart and places the order in a single transaction.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest, idempotencyKey string) (*model.OrderResponse, error) {
	if req == nil {
		s.metrics.OrderFailed(metrics.ReasonInvalidPayload)
		return nil, model.ErrInvalidPayload
	}
	if err := validateStruct(req); err != nil {
		s.logger.Debug().Err(err).Msg("rejected order payload")
		s.metrics.OrderFailed(metrics.ReasonInvalidPayload)
		return nil, err
	}

	if idempotencyKey == "" {
		return s.placeOrder(ctx, req)
	}

	return s.placeOrderOnce(ctx, req, idempotencyKey)
}

// placeOrderOnce wraps placeOrder with an idempotency key reservation.
// Failed attempts release the key so that the client may retry.
func (s *orderService) placeOrderOnce(ctx context.Context, req *model.OrderRequest, key string) (*model.OrderResponse, error) {
	storeKey := "orders:" + key
	log := s.logger.With().Str("idempotency_key", key).Logger()

	fingerprint, err := requestFingerprint(req)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	cached, err := s.idem.Reserve(ctx, storeKey, s.idempotencyTTL)
	if errors.Is(err, idempotency.ErrInProgress) {
		log.Warn().Msg("duplicate order request while the first is in progress")
		s.metrics.OrderFailed(metrics.ReasonDuplicate)
		return nil, model.ErrDuplicateRequest
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to reserve idempotency key")
		s.metrics.OrderFailed(metrics.ReasonInternal)
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if cached != nil {
		var stored storedOrder
		if err := json.Unmarshal(cached, &stored); err != nil {
			log.Error().Err(err).Msg("failed to decode stored order result")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if stored.Fingerprint != fingerprint {
			log.Warn().Int64("order_id", stored.Response.OrderID).Msg("idempotency key reused with a different order")
			s.metrics.OrderFailed(metrics.ReasonInvalidPayload)
			return nil, ErrIdempotencyKeyReused
		}
		log.Info().Int64("order_id", stored.Response.OrderID).Msg("replaying stored order result")
		resp := stored.Response
		return &resp, nil
	}

	resp, err := s.placeOrder(ctx, req)
	if err != nil {
		if relErr := s.idem.Release(context.WithoutCancel(ctx), storeKey); relErr != nil {
			log.Error().Err(relErr).Msg("failed to release idempotency key")
		}
		return nil, err
	}

	data, err := json.Marshal(storedOrder{Fingerprint: fingerprint, Response: *resp})
	if err == nil {
		err = s.idem.Complete(context.WithoutCancel(ctx), storeKey, data, s.idempotencyTTL)
	}
	if err != nil {
		// The order is committed; a retry will see the key as in progress until it expires.
		log.Error().Err(err).Int64("order_id", resp.OrderID).Msg("failed to store order result")
	}

	return resp, nil
}

// placeOrder runs the stock reservation and order insert as one unit of work.
func (s *orderService) placeOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	var resp *model.OrderResponse

	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		ids := make([]int64, len(req.Items))
		for i, item := range req.Items {
			ids[i] = item.ProductID
		}

		// Rows are locked in ascending ID order before any stock is touched.
		locked, err := s.productRepo.LockForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}
		existing := make(map[int64]struct{}, len(locked))
		for _, id := range locked {
			existing[id] = struct{}{}
		}

		var total int64
		items := make([]model.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			if _, ok := existing[item.ProductID]; !ok {
				s.logger.Debug().Int64("product_id", item.ProductID).Msg("order references unknown product")
				return model.ErrProductNotFound
			}

			price, ok, err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				s.logger.Debug().
					Int64("product_id", item.ProductID).
					Int("quantity", item.Quantity).
					Msg("insufficient stock for order item")
				return model.ErrInsufficientStock
			}

			if price > 0 && int64(item.Quantity) > (math.MaxInt64-total)/price {
				s.logger.Warn().
					Int64("product_id", item.ProductID).
					Int64("price_cents", price).
					Int("quantity", item.Quantity).
					Msg("order total exceeds the representable range")
				return ErrOrderTotalTooLarge
			}

			total += price * int64(item.Quantity)
			items = append(items, model.OrderItem{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				PriceCents: price,
			})
		}

		order := &model.Order{
			CustomerName: req.Name,
			Email:        req.Email,
			TotalCents:   total,
			Status:       model.OrderStatusPlaced,
		}
		if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return err
		}

		resp = &model.OrderResponse{OrderID: order.ID, TotalCents: total}
		return nil
	})
	if err != nil {
		return nil, s.orderFailed(err)
	}

	s.metrics.OrderPlaced()
	s.logger.Info().
		Int64("order_id", resp.OrderID).
		Int64("total_cents", resp.TotalCents).
		Int("item_count", len(req.Items)).
		Msg("order placed successfully")

	return resp, nil
}

// orderFailed records the failure and returns the error to hand back to the caller.
func (s *orderService) orderFailed(err error) error {
	switch {
	case errors.Is(err, model.ErrProductNotFound):
		s.metrics.OrderFailed(metrics.ReasonProductNotFound)
		return err
	case errors.Is(err, model.ErrInsufficientStock):
		s.metrics.OrderFailed(metrics.ReasonInsufficientStock)
		return err
	case errors.Is(err, ErrOrderTotalTooLarge):
		s.metrics.OrderFailed(metrics.ReasonInvalidPayload)
		return err
	default:
		s.metrics.OrderFailed(metrics.ReasonInternal)
		s.logger.Error().Err(err).Msg("failed to place order")
		return fmt.Errorf("failed to place order: %w", err)
	}
}

// ListRecent retrieves the newest orders with their items.
func (s *orderService) ListRecent(ctx context.Context) ([]model.OrderWithItems, error) {
	orders, err := s.orderRepo.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// requestFingerprint hashes the canonical JSON form of the order request.
func requestFingerprint(req *model.OrderRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
