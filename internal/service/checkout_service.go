package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/kvstore"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when checkout is attempted with no line items.
var ErrEmptyCart = fmt.Errorf("cart is empty")

// ErrDuplicateCheckout is returned when an Idempotency-Key has already been
// used for a checkout.
var ErrDuplicateCheckout = fmt.Errorf("duplicate checkout request")

const checkoutIdempotencyTTL = 24 * time.Hour

// CheckoutService turns a cart into an order: it captures the line items as
// order rows, runs the payment provider and clears the cart on success. The
// provider is mocked with a configurable success rate.
type CheckoutService struct {
	store       *store.Store
	carts       *cart.Service
	publisher   *broker.EventPublisher
	kv          *kvstore.Client
	logger      *zap.Logger
	successRate float64
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store *store.Store, carts *cart.Service, publisher *broker.EventPublisher, kv *kvstore.Client, successRate float64) *CheckoutService {
	return &CheckoutService{
		store:       store,
		carts:       carts,
		publisher:   publisher,
		kv:          kv,
		logger:      util.GetLogger(),
		successRate: successRate,
	}
}

// CheckoutResult reports the created order and payment outcome
type CheckoutResult struct {
	OrderID   int64   `json:"order_id"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
	TxID      string  `json:"tx_id,omitempty"`
}

// Checkout creates an order from the owner's current cart. The cart is
// cleared only when payment succeeds; on payment failure the order is marked
// FAILED and the cart is left intact. A non-empty idempotencyKey guards
// against duplicate submissions of the same checkout.
func (s *CheckoutService) Checkout(ctx context.Context, ownerID, userID, idempotencyKey string) (*CheckoutResult, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	if idempotencyKey != "" {
		exists, err := s.kv.CheckIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			s.logger.Warn("Idempotency check failed, proceeding", zap.Error(err))
		} else if exists {
			util.CheckoutsTotal.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicateCheckout
		}
	}

	state := s.carts.Get(ctx, ownerID)
	if state.ItemCount == 0 {
		util.CheckoutsTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		OwnerID:   ownerID,
		Total:     state.Total,
		ItemCount: state.ItemCount,
		Status:    models.OrderStatusCreated,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.CheckoutsTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, li := range state.Items {
		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: li.ID,
			Name:      li.Name,
			Size:      li.Size,
			Color:     li.Color,
			Quantity:  li.Quantity,
			UnitPrice: li.Price,
		}
		if err := s.store.CreateOrderItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if idempotencyKey != "" {
		if err := s.kv.SetIdempotencyKey(ctx, idempotencyKey, order.ID, checkoutIdempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("owner_id", ownerID),
		zap.Float64("total", order.Total))

	txID, paid := s.processPayment(order)

	if !paid {
		if err := s.store.UpdateOrderStatus(ctx, order.ID, models.OrderStatusFailed); err != nil {
			s.logger.Error("Failed to mark order failed", zap.Error(err))
		}
		util.CheckoutsTotal.WithLabelValues("payment_failed").Inc()
		return &CheckoutResult{
			OrderID:   order.ID,
			Status:    models.OrderStatusFailed,
			Total:     order.Total,
			ItemCount: order.ItemCount,
		}, nil
	}

	if err := s.store.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.carts.Clear(ctx, ownerID)
	util.CheckoutsTotal.WithLabelValues("paid").Inc()

	s.publisher.Track(ctx, models.EventTypeOrderCreated, userID, anonFromOwner(ownerID, userID), "", map[string]interface{}{
		"order_id":   order.ID,
		"total":      order.Total,
		"item_count": order.ItemCount,
	})

	s.logger.Info("Checkout complete",
		zap.Int64("order_id", order.ID),
		zap.String("tx_id", txID))

	return &CheckoutResult{
		OrderID:   order.ID,
		Status:    models.OrderStatusPaid,
		Total:     order.Total,
		ItemCount: order.ItemCount,
		TxID:      txID,
	}, nil
}

// Orders lists the owner's orders, newest first
func (s *CheckoutService) Orders(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.store.GetOrdersByOwner(ctx, ownerID)
}

// GetOrder retrieves an order with its items
func (s *CheckoutService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// processPayment is the mocked payment provider
func (s *CheckoutService) processPayment(order *models.Order) (string, bool) {
	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	time.Sleep(time.Duration(100+rand.Intn(400)) * time.Millisecond)

	if rand.Float64() >= s.successRate {
		s.logger.Warn("Payment declined", zap.Int64("order_id", order.ID))
		return "", false
	}

	txID := fmt.Sprintf("TXN-%s", uuid.New().String()[:8])
	return txID, true
}

func anonFromOwner(ownerID, userID string) string {
	if userID != "" {
		return ""
	}
	return strings.TrimPrefix(ownerID, "anon:")
}
