package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService converts a cart plus a confirmed payment into an order.
// It is the only component that creates orders or deletes carts.
type CheckoutService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer

	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// userLock serializes checkouts per customer. Two concurrent checkouts for
// one user must not both read the same cart; different users proceed in
// parallel. Entries are never evicted: the map grows with the number of
// distinct customers seen by this process, a mutex per customer.
func (s *CheckoutService) userLock(userID uuid.UUID) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Checkout runs: load cart -> recompute server total -> compare with the
// client total -> persist order snapshot -> delete cart. The order is
// persisted before the cart is touched, so a failure can never lose both.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, conf payment.Confirmation, clientTotal int64) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)

	if conf.TransactionID == "" {
		return nil, fmt.Errorf("%w: missing transaction id", ErrPaymentNotConfirmed)
	}
	if !conf.Approved() {
		return nil, fmt.Errorf("%w: sale state %q", ErrPaymentNotConfirmed, conf.State)
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrCartNotFound, userID)
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: user %s", ErrCartEmpty, userID)
	}

	var serverTotal int64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if it.Quantity == 0 {
			return nil, fmt.Errorf("%w: zero quantity for product %s", ErrValidation, it.ProductID)
		}
		amount := it.UnitPrice * int64(it.Quantity)
		serverTotal += amount
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Amount:    amount,
		})
	}

	// Exact match: amounts are integer cents, a tampered client total is
	// rejected instead of trusted.
	if clientTotal != serverTotal {
		return nil, fmt.Errorf("%w: client sent %d, cart totals %d", ErrTotalMismatch, clientTotal, serverTotal)
	}
	if conf.ApprovedAmount != serverTotal {
		return nil, fmt.Errorf("%w: provider approved %d, cart totals %d", ErrTotalMismatch, conf.ApprovedAmount, serverTotal)
	}

	order := &models.Order{
		UserID:    userID,
		PaymentID: conf.TransactionID,
		Total:     serverTotal,
		CreatedAt: time.Now().UTC(),
		Items:     items,
	}

	if _, err := s.Repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: transaction %s", ErrPaymentReused, conf.TransactionID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The order is durable from here on. A failed cart deletion leaves a
	// stale cart next to a valid order, never the other way around.
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		l.Warn("cart_not_cleared_after_checkout", "order_id", order.ID, "error", err)
	}

	s.publish(ctx, userID, map[string]any{
		"type":       "order_created",
		"user_id":    userID,
		"order_id":   order.ID,
		"payment_id": order.PaymentID,
		"total":      order.Total,
	})

	l.Info("checkout_completed", "order_id", order.ID, "total", order.Total)
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

func (s *CheckoutService) publish(ctx context.Context, userID uuid.UUID, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.Publish(pubCtx, events.TopicOrderEvents, userID.String(), event); err != nil {
		logging.FromContext(ctx).Warn("order_event_publish_failed", "error", err)
	}
}
