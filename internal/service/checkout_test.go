package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
)

func approvedSale(id string, amount int64) payment.Confirmation {
	return payment.Confirmation{TransactionID: id, ApprovedAmount: amount, State: "approved"}
}

func TestCheckoutCreatesOrderAndDeletesCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)
	b := seedProduct(t, r, "mouse", 500)
	fillCart(t, r, userID, map[*models.Product]uint{a: 2, b: 1})

	order, err := svc.Checkout(ctx, userID, approvedSale("TXN1", 2500), 2500)
	require.NoError(t, err)
	require.Equal(t, int64(2500), order.Total)
	require.Equal(t, "TXN1", order.PaymentID)
	require.Equal(t, userID, order.UserID)
	require.Len(t, order.Items, 2)

	var sum int64
	for _, it := range order.Items {
		require.Equal(t, it.UnitPrice*int64(it.Quantity), it.Amount)
		sum += it.Amount
	}
	require.Equal(t, order.Total, sum)

	_, err = r.GetCart(ctx, userID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCheckoutRejectsTotalMismatch(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)
	b := seedProduct(t, r, "mouse", 500)
	fillCart(t, r, userID, map[*models.Product]uint{a: 2, b: 1})

	_, err := svc.Checkout(ctx, userID, approvedSale("TXN2", 2000), 2000)
	require.ErrorIs(t, err, ErrTotalMismatch)

	// Nothing happened: the cart is intact and no order exists.
	cart, err := r.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	orders, err := r.ListOrders(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCheckoutRejectsProviderAmountMismatch(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)
	fillCart(t, r, userID, map[*models.Product]uint{a: 1})

	// Client total matches the cart but the provider approved a different
	// amount.
	_, err := svc.Checkout(ctx, userID, approvedSale("TXN3", 999), 1000)
	require.ErrorIs(t, err, ErrTotalMismatch)
}

func TestCheckoutRejectsZeroApprovedAmount(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)
	fillCart(t, r, userID, map[*models.Product]uint{a: 1})

	// An approved sale over $0.00 must not pay for a non-empty cart.
	_, err := svc.Checkout(ctx, userID, approvedSale("TXZERO", 0), 1000)
	require.ErrorIs(t, err, ErrTotalMismatch)

	cart, err := r.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	orders, err := r.ListOrders(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCheckoutMissingCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}

	_, err := svc.Checkout(context.Background(), uuid.New(), approvedSale("TXN4", 100), 100)
	require.ErrorIs(t, err, ErrCartNotFound)
}

func TestCheckoutEmptyCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	// A cart emptied line by line still exists as a row.
	a := seedProduct(t, r, "keyboard", 1000)
	fillCart(t, r, userID, map[*models.Product]uint{a: 1})
	_, err := r.RemoveItem(ctx, userID, a.ID)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, userID, approvedSale("TXN5", 0), 0)
	require.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutRejectsUnconfirmedPayment(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)
	fillCart(t, r, userID, map[*models.Product]uint{a: 1})

	_, err := svc.Checkout(ctx, userID, payment.Confirmation{TransactionID: "TXN6", State: "pending"}, 1000)
	require.ErrorIs(t, err, ErrPaymentNotConfirmed)

	_, err = svc.Checkout(ctx, userID, payment.Confirmation{State: "approved"}, 1000)
	require.ErrorIs(t, err, ErrPaymentNotConfirmed)
}

func TestCheckoutRejectsReusedPayment(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)
	fillCart(t, r, userID, map[*models.Product]uint{a: 1})

	_, err := svc.Checkout(ctx, userID, approvedSale("TXN7", 1000), 1000)
	require.NoError(t, err)

	// Same payment id against a fresh cart must not mint a second order.
	fillCart(t, r, userID, map[*models.Product]uint{a: 1})
	_, err = svc.Checkout(ctx, userID, approvedSale("TXN7", 1000), 1000)
	require.ErrorIs(t, err, ErrPaymentReused)

	cart, err := r.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	orders, err := r.ListOrders(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestCheckoutTotalIndependentOfItemOrder(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()

	a := seedProduct(t, r, "keyboard", 1000)
	b := seedProduct(t, r, "mouse", 500)

	first := uuid.New()
	_, err := r.AddItem(ctx, first, a.ID, a.Price, 2)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, first, b.ID, b.Price, 1)
	require.NoError(t, err)

	second := uuid.New()
	_, err = r.AddItem(ctx, second, b.ID, b.Price, 1)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, second, a.ID, a.Price, 2)
	require.NoError(t, err)

	o1, err := svc.Checkout(ctx, first, approvedSale("TXN8", 2500), 2500)
	require.NoError(t, err)
	o2, err := svc.Checkout(ctx, second, approvedSale("TXN9", 2500), 2500)
	require.NoError(t, err)
	require.Equal(t, o1.Total, o2.Total)
}

func TestConcurrentCheckoutsSameUserMintOneOrder(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)
	fillCart(t, r, userID, map[*models.Product]uint{a: 1})

	// Two checkouts race for the same cart with distinct payment ids. The
	// per-user lock serializes them: the winner consumes the cart, the loser
	// finds it gone.
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, txID := range []string{"TXC1", "TXC2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Checkout(ctx, userID, approvedSale(id, 1000), 1000)
			results <- err
		}(txID)
	}
	wg.Wait()
	close(results)

	var succeeded, lost int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrCartNotFound)
		lost++
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, lost)

	orders, err := r.ListOrders(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, int64(1000), orders[0].Total)
}

func TestConcurrentCheckoutsDifferentUsersBothSucceed(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()

	a := seedProduct(t, r, "keyboard", 1000)

	users := []uuid.UUID{uuid.New(), uuid.New()}
	for _, u := range users {
		fillCart(t, r, u, map[*models.Product]uint{a: 1})
	}

	errs := make(chan error, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(n int, userID uuid.UUID) {
			defer wg.Done()
			_, err := svc.Checkout(ctx, userID, approvedSale(fmt.Sprintf("TXU%d", n), 1000), 1000)
			errs <- err
		}(i, u)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for _, u := range users {
		orders, err := r.ListOrders(ctx, u, 10, 0)
		require.NoError(t, err)
		require.Len(t, orders, 1)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, r, "keyboard", 1000)

	fillCart(t, r, userID, map[*models.Product]uint{a: 1})
	first, err := svc.Checkout(ctx, userID, approvedSale("TXN10", 1000), 1000)
	require.NoError(t, err)

	fillCart(t, r, userID, map[*models.Product]uint{a: 2})
	second, err := svc.Checkout(ctx, userID, approvedSale("TXN11", 2000), 2000)
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID)
	require.Equal(t, first.ID, orders[1].ID)
	require.Len(t, orders[0].Items, 1)
}

func TestCheckoutDoesNotSeeOtherUsersOrders(t *testing.T) {
	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}
	ctx := context.Background()

	a := seedProduct(t, r, "keyboard", 1000)

	alice := uuid.New()
	bob := uuid.New()
	fillCart(t, r, alice, map[*models.Product]uint{a: 1})
	fillCart(t, r, bob, map[*models.Product]uint{a: 1})

	_, err := svc.Checkout(ctx, alice, approvedSale("TXN12", 1000), 1000)
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, bob, 10, 0)
	require.NoError(t, err)
	require.Empty(t, orders)

	// Bob's cart is untouched by Alice's checkout.
	cart, err := r.GetCart(ctx, bob)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	_, err = r.GetCart(ctx, alice)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
