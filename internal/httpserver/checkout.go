package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/labstack/echo/v4"
)

// SaleVerifier re-checks a client-captured sale against the provider, so a
// fabricated transaction id never reaches the order store.
type SaleVerifier interface {
	VerifySale(ctx context.Context, transactionID string) (*payment.Confirmation, error)
}

type CheckoutHTTP struct {
	Svc      *service.CheckoutService
	Payments SaleVerifier
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		PaymentID string `json:"payment_id"`
		Total     int64  `json:"total"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	conf, err := h.Payments.VerifySale(ctx, req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrSaleNotFound):
			l.Warn("checkout_payment_unknown", "payment_id", req.PaymentID)
			metrics.ObserveCheckout("payment_not_confirmed")
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "payment is not confirmed")
		default:
			l.Error("checkout_payment_verify_error", "error", err)
			metrics.ObserveCheckout("provider_error")
			return echo.NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
		}
	}

	order, err := h.Svc.Checkout(ctx, userID, *conf, req.Total)
	if err != nil {
		l.Warn("checkout_error", "payment_id", req.PaymentID, "error", err)
		metrics.ObserveCheckout(outcome(err))
		return mapServiceError(err)
	}

	metrics.ObserveCheckout("success")
	return c.JSON(http.StatusCreated, order)
}

func (h *CheckoutHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(ctx, userID, limit, offset)
	if err != nil {
		l.Error("list_orders_error", "error", err)
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		return "cart_not_found"
	case errors.Is(err, service.ErrCartEmpty):
		return "cart_empty"
	case errors.Is(err, service.ErrTotalMismatch):
		return "total_mismatch"
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		return "payment_not_confirmed"
	case errors.Is(err, service.ErrPaymentReused):
		return "payment_reused"
	default:
		return "error"
	}
}
