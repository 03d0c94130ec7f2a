package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/labstack/echo/v4"
)

// mapServiceError translates service sentinels into HTTP errors with
// messages safe to show a client. Unknown errors become a generic 500 so
// storage internals never leak.
func mapServiceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrCartNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "cart not found")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrCartEmpty):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "cart is empty")
	case errors.Is(err, service.ErrTotalMismatch):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "cart total does not match the submitted total")
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "payment is not confirmed")
	case errors.Is(err, service.ErrPaymentReused):
		return echo.NewHTTPError(http.StatusConflict, "payment was already used for another order")
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrPersistence):
		return echo.NewHTTPError(http.StatusInternalServerError, "order was not confirmed, please retry")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func createCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func deleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
