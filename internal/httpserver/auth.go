package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("register_error", "error", err)
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("login_error", "username", req.Username, "error", err)
		return mapServiceError(err)
	}

	c.SetCookie(createCookie("accessToken", result.AccessToken, "/", result.AccessExp))
	c.SetCookie(createCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp))

	return c.JSON(http.StatusOK, map[string]any{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"access_exp":    result.AccessExp.Unix(),
		"refresh_exp":   result.RefreshExp.Unix(),
		"is_admin":      result.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie("refreshToken")
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	result, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		l.Warn("refresh_error", "error", err)
		c.SetCookie(deleteCookie("accessToken", "/"))
		c.SetCookie(deleteCookie("refreshToken", "/"))
		return mapServiceError(err)
	}

	c.SetCookie(createCookie("accessToken", result.AccessToken, "/", result.AccessExp))
	c.SetCookie(createCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp))

	return c.JSON(http.StatusOK, map[string]any{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"access_exp":    result.AccessExp.Unix(),
		"refresh_exp":   result.RefreshExp.Unix(),
		"is_admin":      result.IsAdmin,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			logging.FromContext(ctx).Warn("logout_error", "error", err)
		}
	}

	c.SetCookie(deleteCookie("accessToken", "/"))
	c.SetCookie(deleteCookie("refreshToken", "/"))
	return c.NoContent(http.StatusNoContent)
}
