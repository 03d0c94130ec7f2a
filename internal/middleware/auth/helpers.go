package auth

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// UserID returns the identity resolved by RequireAuth.
func UserID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return userID, nil
}
