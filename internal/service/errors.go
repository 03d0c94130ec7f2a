package service

import "errors"

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409

	ErrCartNotFound        = errors.New("cart not found")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrTotalMismatch       = errors.New("total mismatch")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrPaymentReused       = errors.New("payment already used")
	ErrPersistence         = errors.New("order not persisted")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)
