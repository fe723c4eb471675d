package services

import (
	"errors"
	"fmt"
)

var (
	ErrBadCreds       = errors.New("invalid email or password")
	ErrEmailTaken     = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
	ErrCartEmpty      = errors.New("cart empty")
	ErrInvalidAddress = errors.New("invalid address")
)

// StockError names the offending variant and the quantity actually
// available, so checkout rejections can tell the customer what to fix.
type StockError struct {
	VariantID   string
	SKU         string
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): need %d, have %d",
		e.ProductName, e.SKU, e.Requested, e.Available)
}
