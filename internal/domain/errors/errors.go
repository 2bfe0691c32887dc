package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidItem        = errors.New("invalid item attributes")
	ErrOrderAlreadyPaid   = errors.New("order already paid")
	ErrAmountMismatch     = errors.New("amount does not match order total")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrNotOwner           = errors.New("not the owner")
)

// ItemUnavailableError signals that a checkout lost the race for an
// item or referenced one that no longer exists. It is an expected
// outcome under concurrency, not a fault.
type ItemUnavailableError struct {
	ItemID int64
}

func (e ItemUnavailableError) Error() string {
	return fmt.Sprintf("item %d is no longer available", e.ItemID)
}
