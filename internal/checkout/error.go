package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotAuthenticated = errors.New("please sign in to place an order")
	ErrCartEmpty            = errors.New("your cart is empty")
	ErrMissingAddressField  = errors.New("please fill in all address fields")
	ErrPlaceOrderFailed     = errors.New("failed to place order")
)

// MissingFieldError names the empty address field. It matches
// ErrMissingAddressField with errors.Is.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingAddressField.Error(), e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingAddressField
}
