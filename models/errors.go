package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("invalid input")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCart        = errors.New("cart contains an invalid line")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidRange       = errors.New("start date is after end date")
)

// Invalid builds a validation error for user input.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Require returns ErrForbidden unless the identity has the given role.
func (i Identity) Require(role Role) error {
	if i.Role != role {
		return fmt.Errorf("%w: %s required", ErrForbidden, role)
	}
	return nil
}
