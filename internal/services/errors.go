package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service matches at most one of these with errors.Is;
// anything else is an internal failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("access denied, no token provided")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicate          = errors.New("already exists")
)

// kindError carries a user facing message and the kind it belongs to.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return newKindError(ErrValidation, format, args...)
}

func notFoundError(format string, args ...any) error {
	return newKindError(ErrNotFound, format, args...)
}

var (
	// ErrEmptyItemList rejects a cart or order without line items.
	ErrEmptyItemList = validationError("Items array is required and cannot be empty")
	// ErrInvalidLineItem rejects a line item without a product or with a quantity below 1.
	ErrInvalidLineItem = validationError("Invalid item details")
	// ErrWeakPassword rejects passwords failing the strength policy.
	ErrWeakPassword = validationError("Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character.")
	// ErrPasswordTooLong rejects passwords bcrypt cannot hash.
	ErrPasswordTooLong = validationError("Password must be at most 72 bytes long.")
	// ErrTokenExpired is an invalid token whose only fault is its age.
	ErrTokenExpired = fmt.Errorf("%w: token has expired", ErrInvalidToken)
)

// ProductNotFoundError reports a line item or like/review referencing a missing product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrNotFound }
