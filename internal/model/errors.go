package model

import (
	"errors"
	"fmt"
)

// Not-found errors, surfaced directly by read paths.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrStockNotFound    = errors.New("stock record not found")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrSupplierNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrStockNotFound)
}

// ValidationError signals malformed input. It is raised before any
// mutation, so a caller seeing it knows nothing was applied.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError aborts the whole transition it occurs in.
// Requested vs. Available lets the caller report an actionable message.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

// IllegalTransitionError rejects a state change out of a terminal state.
type IllegalTransitionError struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("order %s is %s: transition to %s not allowed", e.OrderID, e.From, e.To)
}
