package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound             = errors.New("order not found")
	ErrInvalidStatus             = errors.New("invalid order status")
	ErrInvalidTransition         = errors.New("illegal order status transition")
	ErrInvalidPayment            = errors.New("invalid payment method")
	ErrEmptyCart                 = errors.New("cart is empty")
	ErrInvalidAmount             = errors.New("invalid order amount")
	ErrCheckoutValidation        = errors.New("checkout validation failed")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
)

// InvalidTransitionError names both ends of the rejected transition.
// It matches ErrInvalidTransition under errors.Is.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// StockShortage is one out-of-stock entry in a checkout validation failure.
type StockShortage struct {
	BookID    int64
	Title     string
	Requested int64
	Available int64
}

// CheckoutValidationError itemizes every unavailable or short-stocked title
// so the caller can act without re-querying. Matches ErrCheckoutValidation
// under errors.Is.
type CheckoutValidationError struct {
	UnavailableTitles []string
	OutOfStock        []StockShortage
}

func (e *CheckoutValidationError) Error() string {
	var parts []string
	if len(e.UnavailableTitles) > 0 {
		parts = append(parts, fmt.Sprintf("unavailable: %s", strings.Join(e.UnavailableTitles, ", ")))
	}
	for _, s := range e.OutOfStock {
		parts = append(parts, fmt.Sprintf("%q requested %d but only %d in stock", s.Title, s.Requested, s.Available))
	}
	if len(parts) == 0 {
		return ErrCheckoutValidation.Error()
	}
	return "checkout validation failed: " + strings.Join(parts, "; ")
}

func (e *CheckoutValidationError) Is(target error) bool {
	return target == ErrCheckoutValidation
}
