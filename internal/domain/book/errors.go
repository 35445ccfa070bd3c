package book

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookUnavailable   = errors.New("book is not available")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries the requested-vs-available detail the caller
// needs to act on. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	BookID    int64
	Title     string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d of %q available in stock (requested %d)", e.Available, e.Title, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
