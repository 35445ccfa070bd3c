package inventory

import (
	"context"

	dombook "example.com/bookstore/internal/domain/book"
	domorder "example.com/bookstore/internal/domain/order"
)

type BookRepository interface {
	BulkAdjustStock(ctx context.Context, adjustments []dombook.StockAdjustment) error
}

// Service implements the stock reservation protocol: commit decrements
// catalog stock when an order is confirmed, restore re-increments it when a
// committed order is cancelled. Both run as one bulk operation across all
// order lines to keep the inconsistency window small.
type Service struct {
	bookRepo BookRepository
}

func NewService(bookRepo BookRepository) *Service {
	return &Service{bookRepo: bookRepo}
}

// Commit decrements stock for every order line. A book whose stock reaches
// zero flips to unavailable. Invoked exactly once per order, at the moment
// payment is confirmed or immediately for cash-on-delivery.
func (s *Service) Commit(ctx context.Context, items []domorder.Item) error {
	return s.bookRepo.BulkAdjustStock(ctx, adjustments(items, -1))
}

// Restore increments stock for every order line, re-enabling availability
// only for books the stock-out itself disabled. Invoked exactly once per
// order, on cancellation of an order whose stock was previously committed.
func (s *Service) Restore(ctx context.Context, items []domorder.Item) error {
	return s.bookRepo.BulkAdjustStock(ctx, adjustments(items, 1))
}

func adjustments(items []domorder.Item, sign int64) []dombook.StockAdjustment {
	adjs := make([]dombook.StockAdjustment, 0, len(items))
	for _, item := range items {
		adjs = append(adjs, dombook.StockAdjustment{
			BookID: item.BookID,
			Delta:  sign * item.Quantity,
		})
	}
	return adjs
}
