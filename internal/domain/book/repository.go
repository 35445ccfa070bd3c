package book

import "context"

type Repository interface {
	Create(ctx context.Context, b *Book) (*Book, error)
	Update(ctx context.Context, b *Book) (*Book, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Book, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Book, error)
	List(ctx context.Context, filter ListFilter) ([]*Book, error)

	// BulkAdjustStock applies every adjustment as an atomic per-row update.
	// A book whose stock reaches zero is marked unavailable; a positive delta
	// re-enables availability only when the previous stock was zero.
	BulkAdjustStock(ctx context.Context, adjustments []StockAdjustment) error
}
