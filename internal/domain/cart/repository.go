package cart

import "context"

type Repository interface {
	// GetByUser returns the user's cart, or ErrCartNotFound if none exists yet.
	GetByUser(ctx context.Context, userID int64) (*Cart, error)
	// Save upserts the whole aggregate (lines, coupon, last-modified) atomically.
	Save(ctx context.Context, c *Cart) error
	// Clear empties the cart's lines and coupon in a single step.
	Clear(ctx context.Context, userID int64) error
}
