package cart

import "errors"

var (
	ErrCartNotFound          = errors.New("cart not found")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrQuantityLimitExceeded = errors.New("cannot hold more than 10 copies of the same book")
	ErrInvalidCoupon         = errors.New("invalid coupon")
)
