package cart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	dombook "example.com/bookstore/internal/domain/book"
)

func availableBook(id int64, price float64, stock int64) *dombook.Book {
	return &dombook.Book{
		ID:          id,
		Title:       "Some Title",
		Author:      "Some Author",
		Price:       price,
		Stock:       stock,
		Available:   true,
		WeightGrams: 400,
	}
}

func TestCart_AddLine(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 299, 20)

	require.NoError(t, c.AddLine(b, 2))

	require.Len(t, c.Lines, 1)
	require.Equal(t, int64(2), c.Lines[0].Quantity)
	require.Equal(t, 299.0, c.Lines[0].Price)
	require.Equal(t, int64(400), c.Lines[0].WeightGrams)
}

func TestCart_AddLine_MergesAndRefreshesSnapshots(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 299, 20)
	require.NoError(t, c.AddLine(b, 2))

	// Catalog price and weight changed since the first add.
	b.Price = 349
	b.WeightGrams = 500
	require.NoError(t, c.AddLine(b, 3))

	require.Len(t, c.Lines, 1)
	require.Equal(t, int64(5), c.Lines[0].Quantity)
	require.Equal(t, 349.0, c.Lines[0].Price)
	require.Equal(t, int64(500), c.Lines[0].WeightGrams)
}

func TestCart_AddLine_InvalidQuantity(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 100, 20)

	require.ErrorIs(t, c.AddLine(b, 0), ErrInvalidQuantity)
	require.ErrorIs(t, c.AddLine(b, -1), ErrInvalidQuantity)
	require.Empty(t, c.Lines)
}

func TestCart_AddLine_Unavailable(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 100, 20)
	b.Available = false

	require.ErrorIs(t, c.AddLine(b, 1), dombook.ErrBookUnavailable)
}

func TestCart_AddLine_QuantityLimitCountsExistingLine(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 100, 50)

	require.NoError(t, c.AddLine(b, 3))
	err := c.AddLine(b, 8)

	require.ErrorIs(t, err, ErrQuantityLimitExceeded)
	require.Equal(t, int64(3), c.Lines[0].Quantity)
}

func TestCart_AddLine_InsufficientStock(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 100, 4)

	err := c.AddLine(b, 5)

	require.ErrorIs(t, err, dombook.ErrInsufficientStock)
	var stockErr *dombook.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Equal(t, int64(5), stockErr.Requested)
	require.Equal(t, int64(4), stockErr.Available)
}

func TestCart_SetQuantity_RefreshesSnapshots(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 299, 20)
	require.NoError(t, c.AddLine(b, 2))

	b.Price = 199
	b.WeightGrams = 350
	require.NoError(t, c.SetQuantity(b, 4))

	require.Equal(t, int64(4), c.Lines[0].Quantity)
	require.Equal(t, 199.0, c.Lines[0].Price)
	require.Equal(t, int64(350), c.Lines[0].WeightGrams)
}

func TestCart_SetQuantity_ZeroRemovesLine(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 299, 20)
	require.NoError(t, c.AddLine(b, 2))

	require.NoError(t, c.SetQuantity(b, 0))
	require.Empty(t, c.Lines)
}

func TestCart_SetQuantity_MissingLineIsNoop(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 299, 20)

	require.NoError(t, c.SetQuantity(b, 3))
	require.Empty(t, c.Lines)
}

func TestCart_SetQuantity_Bounds(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 299, 5)
	require.NoError(t, c.AddLine(b, 2))

	require.ErrorIs(t, c.SetQuantity(b, 11), ErrQuantityLimitExceeded)
	require.ErrorIs(t, c.SetQuantity(b, 6), dombook.ErrInsufficientStock)
	require.Equal(t, int64(2), c.Lines[0].Quantity)
}

func TestCart_RemoveLine_Idempotent(t *testing.T) {
	c := &Cart{UserID: 1}
	b := availableBook(1, 299, 20)
	require.NoError(t, c.AddLine(b, 2))

	c.RemoveLine(1)
	require.Empty(t, c.Lines)

	c.RemoveLine(1) // already gone
	c.RemoveLine(99)
	require.Empty(t, c.Lines)
}

func TestCart_Clear_DropsLinesAndCoupon(t *testing.T) {
	c := &Cart{UserID: 1}
	require.NoError(t, c.AddLine(availableBook(1, 299, 20), 2))
	require.NoError(t, c.ApplyCoupon("SAVE10", 10, DiscountPercentage))

	c.Clear()

	require.Empty(t, c.Lines)
	require.Nil(t, c.Coupon)
}

func TestCart_ApplyCoupon(t *testing.T) {
	c := &Cart{UserID: 1}

	require.NoError(t, c.ApplyCoupon("SAVE10", 10, DiscountPercentage))
	require.Equal(t, "SAVE10", c.Coupon.Code)

	// Overwrites the previous coupon.
	require.NoError(t, c.ApplyCoupon("FLAT50", 50, DiscountFixed))
	require.Equal(t, "FLAT50", c.Coupon.Code)
	require.Equal(t, DiscountFixed, c.Coupon.Type)
}

func TestCart_ApplyCoupon_Invalid(t *testing.T) {
	c := &Cart{UserID: 1}

	require.ErrorIs(t, c.ApplyCoupon("X", 10, "bogus"), ErrInvalidCoupon)
	require.ErrorIs(t, c.ApplyCoupon("X", -5, DiscountFixed), ErrInvalidCoupon)
	require.ErrorIs(t, c.ApplyCoupon("X", 101, DiscountPercentage), ErrInvalidCoupon)
	require.Nil(t, c.Coupon)
}

func TestCart_RemoveCoupon(t *testing.T) {
	c := &Cart{UserID: 1}
	require.NoError(t, c.ApplyCoupon("SAVE10", 10, DiscountPercentage))

	c.RemoveCoupon()
	require.Nil(t, c.Coupon)
}
