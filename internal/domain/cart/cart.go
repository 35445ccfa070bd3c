package cart

import (
	"time"

	dombook "example.com/bookstore/internal/domain/book"
)

// MaxQuantityPerLine bounds how many copies of one title a single cart may hold.
const MaxQuantityPerLine = 10

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) IsValid() bool {
	switch d {
	case DiscountPercentage, DiscountFixed:
		return true
	default:
		return false
	}
}

// Coupon is stored as an opaque tuple; validating the code against a registry
// is the caller's job.
type Coupon struct {
	Code     string
	Discount float64
	Type     DiscountType
}

// Line is one (book, quantity) entry. Price and weight are snapshots taken
// from the catalog when the line was last touched, not live reads.
type Line struct {
	BookID      int64
	Quantity    int64
	Price       float64
	WeightGrams int64
}

// DetailedLine joins a line with current catalog state for display.
type DetailedLine struct {
	Line
	Title     string
	Author    string
	Available bool
	Stock     int64
}

// Cart holds one user's mutable lines, unique by book. Derived totals are
// never stored here; compute them with ComputePricing at every read.
type Cart struct {
	UserID    int64
	Lines     []Line
	Coupon    *Coupon
	UpdatedAt time.Time
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) findLine(bookID int64) *Line {
	for i := range c.Lines {
		if c.Lines[i].BookID == bookID {
			return &c.Lines[i]
		}
	}
	return nil
}

// AddLine creates or grows the line for b, refreshing its price and weight
// snapshots. The book must already be known to exist.
func (c *Cart) AddLine(b *dombook.Book, quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !b.Available {
		return dombook.ErrBookUnavailable
	}

	newQuantity := quantity
	if line := c.findLine(b.ID); line != nil {
		newQuantity = line.Quantity + quantity
	}
	if newQuantity > MaxQuantityPerLine {
		return ErrQuantityLimitExceeded
	}
	if newQuantity > b.Stock {
		return &dombook.InsufficientStockError{
			BookID:    b.ID,
			Title:     b.Title,
			Requested: newQuantity,
			Available: b.Stock,
		}
	}

	if line := c.findLine(b.ID); line != nil {
		line.Quantity = newQuantity
		line.Price = b.Price
		line.WeightGrams = b.UnitWeight()
	} else {
		c.Lines = append(c.Lines, Line{
			BookID:      b.ID,
			Quantity:    quantity,
			Price:       b.Price,
			WeightGrams: b.UnitWeight(),
		})
	}
	c.touch()
	return nil
}

// SetQuantity replaces the line's quantity, removing the line when quantity
// drops to zero or below. Both snapshots are refreshed so delivery charges
// and quoted prices track current catalog truth. A missing line is a no-op.
func (c *Cart) SetQuantity(b *dombook.Book, quantity int64) error {
	if quantity <= 0 {
		c.RemoveLine(b.ID)
		return nil
	}
	if quantity > MaxQuantityPerLine {
		return ErrQuantityLimitExceeded
	}
	if quantity > b.Stock {
		return &dombook.InsufficientStockError{
			BookID:    b.ID,
			Title:     b.Title,
			Requested: quantity,
			Available: b.Stock,
		}
	}

	if line := c.findLine(b.ID); line != nil {
		line.Quantity = quantity
		line.Price = b.Price
		line.WeightGrams = b.UnitWeight()
		c.touch()
	}
	return nil
}

// RemoveLine drops the matching line if present. Removing an absent line is
// a no-op, not an error.
func (c *Cart) RemoveLine(bookID int64) {
	for i := range c.Lines {
		if c.Lines[i].BookID == bookID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return
		}
	}
}

// Clear empties all lines and drops the coupon in one step.
func (c *Cart) Clear() {
	c.Lines = nil
	c.Coupon = nil
	c.touch()
}

// ApplyCoupon stores the coupon, overwriting any existing one.
func (c *Cart) ApplyCoupon(code string, discount float64, discountType DiscountType) error {
	if !discountType.IsValid() {
		return ErrInvalidCoupon
	}
	if discount < 0 {
		return ErrInvalidCoupon
	}
	if discountType == DiscountPercentage && discount > 100 {
		return ErrInvalidCoupon
	}
	c.Coupon = &Coupon{Code: code, Discount: discount, Type: discountType}
	c.touch()
	return nil
}

func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
