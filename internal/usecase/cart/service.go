package cart

import (
	"context"
	"errors"

	dombook "example.com/bookstore/internal/domain/book"
	domcart "example.com/bookstore/internal/domain/cart"
)

type CartRepository interface {
	domcart.Repository
}

type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*dombook.Book, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*dombook.Book, error)
}

type Service struct {
	cartRepo CartRepository
	bookRepo BookRepository
}

func NewService(cartRepo CartRepository, bookRepo BookRepository) *Service {
	return &Service{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// View is what every cart read returns: the aggregate, its lines joined with
// current catalog state, and freshly derived pricing.
type View struct {
	Cart    *domcart.Cart
	Lines   []domcart.DetailedLine
	Pricing domcart.Pricing
}

// AddItem validates against the book's current stock and availability, then
// creates or grows the matching line with fresh price and weight snapshots.
func (s *Service) AddItem(ctx context.Context, userID, bookID, quantity int64) (*View, error) {
	if quantity <= 0 {
		return nil, domcart.ErrInvalidQuantity
	}

	b, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.AddLine(b, quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// UpdateQuantity re-validates against current stock at the moment of
// mutation. A quantity of zero or below removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, bookID, quantity int64) (*View, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		c.RemoveLine(bookID)
	} else {
		b, err := s.bookRepo.GetByID(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if err := c.SetQuantity(b, quantity); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// RemoveItem drops the line if present; removing an absent book is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, bookID int64) (*View, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.RemoveLine(bookID)
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *Service) Clear(ctx context.Context, userID int64) (*View, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// ApplyCoupon stores the opaque coupon tuple, overwriting any existing one.
func (s *Service) ApplyCoupon(ctx context.Context, userID int64, code string, discount float64, discountType domcart.DiscountType) (*View, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyCoupon(code, discount, discountType); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *Service) RemoveCoupon(ctx context.Context, userID int64) (*View, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.RemoveCoupon()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// GetCart returns the cart with pricing derived at this read. A user who has
// never touched their cart gets an empty one, persisted for next time.
func (s *Service) GetCart(ctx context.Context, userID int64) (*View, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domcart.ErrCartNotFound) {
			return nil, err
		}
		c = &domcart.Cart{UserID: userID}
		if err := s.cartRepo.Save(ctx, c); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, c)
}

func (s *Service) getOrCreate(ctx context.Context, userID int64) (*domcart.Cart, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, domcart.ErrCartNotFound) {
		return &domcart.Cart{UserID: userID}, nil
	}
	return nil, err
}

func (s *Service) view(ctx context.Context, c *domcart.Cart) (*View, error) {
	v := &View{
		Cart:    c,
		Lines:   make([]domcart.DetailedLine, 0, len(c.Lines)),
		Pricing: domcart.ComputePricing(c.Lines, c.Coupon),
	}
	if len(c.Lines) == 0 {
		return v, nil
	}

	ids := make([]int64, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.BookID)
	}
	books, err := s.bookRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*dombook.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	for _, line := range c.Lines {
		detailed := domcart.DetailedLine{Line: line}
		if b, ok := byID[line.BookID]; ok {
			detailed.Title = b.Title
			detailed.Author = b.Author
			detailed.Available = b.Available
			detailed.Stock = b.Stock
		}
		v.Lines = append(v.Lines, detailed)
	}
	return v, nil
}
