package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	dombook "example.com/bookstore/internal/domain/book"
	domcart "example.com/bookstore/internal/domain/cart"
	domorder "example.com/bookstore/internal/domain/order"
	"example.com/bookstore/internal/domain/payment"

	"github.com/google/uuid"
)

type CartRepository interface {
	GetByUser(ctx context.Context, userID int64) (*domcart.Cart, error)
	Clear(ctx context.Context, userID int64) error
}

type BookRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*dombook.Book, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domorder.Order, error)
	UpdateStatus(ctx context.Context, o *domorder.Order) error
}

type StockCommitter interface {
	Commit(ctx context.Context, items []domorder.Item) error
}

type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

type Service struct {
	cartRepo  CartRepository
	bookRepo  BookRepository
	orderRepo OrderRepository
	stock     StockCommitter
	gateway   payment.Gateway
	events    EventPublisher
	secret    string
	currency  string
}

func NewService(
	cartRepo CartRepository,
	bookRepo BookRepository,
	orderRepo OrderRepository,
	stock StockCommitter,
	gateway payment.Gateway,
	events EventPublisher,
	secret string,
	currency string,
) *Service {
	return &Service{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		stock:     stock,
		gateway:   gateway,
		events:    events,
		secret:    secret,
		currency:  currency,
	}
}

type Input struct {
	PaymentMethod   domorder.PaymentMethod
	ShippingAddress domorder.Address
	BillingAddress  *domorder.Address
}

// Result carries the new order, the gateway intent for online payments, and
// a non-fatal warning when stock or cart bookkeeping failed after the order
// was already durable.
type Result struct {
	Order   *domorder.Order
	Payment *payment.Intent
	Warning string
}

// Checkout snapshots the user's cart into a PENDING order. Every line is
// re-validated against current catalog truth with itemized failures; pricing
// is copied from the cart's derived values and never recomputed afterwards.
// Online payments stay PENDING holding a gateway intent; cash-on-delivery
// confirms immediately, committing stock and clearing the cart.
func (s *Service) Checkout(ctx context.Context, userID int64, in Input) (*Result, error) {
	if !in.PaymentMethod.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}

	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, domorder.ErrEmptyCart
	}

	books, err := s.loadBooks(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := validateLines(c.Lines, books); err != nil {
		return nil, err
	}

	pricing := domcart.ComputePricing(c.Lines, c.Coupon)
	if pricing.FinalTotal <= 0 {
		return nil, domorder.ErrInvalidAmount
	}

	billing := in.ShippingAddress
	if in.BillingAddress != nil {
		billing = *in.BillingAddress
	}

	o := &domorder.Order{
		OrderNumber:      domorder.NewOrderNumber(),
		UserID:           userID,
		Items:            orderItems(c.Lines, books),
		TotalAmount:      pricing.TotalPrice,
		Discount:         pricing.Savings,
		DeliveryCharge:   pricing.DeliveryCharge,
		FinalAmount:      pricing.FinalTotal,
		TotalItems:       pricing.TotalItems,
		TotalWeightGrams: pricing.TotalWeightGrams,
		Status:           domorder.StatusPending,
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    domorder.PaymentPending,
		ShippingAddress:  in.ShippingAddress,
		BillingAddress:   billing,
	}

	var intent *payment.Intent
	if in.PaymentMethod.IsOnline() {
		intent, err = s.gateway.CreateIntent(ctx, payment.IntentRequest{
			AmountMinor: int64(math.Round(pricing.FinalTotal * 100)),
			Currency:    s.currency,
			Receipt:     "order_" + uuid.NewString(),
			Metadata: map[string]string{
				"user_id":      fmt.Sprintf("%d", userID),
				"order_number": o.OrderNumber,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
		}
		o.GatewayOrderID = intent.ID
	}

	o, err = s.orderRepo.Create(ctx, o)
	if err != nil {
		return nil, err
	}

	result := &Result{Order: o, Payment: intent}
	if !in.PaymentMethod.IsOnline() {
		if err := o.ApplyTransition(domorder.StatusConfirmed, domorder.TransitionInput{}); err != nil {
			return nil, err
		}
		if err := s.orderRepo.UpdateStatus(ctx, o); err != nil {
			return nil, err
		}
		result.Warning = s.settleInventory(ctx, o)
	}

	s.publish("order.created", map[string]any{
		"order_id":       o.ID,
		"order_number":   o.OrderNumber,
		"user_id":        o.UserID,
		"status":         o.Status,
		"payment_method": o.PaymentMethod,
		"final_amount":   o.FinalAmount,
	})

	return result, nil
}

type VerifyInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// VerifyPayment checks the gateway callback's signature against the shared
// secret. A mismatch marks the payment FAILED and cancels the order without
// touching stock, which was never committed for an unconfirmed online
// payment. A match confirms the order, commits stock and clears the cart.
func (s *Service) VerifyPayment(ctx context.Context, userID int64, in VerifyInput) (*Result, error) {
	o, err := s.orderRepo.GetByGatewayOrderID(ctx, in.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrOrderNotFound
	}
	if o.Status != domorder.StatusPending {
		return nil, &domorder.InvalidTransitionError{From: o.Status, To: domorder.StatusConfirmed}
	}

	if !payment.VerifySignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature, s.secret) {
		if err := o.ApplyTransition(domorder.StatusCancelled, domorder.TransitionInput{
			Notes: "Cancelled: payment signature mismatch",
		}); err != nil {
			return nil, err
		}
		if err := s.orderRepo.UpdateStatus(ctx, o); err != nil {
			return nil, err
		}
		return nil, domorder.ErrPaymentVerificationFailed
	}

	o.GatewayPaymentID = in.GatewayPaymentID
	o.GatewaySignature = in.Signature
	o.PaymentStatus = domorder.PaymentCompleted
	if err := o.ApplyTransition(domorder.StatusConfirmed, domorder.TransitionInput{}); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	result := &Result{Order: o, Warning: s.settleInventory(ctx, o)}

	s.publish("order.confirmed", map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"user_id":      o.UserID,
		"final_amount": o.FinalAmount,
	})

	return result, nil
}

// settleInventory commits stock and clears the cart after the order record
// is already durable. Failures here are surfaced as warnings for manual
// reconciliation, never rolled back into the order status.
func (s *Service) settleInventory(ctx context.Context, o *domorder.Order) string {
	var warning string
	if err := s.stock.Commit(ctx, o.Items); err != nil {
		warning = fmt.Sprintf("stock commit failed for order %s: %v", o.OrderNumber, err)
		log.Printf("WARN: %s", warning)
	}
	if err := s.cartRepo.Clear(ctx, o.UserID); err != nil {
		msg := fmt.Sprintf("cart clear failed for user %d after order %s: %v", o.UserID, o.OrderNumber, err)
		log.Printf("WARN: %s", msg)
		if warning == "" {
			warning = msg
		}
	}
	return warning
}

func (s *Service) publish(routingKey string, event map[string]any) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.events.Publish("order", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

func (s *Service) loadBooks(ctx context.Context, c *domcart.Cart) (map[int64]*dombook.Book, error) {
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
	return byID, nil
}

// validateLines checks every cart line against current availability and
// stock, returning a single itemized error rather than failing line by line.
func validateLines(lines []domcart.Line, books map[int64]*dombook.Book) error {
	var failure domorder.CheckoutValidationError
	for _, line := range lines {
		b, ok := books[line.BookID]
		if !ok {
			failure.UnavailableTitles = append(failure.UnavailableTitles, fmt.Sprintf("book %d", line.BookID))
			continue
		}
		if !b.Available {
			failure.UnavailableTitles = append(failure.UnavailableTitles, b.Title)
			continue
		}
		if b.Stock < line.Quantity {
			failure.OutOfStock = append(failure.OutOfStock, domorder.StockShortage{
				BookID:    b.ID,
				Title:     b.Title,
				Requested: line.Quantity,
				Available: b.Stock,
			})
		}
	}
	if len(failure.UnavailableTitles) > 0 || len(failure.OutOfStock) > 0 {
		return &failure
	}
	return nil
}

func orderItems(lines []domcart.Line, books map[int64]*dombook.Book) []domorder.Item {
	items := make([]domorder.Item, 0, len(lines))
	for _, line := range lines {
		item := domorder.Item{
			BookID:   line.BookID,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
		if b, ok := books[line.BookID]; ok {
			item.Title = b.Title
			item.Author = b.Author
		}
		items = append(items, item)
	}
	return items
}
