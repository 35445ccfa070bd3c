package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domorder "example.com/bookstore/internal/domain/order"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domorder.Order, error)
	ListByUser(ctx context.Context, userID int64, limit int64) ([]*domorder.Order, error)
	List(ctx context.Context, filter domorder.ListFilter) ([]*domorder.Order, error)
	UpdateStatus(ctx context.Context, o *domorder.Order) error
}

type StockRestorer interface {
	Restore(ctx context.Context, items []domorder.Item) error
}

type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

type Service struct {
	orderRepo OrderRepository
	stock     StockRestorer
	events    EventPublisher
}

func NewService(orderRepo OrderRepository, stock StockRestorer, events EventPublisher) *Service {
	return &Service{
		orderRepo: orderRepo,
		stock:     stock,
		events:    events,
	}
}

// TransitionResult couples the updated order with a non-fatal stock warning.
// The order status change is durable even when stock bookkeeping failed.
type TransitionResult struct {
	Order        *domorder.Order
	StockWarning string
}

func (s *Service) ListByUser(ctx context.Context, userID, limit int64) ([]*domorder.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID, limit)
}

func (s *Service) Get(ctx context.Context, orderID int64) (*domorder.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

// GetForUser scopes the lookup to the owning user.
func (s *Service) GetForUser(ctx context.Context, userID, orderID int64) (*domorder.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, filter domorder.ListFilter) ([]*domorder.Order, error) {
	return s.orderRepo.List(ctx, filter)
}

// UpdateStatus drives the order state machine. The status change is
// persisted first; stock restoration on cancellation runs afterwards and a
// failure there only warns, leaving reconciliation to operations.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, next domorder.Status, in domorder.TransitionInput) (*TransitionResult, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, next, in)
}

// Cancel is the customer-facing cancellation path, recording the reason in
// the order notes.
func (s *Service) Cancel(ctx context.Context, userID, orderID int64, reason string) (*TransitionResult, error) {
	o, err := s.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	note := "Cancelled by user"
	if reason != "" {
		note = "Cancelled: " + reason
	}
	return s.transition(ctx, o, domorder.StatusCancelled, domorder.TransitionInput{Notes: note})
}

func (s *Service) transition(ctx context.Context, o *domorder.Order, next domorder.Status, in domorder.TransitionInput) (*TransitionResult, error) {
	// A cancelled PENDING order never had stock committed, so there is
	// nothing to restore; capture the answer before the status moves.
	restoreStock := next == domorder.StatusCancelled && o.Status.StockCommitted()

	if err := o.ApplyTransition(next, in); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	result := &TransitionResult{Order: o}
	if restoreStock {
		if err := s.stock.Restore(ctx, o.Items); err != nil {
			result.StockWarning = fmt.Sprintf("stock restore failed for order %s: %v", o.OrderNumber, err)
			log.Printf("WARN: %s", result.StockWarning)
		}
	}

	s.publish("order.status_updated", map[string]any{
		"order_id":       o.ID,
		"order_number":   o.OrderNumber,
		"user_id":        o.UserID,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
	})

	return result, nil
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
