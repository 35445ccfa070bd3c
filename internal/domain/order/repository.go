package order

import "context"

type ListFilter struct {
	Status *Status
	UserID *int64
	Limit  int64
}

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error)
	ListByUser(ctx context.Context, userID int64, limit int64) ([]*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)

	// UpdateStatus persists the order's mutable fields: status, payment
	// status, gateway correlation, tracking, notes and lifecycle timestamps.
	// The pricing and item snapshots are write-once.
	UpdateStatus(ctx context.Context, o *Order) error
}
