package order

import "time"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

// transitions is the full status lattice. Anything not listed is illegal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// StockCommitted reports whether catalog stock has been decremented for an
// order in this state. Stock is committed when an order is confirmed and
// stays committed until the order is cancelled.
func (s Status) StockCommitted() bool {
	switch s {
	case StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}

// TransitionInput carries the optional data a transition may record.
type TransitionInput struct {
	Tracking *Tracking
	Notes    string
	Now      time.Time
}

// estimatedDeliveryWindow is stamped when an order ships.
const estimatedDeliveryWindow = 7 * 24 * time.Hour

// ApplyTransition moves the order to next, stamping timestamps and adjusting
// the payment status per the transition's side effects. The caller is
// responsible for triggering stock restoration on cancellation.
func (o *Order) ApplyTransition(next Status, in TransitionInput) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.Status, To: next}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	o.AppendNote(in.Notes)

	switch next {
	case StatusShipped:
		o.ShippedAt = &now
		if in.Tracking != nil {
			o.Tracking = in.Tracking
		}
		eta := now.Add(estimatedDeliveryWindow)
		o.EstimatedDelivery = &eta
	case StatusDelivered:
		o.DeliveredAt = &now
		if o.PaymentMethod == PaymentCashOnDelivery && o.PaymentStatus == PaymentPending {
			o.PaymentStatus = PaymentCompleted
		}
	case StatusCancelled:
		o.CancelledAt = &now
		switch o.PaymentStatus {
		case PaymentCompleted:
			// The actual refund is an external process; flag it for follow-up.
			o.PaymentStatus = PaymentRefundPending
		case PaymentPending:
			o.PaymentStatus = PaymentFailed
		}
	case StatusRefunded:
		o.RefundedAt = &now
		o.PaymentStatus = PaymentRefunded
	}

	o.Status = next
	return nil
}
