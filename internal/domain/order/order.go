package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentRazorpay       PaymentMethod = "RAZORPAY"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentCard           PaymentMethod = "CARD"
	PaymentUPI            PaymentMethod = "UPI"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentRazorpay, PaymentCashOnDelivery, PaymentCard, PaymentUPI:
		return true
	default:
		return false
	}
}

// IsOnline reports whether the method settles through the payment gateway
// before the order is confirmed.
func (p PaymentMethod) IsOnline() bool {
	return p != PaymentCashOnDelivery
}

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentCompleted     PaymentStatus = "COMPLETED"
	PaymentFailed        PaymentStatus = "FAILED"
	PaymentRefundPending PaymentStatus = "REFUND_PENDING"
	PaymentRefunded      PaymentStatus = "REFUNDED"
)

// Address is stored verbatim as a snapshot on the order.
type Address struct {
	HouseNumber string
	Street      string
	City        string
	State       string
	ZipCode     string
	Country     string
}

type Tracking struct {
	Carrier string
	Number  string
	URL     string
}

// Item snapshots a cart line at checkout time, including the title and author
// so the order stays readable even if the book record changes later.
type Item struct {
	BookID   int64
	Quantity int64
	Price    float64
	Title    string
	Author   string
}

// Order is an immutable snapshot of a cart at checkout. Pricing fields are
// copied from the cart's derived values at creation and never recomputed, so
// the customer is charged exactly what was quoted. Only status, payment,
// tracking and notes fields change afterwards.
type Order struct {
	ID          int64
	OrderNumber string
	UserID      int64
	Items       []Item

	TotalAmount      float64
	Discount         float64
	DeliveryCharge   float64
	FinalAmount      float64
	TotalItems       int64
	TotalWeightGrams int64

	Status        Status
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus

	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string

	ShippingAddress Address
	BillingAddress  Address
	Tracking        *Tracking
	Notes           string

	EstimatedDelivery *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	RefundedAt        *time.Time
	CreatedAt         time.Time
}

// NewOrderNumber generates a globally unique order number. The epoch-millis
// prefix keeps numbers roughly sortable; the random suffix guarantees
// uniqueness under concurrent creation.
func NewOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD%d%s", time.Now().UnixMilli(), suffix)
}

// AppendNote adds a line to the order's free-form notes.
func (o *Order) AppendNote(note string) {
	if note == "" {
		return
	}
	if o.Notes == "" {
		o.Notes = note
		return
	}
	o.Notes = o.Notes + "\n" + note
}
