package order

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusProcessing, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusDelivered, StatusRefunded, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusRefunded, StatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			require.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	require.True(t, StatusCancelled.IsTerminal())
	require.True(t, StatusRefunded.IsTerminal())
	require.False(t, StatusPending.IsTerminal())
	require.False(t, StatusDelivered.IsTerminal())
}

func TestStatus_StockCommitted(t *testing.T) {
	require.False(t, StatusPending.StockCommitted())
	require.True(t, StatusConfirmed.StockCommitted())
	require.True(t, StatusProcessing.StockCommitted())
	require.True(t, StatusShipped.StockCommitted())
	require.True(t, StatusDelivered.StockCommitted())
	require.False(t, StatusCancelled.StockCommitted())
	require.False(t, StatusRefunded.StockCommitted())
}

func TestStatus_IsValid(t *testing.T) {
	require.True(t, StatusPending.IsValid())
	require.True(t, StatusRefunded.IsValid())
	require.False(t, Status("SOMETHING").IsValid())
	require.False(t, Status("").IsValid())
}

func TestApplyTransition_RejectsUnknownStatus(t *testing.T) {
	o := &Order{Status: StatusPending}

	err := o.ApplyTransition(Status("BOGUS"), TransitionInput{})

	require.ErrorIs(t, err, ErrInvalidStatus)
	require.Equal(t, StatusPending, o.Status)
}

func TestApplyTransition_RejectsIllegalMove(t *testing.T) {
	o := &Order{Status: StatusPending}

	err := o.ApplyTransition(StatusShipped, TransitionInput{})

	require.ErrorIs(t, err, ErrInvalidTransition)
	var transErr *InvalidTransitionError
	require.True(t, errors.As(err, &transErr))
	require.Equal(t, StatusPending, transErr.From)
	require.Equal(t, StatusShipped, transErr.To)
	require.Equal(t, StatusPending, o.Status)
}

func TestApplyTransition_ShippedStampsTrackingAndETA(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusProcessing, PaymentStatus: PaymentCompleted}
	tracking := &Tracking{Carrier: "BlueDart", Number: "BD123"}

	err := o.ApplyTransition(StatusShipped, TransitionInput{Tracking: tracking, Now: now})

	require.NoError(t, err)
	require.Equal(t, StatusShipped, o.Status)
	require.Equal(t, tracking, o.Tracking)
	require.Equal(t, now, *o.ShippedAt)
	require.Equal(t, now.Add(7*24*time.Hour), *o.EstimatedDelivery)
}

func TestApplyTransition_DeliveredCompletesCODPayment(t *testing.T) {
	now := time.Now()
	o := &Order{
		Status:        StatusShipped,
		PaymentMethod: PaymentCashOnDelivery,
		PaymentStatus: PaymentPending,
	}

	require.NoError(t, o.ApplyTransition(StatusDelivered, TransitionInput{Now: now}))

	require.Equal(t, StatusDelivered, o.Status)
	require.Equal(t, PaymentCompleted, o.PaymentStatus)
	require.Equal(t, now, *o.DeliveredAt)
}

func TestApplyTransition_DeliveredLeavesOnlinePaymentAlone(t *testing.T) {
	o := &Order{
		Status:        StatusShipped,
		PaymentMethod: PaymentRazorpay,
		PaymentStatus: PaymentCompleted,
	}

	require.NoError(t, o.ApplyTransition(StatusDelivered, TransitionInput{}))
	require.Equal(t, PaymentCompleted, o.PaymentStatus)
}

func TestApplyTransition_CancelPaidOrderFlagsRefund(t *testing.T) {
	o := &Order{Status: StatusConfirmed, PaymentStatus: PaymentCompleted}

	require.NoError(t, o.ApplyTransition(StatusCancelled, TransitionInput{}))

	require.Equal(t, StatusCancelled, o.Status)
	require.Equal(t, PaymentRefundPending, o.PaymentStatus)
	require.NotNil(t, o.CancelledAt)
}

func TestApplyTransition_CancelUnpaidOrderFailsPayment(t *testing.T) {
	o := &Order{Status: StatusPending, PaymentStatus: PaymentPending}

	require.NoError(t, o.ApplyTransition(StatusCancelled, TransitionInput{}))

	require.Equal(t, StatusCancelled, o.Status)
	require.Equal(t, PaymentFailed, o.PaymentStatus)
}

func TestApplyTransition_RefundedStampsPayment(t *testing.T) {
	o := &Order{Status: StatusDelivered, PaymentStatus: PaymentCompleted}

	require.NoError(t, o.ApplyTransition(StatusRefunded, TransitionInput{}))

	require.Equal(t, StatusRefunded, o.Status)
	require.Equal(t, PaymentRefunded, o.PaymentStatus)
	require.NotNil(t, o.RefundedAt)
}

func TestApplyTransition_AppendsNotes(t *testing.T) {
	o := &Order{Status: StatusPending}

	require.NoError(t, o.ApplyTransition(StatusConfirmed, TransitionInput{Notes: "payment confirmed"}))
	require.Equal(t, "payment confirmed", o.Notes)

	require.NoError(t, o.ApplyTransition(StatusProcessing, TransitionInput{Notes: "packing"}))
	require.Equal(t, "payment confirmed\npacking", o.Notes)
}

func TestApplyTransition_TerminalStatesRejectEverything(t *testing.T) {
	for _, terminal := range []Status{StatusCancelled, StatusRefunded} {
		o := &Order{Status: terminal}
		for _, next := range []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded} {
			require.ErrorIs(t, o.ApplyTransition(next, TransitionInput{}), ErrInvalidTransition)
		}
	}
}
