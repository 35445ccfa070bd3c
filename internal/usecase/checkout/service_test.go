package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	dombook "example.com/bookstore/internal/domain/book"
	domcart "example.com/bookstore/internal/domain/cart"
	domorder "example.com/bookstore/internal/domain/order"
	"example.com/bookstore/internal/domain/payment"
)

type mockCartRepository struct {
	carts    map[int64]*domcart.Cart
	cleared  []int64
	clearErr error
}

func (m *mockCartRepository) GetByUser(ctx context.Context, userID int64) (*domcart.Cart, error) {
	if c, ok := m.carts[userID]; ok {
		return c, nil
	}
	return nil, domcart.ErrCartNotFound
}

func (m *mockCartRepository) Clear(ctx context.Context, userID int64) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = append(m.cleared, userID)
	return nil
}

type mockBookRepository struct {
	books map[int64]*dombook.Book
}

func (m *mockBookRepository) GetByIDs(ctx context.Context, ids []int64) ([]*dombook.Book, error) {
	var result []*dombook.Book
	for _, id := range ids {
		if b, ok := m.books[id]; ok {
			cloned := *b
			result = append(result, &cloned)
		}
	}
	return result, nil
}

type mockOrderRepository struct {
	orders    map[int64]*domorder.Order
	nextID    int64
	createErr error
	updates   int
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[int64]*domorder.Order), nextID: 1}
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	o.ID = m.nextID
	m.nextID++
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domorder.Order, error) {
	for _, o := range m.orders {
		if o.GatewayOrderID == gatewayOrderID {
			return o, nil
		}
	}
	return nil, domorder.ErrOrderNotFound
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, o *domorder.Order) error {
	if _, ok := m.orders[o.ID]; !ok {
		return domorder.ErrOrderNotFound
	}
	m.orders[o.ID] = o
	m.updates++
	return nil
}

type mockStockCommitter struct {
	commits   [][]domorder.Item
	commitErr error
}

func (m *mockStockCommitter) Commit(ctx context.Context, items []domorder.Item) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits = append(m.commits, items)
	return nil
}

type mockGateway struct {
	intents   []payment.IntentRequest
	createErr error
}

func (m *mockGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.intents = append(m.intents, req)
	return &payment.Intent{ID: "order_gw_1", AmountMinor: req.AmountMinor, Currency: req.Currency}, nil
}

const testSecret = "test-secret"

func setupCheckout() (*Service, *mockCartRepository, *mockBookRepository, *mockOrderRepository, *mockStockCommitter, *mockGateway) {
	cartRepo := &mockCartRepository{carts: make(map[int64]*domcart.Cart)}
	bookRepo := &mockBookRepository{books: map[int64]*dombook.Book{
		1: {ID: 1, Title: "Book One", Author: "Author A", Price: 300, Stock: 10, Available: true, WeightGrams: 450},
		2: {ID: 2, Title: "Book Two", Author: "Author B", Price: 150, Stock: 5, Available: true, WeightGrams: 200},
	}}
	orderRepo := newMockOrderRepository()
	stock := &mockStockCommitter{}
	gateway := &mockGateway{}

	svc := NewService(cartRepo, bookRepo, orderRepo, stock, gateway, nil, testSecret, "INR")
	return svc, cartRepo, bookRepo, orderRepo, stock, gateway
}

func cartWithLines(userID int64) *domcart.Cart {
	return &domcart.Cart{
		UserID: userID,
		Lines: []domcart.Line{
			{BookID: 1, Quantity: 2, Price: 300, WeightGrams: 450},
		},
	}
}

func shippingAddress() domorder.Address {
	return domorder.Address{
		HouseNumber: "12A",
		Street:      "MG Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		ZipCode:     "560001",
		Country:     "India",
	}
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	svc, cartRepo, _, _, _, _ := setupCheckout()
	cartRepo.carts[7] = cartWithLines(7)

	_, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   "PAYPAL",
		ShippingAddress: shippingAddress(),
	})

	require.ErrorIs(t, err, domorder.ErrInvalidPayment)
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, cartRepo, _, _, _, _ := setupCheckout()
	cartRepo.carts[7] = &domcart.Cart{UserID: 7}

	_, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentCashOnDelivery,
		ShippingAddress: shippingAddress(),
	})

	require.ErrorIs(t, err, domorder.ErrEmptyCart)
}

func TestCheckout_COD_ConfirmsAndSettles(t *testing.T) {
	svc, cartRepo, _, orderRepo, stock, gateway := setupCheckout()
	cartRepo.carts[7] = cartWithLines(7)

	result, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentCashOnDelivery,
		ShippingAddress: shippingAddress(),
	})

	require.NoError(t, err)
	require.Equal(t, domorder.StatusConfirmed, result.Order.Status)
	require.Equal(t, domorder.PaymentPending, result.Order.PaymentStatus)
	require.Nil(t, result.Payment)
	require.Empty(t, result.Warning)

	// Order snapshot: 2 x 300 at 900g -> delivery 80.
	require.Equal(t, 600.0, result.Order.TotalAmount)
	require.Equal(t, 80.0, result.Order.DeliveryCharge)
	require.Equal(t, 680.0, result.Order.FinalAmount)
	require.Len(t, result.Order.Items, 1)
	require.Equal(t, "Book One", result.Order.Items[0].Title)

	require.Len(t, stock.commits, 1)
	require.Equal(t, []int64{7}, cartRepo.cleared)
	require.Empty(t, gateway.intents)
	require.Equal(t, 1, orderRepo.updates)
}

func TestCheckout_Online_StaysPendingWithIntent(t *testing.T) {
	svc, cartRepo, _, _, stock, gateway := setupCheckout()
	cartRepo.carts[7] = cartWithLines(7)

	result, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentRazorpay,
		ShippingAddress: shippingAddress(),
	})

	require.NoError(t, err)
	require.Equal(t, domorder.StatusPending, result.Order.Status)
	require.Equal(t, domorder.PaymentPending, result.Order.PaymentStatus)
	require.NotNil(t, result.Payment)
	require.Equal(t, "order_gw_1", result.Order.GatewayOrderID)

	// 680.00 -> 68000 paise.
	require.Len(t, gateway.intents, 1)
	require.Equal(t, int64(68000), gateway.intents[0].AmountMinor)
	require.Equal(t, "INR", gateway.intents[0].Currency)

	// Nothing settles until the payment is verified.
	require.Empty(t, stock.commits)
	require.Empty(t, cartRepo.cleared)
}

func TestCheckout_BillingDefaultsToShipping(t *testing.T) {
	svc, cartRepo, _, _, _, _ := setupCheckout()
	cartRepo.carts[7] = cartWithLines(7)

	result, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentCashOnDelivery,
		ShippingAddress: shippingAddress(),
	})

	require.NoError(t, err)
	require.Equal(t, result.Order.ShippingAddress, result.Order.BillingAddress)
}

func TestCheckout_ItemizedValidationFailure(t *testing.T) {
	svc, cartRepo, bookRepo, _, stock, _ := setupCheckout()
	bookRepo.books[1].Available = false
	bookRepo.books[2].Stock = 1
	cartRepo.carts[7] = &domcart.Cart{
		UserID: 7,
		Lines: []domcart.Line{
			{BookID: 1, Quantity: 1, Price: 300, WeightGrams: 450},
			{BookID: 2, Quantity: 3, Price: 150, WeightGrams: 200},
			{BookID: 99, Quantity: 1, Price: 50, WeightGrams: 100},
		},
	}

	_, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentCashOnDelivery,
		ShippingAddress: shippingAddress(),
	})

	require.ErrorIs(t, err, domorder.ErrCheckoutValidation)
	var failure *domorder.CheckoutValidationError
	require.True(t, errors.As(err, &failure))
	require.Len(t, failure.UnavailableTitles, 2) // disabled title + unknown book
	require.Contains(t, failure.UnavailableTitles, "Book One")
	require.Len(t, failure.OutOfStock, 1)
	require.Equal(t, int64(3), failure.OutOfStock[0].Requested)
	require.Equal(t, int64(1), failure.OutOfStock[0].Available)

	require.Empty(t, stock.commits)
}

func TestCheckout_ZeroTotalRejected(t *testing.T) {
	svc, cartRepo, bookRepo, _, _, _ := setupCheckout()
	bookRepo.books[3] = &dombook.Book{ID: 3, Title: "Freebie", Price: 0, Stock: 10, Available: true}
	cartRepo.carts[7] = &domcart.Cart{
		UserID: 7,
		Lines:  []domcart.Line{{BookID: 3, Quantity: 1, Price: 0, WeightGrams: 0}},
	}

	_, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentCashOnDelivery,
		ShippingAddress: shippingAddress(),
	})

	require.ErrorIs(t, err, domorder.ErrInvalidAmount)
}

func TestCheckout_GatewayFailure(t *testing.T) {
	svc, cartRepo, _, orderRepo, _, gateway := setupCheckout()
	cartRepo.carts[7] = cartWithLines(7)
	gateway.createErr = errors.New("connection refused")

	_, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentRazorpay,
		ShippingAddress: shippingAddress(),
	})

	require.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	require.Empty(t, orderRepo.orders)
}

func TestCheckout_StockCommitFailureIsWarningOnly(t *testing.T) {
	svc, cartRepo, _, _, stock, _ := setupCheckout()
	cartRepo.carts[7] = cartWithLines(7)
	stock.commitErr = errors.New("db gone")

	result, err := svc.Checkout(context.Background(), 7, Input{
		PaymentMethod:   domorder.PaymentCashOnDelivery,
		ShippingAddress: shippingAddress(),
	})

	require.NoError(t, err)
	require.Equal(t, domorder.StatusConfirmed, result.Order.Status)
	require.Contains(t, result.Warning, "stock commit failed")
}

func placePendingOnlineOrder(t *testing.T, svc *Service, cartRepo *mockCartRepository, userID int64) *domorder.Order {
	t.Helper()
	cartRepo.carts[userID] = cartWithLines(userID)
	result, err := svc.Checkout(context.Background(), userID, Input{
		PaymentMethod:   domorder.PaymentRazorpay,
		ShippingAddress: shippingAddress(),
	})
	require.NoError(t, err)
	return result.Order
}

func TestVerifyPayment_ValidSignatureConfirms(t *testing.T) {
	svc, cartRepo, _, _, stock, _ := setupCheckout()
	o := placePendingOnlineOrder(t, svc, cartRepo, 7)

	sig := payment.Signature(o.GatewayOrderID, "pay_123", testSecret)
	result, err := svc.VerifyPayment(context.Background(), 7, VerifyInput{
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: "pay_123",
		Signature:        sig,
	})

	require.NoError(t, err)
	require.Equal(t, domorder.StatusConfirmed, result.Order.Status)
	require.Equal(t, domorder.PaymentCompleted, result.Order.PaymentStatus)
	require.Equal(t, "pay_123", result.Order.GatewayPaymentID)
	require.Len(t, stock.commits, 1)
	require.Equal(t, []int64{7}, cartRepo.cleared)
}

func TestVerifyPayment_TamperedSignatureCancels(t *testing.T) {
	svc, cartRepo, _, orderRepo, stock, _ := setupCheckout()
	o := placePendingOnlineOrder(t, svc, cartRepo, 7)

	sig := payment.Signature(o.GatewayOrderID, "pay_other", testSecret)
	_, err := svc.VerifyPayment(context.Background(), 7, VerifyInput{
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: "pay_123",
		Signature:        sig,
	})

	require.ErrorIs(t, err, domorder.ErrPaymentVerificationFailed)

	stored := orderRepo.orders[o.ID]
	require.Equal(t, domorder.StatusCancelled, stored.Status)
	require.Equal(t, domorder.PaymentFailed, stored.PaymentStatus)
	require.Contains(t, stored.Notes, "signature mismatch")

	// Stock was never committed for the pending order; the cart survives.
	require.Empty(t, stock.commits)
	require.Empty(t, cartRepo.cleared)
}

func TestVerifyPayment_WrongUser(t *testing.T) {
	svc, cartRepo, _, _, _, _ := setupCheckout()
	o := placePendingOnlineOrder(t, svc, cartRepo, 7)

	sig := payment.Signature(o.GatewayOrderID, "pay_123", testSecret)
	_, err := svc.VerifyPayment(context.Background(), 8, VerifyInput{
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: "pay_123",
		Signature:        sig,
	})

	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
}

func TestVerifyPayment_RepeatedCallbackRejected(t *testing.T) {
	svc, cartRepo, _, _, stock, _ := setupCheckout()
	o := placePendingOnlineOrder(t, svc, cartRepo, 7)

	sig := payment.Signature(o.GatewayOrderID, "pay_123", testSecret)
	in := VerifyInput{
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: "pay_123",
		Signature:        sig,
	}

	_, err := svc.VerifyPayment(context.Background(), 7, in)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(context.Background(), 7, in)
	require.ErrorIs(t, err, domorder.ErrInvalidTransition)

	// Stock committed exactly once across both callbacks.
	require.Len(t, stock.commits, 1)
}
