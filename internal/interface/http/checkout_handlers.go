package http

import (
	"net/http"

	domorder "example.com/bookstore/internal/domain/order"
	checkoutuc "example.com/bookstore/internal/usecase/checkout"
)

type addressPayload struct {
	HouseNumber string `json:"house_number" validate:"required"`
	Street      string `json:"street" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	ZipCode     string `json:"zip_code" validate:"required,len=6,numeric"`
	Country     string `json:"country"`
}

type checkoutRequest struct {
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=RAZORPAY CASH_ON_DELIVERY CARD UPI"`
	ShippingAddress addressPayload  `json:"shipping_address" validate:"required"`
	BillingAddress  *addressPayload `json:"billing_address"`
}

type verifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature        string `json:"razorpay_signature" validate:"required"`
}

func toAddress(p addressPayload) domorder.Address {
	country := p.Country
	if country == "" {
		country = "India"
	}
	return domorder.Address{
		HouseNumber: p.HouseNumber,
		Street:      p.Street,
		City:        p.City,
		State:       p.State,
		ZipCode:     p.ZipCode,
		Country:     country,
	}
}

func mapCheckoutResult(result *checkoutuc.Result) map[string]any {
	out := map[string]any{"order": mapOrder(result.Order)}
	if result.Payment != nil {
		out["payment"] = map[string]any{
			"gateway_order_id": result.Payment.ID,
			"amount":           result.Payment.AmountMinor,
			"currency":         result.Payment.Currency,
		}
	}
	if result.Warning != "" {
		out["warning"] = result.Warning
	}
	return out
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	in := checkoutuc.Input{
		PaymentMethod:   domorder.PaymentMethod(req.PaymentMethod),
		ShippingAddress: toAddress(req.ShippingAddress),
	}
	if req.BillingAddress != nil {
		billing := toAddress(*req.BillingAddress)
		in.BillingAddress = &billing
	}

	result, err := a.checkoutSvc.Checkout(r.Context(), user.UserID, in)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapCheckoutResult(result))
}

func (a *API) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req verifyPaymentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.checkoutSvc.VerifyPayment(r.Context(), user.UserID, checkoutuc.VerifyInput{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCheckoutResult(result))
}
