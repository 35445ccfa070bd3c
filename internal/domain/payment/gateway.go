package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// IntentRequest asks the gateway to open a pending-payment record. Amounts
// are in minor currency units (paise for INR).
type IntentRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Metadata    map[string]string
}

// Intent correlates an order with the gateway-side pending payment.
type Intent struct {
	ID          string
	AmountMinor int64
	Currency    string
}

// Gateway is the bridge to the third-party payment service. Implementations
// are constructed explicitly and injected; there is no package-level client.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// Signature computes the HMAC-SHA256 the gateway signs its callbacks with:
// hex(HMAC(secret, "<gatewayOrderID>|<paymentID>")).
func Signature(gatewayOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the gateway-supplied signature in constant time.
func VerifySignature(gatewayOrderID, paymentID, signature, secret string) bool {
	expected := Signature(gatewayOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
