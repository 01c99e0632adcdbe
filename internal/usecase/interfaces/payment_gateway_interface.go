package interfaces

import (
	"context"
	"errors"
)

// ErrPaymentRejected is wrapped by payment gateways when the processor refuses
// the checkout or the call cannot complete.
var ErrPaymentRejected = errors.New("payment processor rejected checkout")

// CheckoutRequest is what the booking service sends to a payment processor.
// Amount always comes from the stored booking estimate.
type CheckoutRequest struct {
	BookingID int64
	Amount    float64
	Method    string
	Coupon    string
}

// CheckoutResult carries the processor's payment id and its provisional status.
type CheckoutResult struct {
	PaymentID string
	Status    string
}

// IPaymentGateway abstracts external payment processors (HTTP checkout service, Mercado Pago).
type IPaymentGateway interface {
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error)
}
