package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"sports_booking/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.opentelemetry.io/otel/attribute"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// MercadoPagoGateway charges bookings through the Mercado Pago payments API.
// The booking id travels as external_reference so the webhook can be matched
// back to the booking.
type MercadoPagoGateway struct {
	client     payment.Client
	mockMode   bool
	payerEmail string
	timeout    time.Duration
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken, payerEmail string, timeout time.Duration, mock bool) (*MercadoPagoGateway, error) {
	if timeout <= 0 {
		timeout = DefaultCheckoutTimeout
	}
	if mock {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, timeout: timeout}, nil
	}

	if accessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg), payerEmail: payerEmail, timeout: timeout}, nil
}

func (g *MercadoPagoGateway) Checkout(ctx context.Context, req interfaces.CheckoutRequest) (_ interfaces.CheckoutResult, err error) {
	ctx, span := tracer.Start(ctx, "payment.mercadopago.checkout")
	span.SetAttributes(attribute.Int64("booking.id", req.BookingID), attribute.Float64("payment.amount", req.Amount))
	defer func() { endSpan(span, err) }()

	if g != nil && g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Printf("[payment][gateway] mock checkout success booking_id=%d provider_payment_id=%s amount=%.2f", req.BookingID, id, req.Amount)
		return interfaces.CheckoutResult{PaymentID: id, Status: "PENDING"}, nil
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.CheckoutResult{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[payment][gateway] checkout start booking_id=%d method=%s amount=%.2f", req.BookingID, req.Method, req.Amount)

	mpReq, err := buildPaymentRequest(req, g.payerEmail)
	if err != nil {
		log.Printf("[payment][gateway] request build failed booking_id=%d err=%v", req.BookingID, err)
		return interfaces.CheckoutResult{}, err
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	resp, err := g.client.Create(callCtx, mpReq)
	if err != nil {
		log.Printf("[payment][gateway] sdk create failed booking_id=%d err=%v", req.BookingID, err)
		return interfaces.CheckoutResult{}, fmt.Errorf("%w: %w", interfaces.ErrPaymentRejected, err)
	}

	status := normalizeMercadoPagoStatus(resp.Status)
	log.Printf("[payment][gateway] checkout success booking_id=%d provider_payment_id=%d provider_status=%s", req.BookingID, resp.ID, resp.Status)
	return interfaces.CheckoutResult{PaymentID: fmt.Sprintf("%d", resp.ID), Status: status}, nil
}

// buildPaymentRequest goes through JSON so only the wire field names of the
// SDK request are relied on.
func buildPaymentRequest(req interfaces.CheckoutRequest, payerEmail string) (payment.Request, error) {
	body := map[string]any{
		"transaction_amount": req.Amount,
		"payment_method_id":  req.Method,
		"external_reference": strconv.FormatInt(req.BookingID, 10),
		"description":        fmt.Sprintf("Court booking #%d", req.BookingID),
		"installments":       1,
	}
	if req.Coupon != "" {
		body["coupon_code"] = req.Coupon
	}
	if payerEmail != "" {
		body["payer"] = map[string]any{"email": payerEmail}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return payment.Request{}, err
	}
	var out payment.Request
	if err := json.Unmarshal(raw, &out); err != nil {
		return payment.Request{}, err
	}
	return out, nil
}

// normalizeMercadoPagoStatus maps provider statuses onto the callback vocabulary.
func normalizeMercadoPagoStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "authorized":
		return "APPROVED"
	case "rejected", "cancelled", "refunded", "charged_back":
		return "DECLINED"
	case "":
		return "PENDING"
	default:
		return strings.ToUpper(strings.TrimSpace(s))
	}
}
