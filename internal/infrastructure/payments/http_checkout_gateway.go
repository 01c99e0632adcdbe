package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"sports_booking/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const DefaultCheckoutTimeout = 15 * time.Second

var tracer = otel.Tracer("sports_booking/internal/infrastructure/payments")

type checkoutRequestBody struct {
	BookingID int64   `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Coupon    string  `json:"coupon,omitempty"`
}

type checkoutResponseBody struct {
	PaymentID json.RawMessage `json:"payment_id"`
	Status    string          `json:"status"`
}

// HTTPCheckoutGateway talks to the payment processor's checkout endpoint:
// POST {baseURL}/checkout.
type HTTPCheckoutGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

var _ interfaces.IPaymentGateway = (*HTTPCheckoutGateway)(nil)

func NewHTTPCheckoutGateway(baseURL string, timeout time.Duration) *HTTPCheckoutGateway {
	if timeout <= 0 {
		timeout = DefaultCheckoutTimeout
	}
	return &HTTPCheckoutGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (g *HTTPCheckoutGateway) Checkout(ctx context.Context, req interfaces.CheckoutRequest) (_ interfaces.CheckoutResult, err error) {
	ctx, span := tracer.Start(ctx, "payment.http.checkout")
	span.SetAttributes(attribute.Int64("booking.id", req.BookingID), attribute.Float64("payment.amount", req.Amount))
	defer func() { endSpan(span, err) }()

	log.Printf("[payment][gateway] checkout start booking_id=%d method=%s amount=%.2f", req.BookingID, req.Method, req.Amount)

	payload, err := json.Marshal(checkoutRequestBody{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Method:    req.Method,
		Coupon:    req.Coupon,
	})
	if err != nil {
		return interfaces.CheckoutResult{}, err
	}

	// Detached from the caller's cancellation; only the fixed timeout applies.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, g.baseURL+"/checkout", bytes.NewReader(payload))
	if err != nil {
		return interfaces.CheckoutResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Printf("[payment][gateway] checkout call failed booking_id=%d err=%v", req.BookingID, err)
		return interfaces.CheckoutResult{}, fmt.Errorf("%w: %w", interfaces.ErrPaymentRejected, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[payment][gateway] checkout rejected booking_id=%d http_status=%d body=%s", req.BookingID, resp.StatusCode, truncate(body, 200))
		return interfaces.CheckoutResult{}, fmt.Errorf("%w: processor answered %d", interfaces.ErrPaymentRejected, resp.StatusCode)
	}

	var out checkoutResponseBody
	if err := json.Unmarshal(body, &out); err != nil {
		log.Printf("[payment][gateway] checkout response invalid booking_id=%d err=%v", req.BookingID, err)
		return interfaces.CheckoutResult{}, fmt.Errorf("%w: invalid response: %w", interfaces.ErrPaymentRejected, err)
	}
	paymentID := rawID(out.PaymentID)
	if paymentID == "" {
		return interfaces.CheckoutResult{}, fmt.Errorf("%w: response without payment_id", interfaces.ErrPaymentRejected)
	}

	status := strings.ToUpper(strings.TrimSpace(out.Status))
	log.Printf("[payment][gateway] checkout success booking_id=%d payment_id=%s provider_status=%s", req.BookingID, paymentID, status)
	return interfaces.CheckoutResult{PaymentID: paymentID, Status: status}, nil
}

// rawID accepts both string and numeric payment ids.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
