package request

import (
	"encoding/json"
	"strings"
)

// CreateBookingRequest binds from a JSON body or from query/form parameters.
// Extras may repeat (extras=ball&extras=vest) or be comma separated.
type CreateBookingRequest struct {
	CourtID int64    `json:"court_id" form:"court_id" binding:"required,gt=0"`
	SlotID  int64    `json:"slot_id" form:"slot_id" binding:"required,gt=0"`
	Extras  []string `json:"extras" form:"extras"`
	Notes   string   `json:"notes" form:"notes" binding:"max=500"`
}

func (r CreateBookingRequest) ResolveExtras() []string {
	return splitExtras(r.Extras)
}

type CheckoutRequest struct {
	Method string `json:"method" form:"method" binding:"required"`
	Coupon string `json:"coupon" form:"coupon"`
}

type QuoteRequest struct {
	CourtID int64    `form:"court_id" binding:"required,gt=0"`
	SlotID  int64    `form:"slot_id" binding:"required,gt=0"`
	Extras  []string `form:"extras"`
}

func (r QuoteRequest) ResolveExtras() []string {
	return splitExtras(r.Extras)
}

// PaymentCallbackRequest is the payment processor's notification.
type PaymentCallbackRequest struct {
	PaymentID  FlexibleID `json:"payment_id" form:"payment_id"`
	BookingID  int64      `json:"booking_id" form:"booking_id"`
	Status     string     `json:"status" form:"status"`
	PaidAmount *float64   `json:"paid_amount" form:"paid_amount"`
	InvoiceID  FlexibleID `json:"invoice_id" form:"invoice_id"`
	InvoiceURL string     `json:"invoice_url" form:"invoice_url"`
}

// FlexibleID accepts an identifier sent either as a JSON string or number.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

func (f FlexibleID) String() string {
	return string(f)
}

func splitExtras(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			if tag := strings.ToLower(strings.TrimSpace(part)); tag != "" {
				out = append(out, tag)
			}
		}
	}
	return out
}
