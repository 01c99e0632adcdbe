package response

import (
	"sports_booking/internal/domain/entities"
	"sports_booking/internal/usecase"
	"time"
)

type BookingExtraResponse struct {
	Type     string  `json:"type"`
	Quantity int     `json:"qty"`
	Price    float64 `json:"price"`
}

type BookingResponse struct {
	ID            int64                  `json:"id"`
	CourtID       int64                  `json:"court_id"`
	SlotID        int64                  `json:"slot_id"`
	Status        string                 `json:"status"`
	Extras        []BookingExtraResponse `json:"extras"`
	EstimateTotal float64                `json:"estimate_total"`
	PaidTotal     *float64               `json:"paid_total"`
	LockID        *string                `json:"lock_id"`
	InvoiceID     string                 `json:"invoice_id,omitempty"`
	InvoiceURL    string                 `json:"invoice_url,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// CreateBookingResponse keeps the booking id, status and estimate at the top
// level; lock_id is the reference returned by the agenda.
type CreateBookingResponse struct {
	BookingID int64           `json:"booking_id"`
	Status    string          `json:"status"`
	LockID    string          `json:"lock_id"`
	Estimate  QuoteResponse   `json:"estimate"`
	Booking   BookingResponse `json:"booking"`
}

type CheckoutResponse struct {
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
	BookingStatus string `json:"booking_status"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type IgnoredResponse struct {
	Ignored bool `json:"ignored"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func FromBooking(b entities.Booking) BookingResponse {
	extras := make([]BookingExtraResponse, 0, len(b.Extras))
	for _, e := range b.Extras {
		extras = append(extras, BookingExtraResponse{Type: e.Type, Quantity: e.Quantity, Price: e.UnitPrice})
	}
	var lockID *string
	if b.LockRef != "" {
		ref := b.LockRef
		lockID = &ref
	}
	return BookingResponse{
		ID:            b.ID,
		CourtID:       b.CourtID,
		SlotID:        b.SlotID,
		Status:        string(b.Status),
		Extras:        extras,
		EstimateTotal: b.EstimateTotal,
		PaidTotal:     b.PaidTotal,
		LockID:        lockID,
		InvoiceID:     b.InvoiceID,
		InvoiceURL:    b.InvoiceURL,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromBookings(in []entities.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(in))
	for _, b := range in {
		out = append(out, FromBooking(b))
	}
	return out
}

func FromCreateBooking(res usecase.CreateBookingResult) CreateBookingResponse {
	return CreateBookingResponse{
		BookingID: res.Booking.ID,
		Status:    string(res.Booking.Status),
		LockID:    res.Booking.LockRef,
		Estimate:  FromQuote(res.Quote),
		Booking:   FromBooking(res.Booking),
	}
}

func FromCheckout(res usecase.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		PaymentID:     res.PaymentID,
		Status:        res.Status,
		BookingStatus: string(res.Booking.Status),
	}
}
