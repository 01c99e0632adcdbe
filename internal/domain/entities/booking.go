package entities

import (
	"errors"
	"time"
)

// ErrStatusConflict is returned by stores when a conditional status write
// finds a status other than the one the caller read.
var ErrStatusConflict = errors.New("booking status changed concurrently")

// ErrPaidTotalAlreadySet is returned by stores when paid_total was already recorded.
var ErrPaidTotalAlreadySet = errors.New("booking paid total already set")

// BookingStatus is the closed set of booking states.
//
// Allowed moves:
//   - CREATED -> PENDING_PAYMENT | CANCELLED
//   - PENDING_PAYMENT -> CONFIRMED | CANCELLED
//
// CONFIRMED and CANCELLED are terminal.
type BookingStatus string

const (
	BookingStatusCreated        BookingStatus = "CREATED"
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusCreated:        {BookingStatusPendingPayment, BookingStatusCancelled},
	BookingStatusPendingPayment: {BookingStatusConfirmed, BookingStatusCancelled},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusCreated, BookingStatusPendingPayment, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

// HoldsLock reports whether a booking in this status owns a slot lock.
func (s BookingStatus) HoldsLock() bool {
	return s == BookingStatusCreated || s == BookingStatusPendingPayment
}

// CanTransitionTo checks the transition table. Self-transitions are not moves.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BookingExtra is one extra line of a booking, fixed at creation.
type BookingExtra struct {
	Type      string  `json:"type"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

// Booking is a court slot reservation.
//
// Storage model:
//   - bookings: id, court_id, slot_id, status, estimate_total, paid_total,
//     lock_ref, invoice_id, invoice_url, notes, created_at, updated_at
//   - booking_extras: booking_id, type, qty, price (one-to-many)
//
// LockRef is non-empty only while Status.HoldsLock(). PaidTotal is nil until
// an approved payment is reconciled.
type Booking struct {
	ID            int64          `json:"id"`
	CourtID       int64          `json:"court_id"`
	SlotID        int64          `json:"slot_id"`
	Status        BookingStatus  `json:"status"`
	Extras        []BookingExtra `json:"extras"`
	EstimateTotal float64        `json:"estimate_total"`
	PaidTotal     *float64       `json:"paid_total,omitempty"`
	LockRef       string         `json:"lock_ref,omitempty"`
	InvoiceID     string         `json:"invoice_id,omitempty"`
	InvoiceURL    string         `json:"invoice_url,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Exists follows the repository convention of returning a zero value for a miss.
func (b Booking) Exists() bool {
	return b.ID != 0
}
