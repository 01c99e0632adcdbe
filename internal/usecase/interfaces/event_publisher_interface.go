package interfaces

import "context"

// Routing keys for booking lifecycle events.
const (
	EventBookingCreated         = "booking.created"
	EventBookingCheckoutStarted = "booking.checkout_started"
	EventBookingConfirmed       = "booking.confirmed"
	EventBookingCancelled       = "booking.cancelled"
)

// IEventPublisher publishes booking lifecycle events. Delivery is best effort.
type IEventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
