package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrLockUnavailable is wrapped by slot lock gateways when the scheduling
// authority rejects a call or does not answer in time.
var ErrLockUnavailable = errors.New("slot lock unavailable")

// ISlotLockGateway abstracts the external scheduling authority.
//
// Release must treat an already released or expired reference as success.
// ConfirmBooked and ConfirmReleased must succeed when repeated for the same
// booking, since a redelivered callback can notify twice.
type ISlotLockGateway interface {
	Acquire(ctx context.Context, courtID, slotID, bookingID int64, ttl time.Duration) (lockRef string, err error)
	Release(ctx context.Context, lockRef string) error
	ConfirmBooked(ctx context.Context, courtID, slotID, bookingID int64) error
	ConfirmReleased(ctx context.Context, courtID, slotID, bookingID int64) error
}
