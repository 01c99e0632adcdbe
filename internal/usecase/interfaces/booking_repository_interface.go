package interfaces

import (
	"context"
	"sports_booking/internal/domain/entities"
)

// IBookingRepository abstracts durable persistence for Booking.
//
// Conventions shared by every implementation:
//   - Create assigns a fresh integer id and stores the booking row and all
//     extras rows atomically.
//   - Reads return a zero Booking (ID == 0) and a nil error on a miss.
//   - UpdateStatus is a compare-and-set on the current status; when the
//     stored status differs from `from` (or the row is gone) it returns
//     entities.ErrStatusConflict.
//     Moving to a terminal status clears the lock reference in the same write.
//   - SetLockRef only writes while the booking is CREATED; otherwise (or when
//     the row is gone) it returns entities.ErrStatusConflict.
//   - SetPaidTotal never overwrites; a second call returns entities.ErrPaidTotalAlreadySet.
//   - Delete exists only to compensate a creation whose lock step failed.
type IBookingRepository interface {
	Create(ctx context.Context, b entities.Booking) (entities.Booking, error)
	GetByID(ctx context.Context, id int64) (entities.Booking, error)
	List(ctx context.Context) ([]entities.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to entities.BookingStatus) (entities.Booking, error)
	SetLockRef(ctx context.Context, id int64, lockRef string) (entities.Booking, error)
	SetPaidTotal(ctx context.Context, id int64, amount float64) (entities.Booking, error)
	SetInvoice(ctx context.Context, id int64, invoiceID, invoiceURL string) (entities.Booking, error)
	Delete(ctx context.Context, id int64) error
}
