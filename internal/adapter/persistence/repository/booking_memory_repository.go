package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"sports_booking/internal/domain/entities"
	"sports_booking/internal/usecase/interfaces"
)

// BookingMemoryRepository keeps bookings in process memory. It honours the
// same compare-and-set contract as the durable stores and is used for local
// runs (STORE_DRIVER=memory) and tests.
type BookingMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entities.Booking
	now    func() time.Time
}

var _ interfaces.IBookingRepository = (*BookingMemoryRepository)(nil)

func NewBookingMemoryRepository() *BookingMemoryRepository {
	return &BookingMemoryRepository{
		rows: make(map[int64]entities.Booking),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *BookingMemoryRepository) Create(_ context.Context, b entities.Booking) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now()
	b.ID = r.nextID
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Extras = cloneExtras(b.Extras)
	r.rows[b.ID] = b
	return cloneBooking(b), nil
}

func (r *BookingMemoryRepository) GetByID(_ context.Context, id int64) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.rows[id]
	if !ok {
		return entities.Booking{}, nil
	}
	return cloneBooking(b), nil
}

func (r *BookingMemoryRepository) List(_ context.Context) ([]entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entities.Booking, 0, len(r.rows))
	for _, b := range r.rows {
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BookingMemoryRepository) UpdateStatus(_ context.Context, id int64, from, to entities.BookingStatus) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.rows[id]
	if !ok || b.Status != from {
		return entities.Booking{}, entities.ErrStatusConflict
	}
	b.Status = to
	if to.IsTerminal() {
		b.LockRef = ""
	}
	b.UpdatedAt = r.now()
	r.rows[id] = b
	return cloneBooking(b), nil
}

func (r *BookingMemoryRepository) SetLockRef(_ context.Context, id int64, lockRef string) (entities.Booking, error) {
	b, err := r.mutate(id, func(b *entities.Booking) error {
		if b.Status != entities.BookingStatusCreated {
			return entities.ErrStatusConflict
		}
		b.LockRef = lockRef
		return nil
	})
	if err == nil && !b.Exists() {
		return entities.Booking{}, entities.ErrStatusConflict
	}
	return b, err
}

func (r *BookingMemoryRepository) SetPaidTotal(_ context.Context, id int64, amount float64) (entities.Booking, error) {
	return r.mutate(id, func(b *entities.Booking) error {
		if b.PaidTotal != nil {
			return entities.ErrPaidTotalAlreadySet
		}
		b.PaidTotal = &amount
		return nil
	})
}

func (r *BookingMemoryRepository) SetInvoice(_ context.Context, id int64, invoiceID, invoiceURL string) (entities.Booking, error) {
	return r.mutate(id, func(b *entities.Booking) error {
		b.InvoiceID = invoiceID
		b.InvoiceURL = invoiceURL
		return nil
	})
}

func (r *BookingMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, id)
	return nil
}

func (r *BookingMemoryRepository) mutate(id int64, fn func(b *entities.Booking) error) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.rows[id]
	if !ok {
		return entities.Booking{}, nil
	}
	if err := fn(&b); err != nil {
		return entities.Booking{}, err
	}
	b.UpdatedAt = r.now()
	r.rows[id] = b
	return cloneBooking(b), nil
}

func cloneBooking(b entities.Booking) entities.Booking {
	b.Extras = cloneExtras(b.Extras)
	if b.PaidTotal != nil {
		v := *b.PaidTotal
		b.PaidTotal = &v
	}
	return b
}

func cloneExtras(in []entities.BookingExtra) []entities.BookingExtra {
	if in == nil {
		return []entities.BookingExtra{}
	}
	out := make([]entities.BookingExtra, len(in))
	copy(out, in)
	return out
}
