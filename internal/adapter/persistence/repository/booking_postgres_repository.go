package repository

import (
	"context"
	"errors"
	"fmt"

	"sports_booking/internal/domain/entities"
	"sports_booking/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, court_id, slot_id, status, estimate_total, paid_total, lock_ref, invoice_id, invoice_url, notes, created_at, updated_at`

// BookingPostgresRepository persists bookings in the bookings and
// booking_extras tables created by the embedded migrations.
type BookingPostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.IBookingRepository = (*BookingPostgresRepository)(nil)

func NewBookingPostgresRepository(pool *pgxpool.Pool) *BookingPostgresRepository {
	return &BookingPostgresRepository{pool: pool}
}

func (r *BookingPostgresRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return entities.Booking{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO bookings (court_id, slot_id, status, estimate_total, lock_ref, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+bookingColumns,
		b.CourtID, b.SlotID, string(b.Status), b.EstimateTotal, b.LockRef, b.Notes,
	)
	created, err := scanBooking(row)
	if err != nil {
		return entities.Booking{}, fmt.Errorf("insert booking: %w", err)
	}

	for i, e := range b.Extras {
		if _, err := tx.Exec(ctx,
			`INSERT INTO booking_extras (booking_id, line, type, qty, price) VALUES ($1, $2, $3, $4, $5)`,
			created.ID, i+1, e.Type, e.Quantity, e.UnitPrice,
		); err != nil {
			return entities.Booking{}, fmt.Errorf("insert booking extra: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return entities.Booking{}, err
	}
	created.Extras = cloneExtras(b.Extras)
	return created, nil
}

func (r *BookingPostgresRepository) GetByID(ctx context.Context, id int64) (entities.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Booking{}, nil
		}
		return entities.Booking{}, err
	}
	return r.withExtras(ctx, b)
}

func (r *BookingPostgresRepository) List(ctx context.Context) ([]entities.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []entities.Booking
	index := make(map[int64]int)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		index[b.ID] = len(bookings)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	extras, err := r.pool.Query(ctx, `SELECT booking_id, type, qty, price FROM booking_extras ORDER BY booking_id, line`)
	if err != nil {
		return nil, err
	}
	defer extras.Close()
	for extras.Next() {
		var (
			bookingID int64
			e         entities.BookingExtra
		)
		if err := extras.Scan(&bookingID, &e.Type, &e.Quantity, &e.UnitPrice); err != nil {
			return nil, err
		}
		if i, ok := index[bookingID]; ok {
			bookings[i].Extras = append(bookings[i].Extras, e)
		}
	}
	if err := extras.Err(); err != nil {
		return nil, err
	}

	if bookings == nil {
		bookings = []entities.Booking{}
	}
	for i := range bookings {
		if bookings[i].Extras == nil {
			bookings[i].Extras = []entities.BookingExtra{}
		}
	}
	return bookings, nil
}

func (r *BookingPostgresRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.BookingStatus) (entities.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `
		UPDATE bookings
		SET status=$3,
			lock_ref = CASE WHEN $4 THEN '' ELSE lock_ref END,
			updated_at=now()
		WHERE id=$1 AND status=$2
		RETURNING `+bookingColumns,
		id, string(from), string(to), to.IsTerminal(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Booking{}, entities.ErrStatusConflict
		}
		return entities.Booking{}, err
	}
	return r.withExtras(ctx, b)
}

const setLockRefSQL = `UPDATE bookings SET lock_ref=$2, updated_at=now() WHERE id=$1 AND status=$3 RETURNING ` + bookingColumns

func (r *BookingPostgresRepository) SetLockRef(ctx context.Context, id int64, lockRef string) (entities.Booking, error) {
	b, err := r.updateReturning(ctx, setLockRefSQL, id, lockRef, string(entities.BookingStatusCreated))
	if err == nil && !b.Exists() {
		return entities.Booking{}, entities.ErrStatusConflict
	}
	return b, err
}

func (r *BookingPostgresRepository) SetPaidTotal(ctx context.Context, id int64, amount float64) (entities.Booking, error) {
	b, err := r.updateReturning(ctx,
		`UPDATE bookings SET paid_total=$2, updated_at=now() WHERE id=$1 AND paid_total IS NULL RETURNING `+bookingColumns,
		id, amount,
	)
	if err != nil || b.Exists() {
		return b, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
		return entities.Booking{}, err
	}
	if exists {
		return entities.Booking{}, entities.ErrPaidTotalAlreadySet
	}
	return entities.Booking{}, nil
}

func (r *BookingPostgresRepository) SetInvoice(ctx context.Context, id int64, invoiceID, invoiceURL string) (entities.Booking, error) {
	return r.updateReturning(ctx,
		`UPDATE bookings SET invoice_id=$2, invoice_url=$3, updated_at=now() WHERE id=$1 RETURNING `+bookingColumns,
		id, invoiceID, invoiceURL,
	)
}

func (r *BookingPostgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	return err
}

func (r *BookingPostgresRepository) updateReturning(ctx context.Context, sql string, args ...any) (entities.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Booking{}, nil
		}
		return entities.Booking{}, err
	}
	return r.withExtras(ctx, b)
}

func (r *BookingPostgresRepository) withExtras(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT type, qty, price FROM booking_extras WHERE booking_id=$1 ORDER BY line`, b.ID)
	if err != nil {
		return entities.Booking{}, err
	}
	defer rows.Close()

	b.Extras = []entities.BookingExtra{}
	for rows.Next() {
		var e entities.BookingExtra
		if err := rows.Scan(&e.Type, &e.Quantity, &e.UnitPrice); err != nil {
			return entities.Booking{}, err
		}
		b.Extras = append(b.Extras, e)
	}
	return b, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (entities.Booking, error) {
	var (
		b      entities.Booking
		status string
	)
	err := row.Scan(
		&b.ID, &b.CourtID, &b.SlotID, &status, &b.EstimateTotal, &b.PaidTotal,
		&b.LockRef, &b.InvoiceID, &b.InvoiceURL, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return entities.Booking{}, err
	}
	b.Status = entities.BookingStatus(status)
	return b, nil
}
