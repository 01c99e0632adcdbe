package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sports_booking/internal/domain/entities"
	"sports_booking/internal/usecase/interfaces"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrInvalidBookingID        = errors.New("invalid booking id")
	ErrInvalidBookingInput     = errors.New("invalid booking input")
	ErrInvalidStateTransition  = errors.New("invalid booking state transition")
	ErrSlotUnavailable         = errors.New("slot unavailable")
	ErrPaymentInitiationFailed = errors.New("payment initiation failed")
)

// Payment callback statuses with a dedicated branch. Anything else is an
// intermediate update.
const (
	PaymentStatusApproved = "APPROVED"
	PaymentStatusDeclined = "DECLINED"
)

const (
	DefaultLockTTL = 300 * time.Second

	maxTransitionAttempts = 3
)

var tracer = otel.Tracer("sports_booking/internal/usecase")

type CreateBookingInput struct {
	CourtID int64
	SlotID  int64
	Extras  []string
	Notes   string
}

type CreateBookingResult struct {
	Booking entities.Booking
	Quote   entities.Quote
}

type CheckoutInput struct {
	BookingID int64
	Method    string
	Coupon    string
}

type CheckoutResult struct {
	PaymentID string
	Status    string
	Booking   entities.Booking
}

// PaymentCallbackInput is the processor's notification. PaidAmount is nil
// when the processor did not report one.
type PaymentCallbackInput struct {
	PaymentID  string
	BookingID  int64
	Status     string
	PaidAmount *float64
	InvoiceID  string
	InvoiceURL string
}

// ReconcileResult tells the processor whether the callback was applied or
// ignored because the booking is unknown.
type ReconcileResult struct {
	Ignored bool
	Booking entities.Booking
}

// IBookingUseCase drives the booking lifecycle against the store, the slot
// lock authority and the payment processor.
//
// Lifecycle:
//   - Create: quote, persist CREATED, acquire lock, attach lock (saga with compensation)
//   - Checkout: charge the stored estimate, move to PENDING_PAYMENT
//   - ReconcilePayment: apply the processor's final verdict (at-least-once, any order)
//   - Cancel: move to CANCELLED and free the slot lock
type IBookingUseCase interface {
	Create(ctx context.Context, in CreateBookingInput) (CreateBookingResult, error)
	GetByID(ctx context.Context, id int64) (entities.Booking, error)
	List(ctx context.Context) ([]entities.Booking, error)
	Cancel(ctx context.Context, id int64) (entities.Booking, error)
	Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error)
	ReconcilePayment(ctx context.Context, in PaymentCallbackInput) (ReconcileResult, error)
}

type BookingUseCase struct {
	repo     interfaces.IBookingRepository
	quotes   IQuoteUseCase
	locks    interfaces.ISlotLockGateway
	payments interfaces.IPaymentGateway
	events   interfaces.IEventPublisher
	lockTTL  time.Duration
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

func NewBookingUseCase(
	repo interfaces.IBookingRepository,
	quotes IQuoteUseCase,
	locks interfaces.ISlotLockGateway,
	payments interfaces.IPaymentGateway,
	events interfaces.IEventPublisher,
	lockTTL time.Duration,
) *BookingUseCase {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &BookingUseCase{
		repo:     repo,
		quotes:   quotes,
		locks:    locks,
		payments: payments,
		events:   events,
		lockTTL:  lockTTL,
	}
}

func (u *BookingUseCase) Create(ctx context.Context, in CreateBookingInput) (_ CreateBookingResult, err error) {
	ctx, span := tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.Int64("court.id", in.CourtID),
		attribute.Int64("slot.id", in.SlotID),
	))
	defer func() { endSpan(span, err) }()

	log.Printf("[booking][usecase] create start court_id=%d slot_id=%d extras=%d", in.CourtID, in.SlotID, len(in.Extras))
	if in.CourtID <= 0 || in.SlotID <= 0 {
		log.Printf("[booking][usecase] invalid create input court_id=%d slot_id=%d", in.CourtID, in.SlotID)
		return CreateBookingResult{}, fmt.Errorf("%w: court_id and slot_id must be positive", ErrInvalidBookingInput)
	}

	quote := u.quotes.Calculate(in.CourtID, in.SlotID, in.Extras)

	var (
		booking entities.Booking
		lockRef string
		// set when the booking moved on before its lock was attached; the
		// row then belongs to whoever moved it and is kept.
		superseded bool
	)
	s := newSaga("create-booking",
		sagaStep{
			name: "persist-booking",
			action: func(ctx context.Context) error {
				created, err := u.repo.Create(ctx, entities.Booking{
					CourtID:       in.CourtID,
					SlotID:        in.SlotID,
					Status:        entities.BookingStatusCreated,
					Extras:        quote.BookingExtras(),
					EstimateTotal: quote.Total,
					Notes:         strings.TrimSpace(in.Notes),
				})
				if err != nil {
					return fmt.Errorf("persist booking: %w", err)
				}
				booking = created
				return nil
			},
			compensate: func(ctx context.Context) error {
				if superseded {
					return nil
				}
				return u.repo.Delete(ctx, booking.ID)
			},
		},
		sagaStep{
			name: "acquire-lock",
			action: func(ctx context.Context) error {
				ref, err := u.locks.Acquire(ctx, in.CourtID, in.SlotID, booking.ID, u.lockTTL)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
				}
				lockRef = ref
				return nil
			},
			compensate: func(ctx context.Context) error {
				return u.locks.Release(ctx, lockRef)
			},
		},
		sagaStep{
			name: "attach-lock",
			action: func(ctx context.Context) error {
				updated, err := u.repo.SetLockRef(ctx, booking.ID, lockRef)
				if errors.Is(err, entities.ErrStatusConflict) {
					superseded = true
					u.abandon(ctx, booking.ID)
					return fmt.Errorf("%w: booking %d changed while its slot was being locked", ErrInvalidStateTransition, booking.ID)
				}
				if err != nil {
					return fmt.Errorf("attach lock reference: %w", err)
				}
				booking = updated
				return nil
			},
		},
	)
	if err := s.run(ctx); err != nil {
		log.Printf("[booking][usecase] create failed court_id=%d slot_id=%d err=%v", in.CourtID, in.SlotID, err)
		return CreateBookingResult{}, err
	}

	u.publish(ctx, interfaces.EventBookingCreated, map[string]any{
		"booking_id": booking.ID, "court_id": booking.CourtID, "slot_id": booking.SlotID,
		"estimate_total": booking.EstimateTotal,
	})
	log.Printf("[booking][usecase] create success booking_id=%d lock_ref=%s estimate_total=%.2f", booking.ID, booking.LockRef, booking.EstimateTotal)
	return CreateBookingResult{Booking: booking, Quote: quote}, nil
}

func (u *BookingUseCase) GetByID(ctx context.Context, id int64) (entities.Booking, error) {
	return u.load(ctx, id)
}

func (u *BookingUseCase) List(ctx context.Context) ([]entities.Booking, error) {
	return u.repo.List(ctx)
}

// Cancel is idempotent for bookings that are already CANCELLED. The status
// write happens first; a lock release failure is only logged because the
// lock expires on its own.
func (u *BookingUseCase) Cancel(ctx context.Context, id int64) (_ entities.Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.cancel", trace.WithAttributes(attribute.Int64("booking.id", id)))
	defer func() { endSpan(span, err) }()

	log.Printf("[booking][usecase] cancel start booking_id=%d", id)
	b, err := u.load(ctx, id)
	if err != nil {
		return entities.Booking{}, err
	}

	switch b.Status {
	case entities.BookingStatusConfirmed:
		log.Printf("[booking][usecase] cancel rejected booking_id=%d status=%s", id, b.Status)
		return b, fmt.Errorf("%w: cannot cancel confirmed booking", ErrInvalidStateTransition)
	case entities.BookingStatusCancelled:
		log.Printf("[booking][usecase] cancel no-op booking_id=%d already cancelled", id)
		return b, nil
	}

	lockRef := b.LockRef
	cancelled, err := u.transition(ctx, b, entities.BookingStatusCancelled)
	if err != nil {
		log.Printf("[booking][usecase] cancel failed booking_id=%d err=%v", id, err)
		return cancelled, err
	}
	u.releaseLock(ctx, cancelled.ID, lockRef)

	u.publish(ctx, interfaces.EventBookingCancelled, map[string]any{"booking_id": cancelled.ID, "reason": "user"})
	log.Printf("[booking][usecase] cancel success booking_id=%d", id)
	return cancelled, nil
}

// Checkout charges the stored estimate, never a caller supplied amount.
func (u *BookingUseCase) Checkout(ctx context.Context, in CheckoutInput) (_ CheckoutResult, err error) {
	ctx, span := tracer.Start(ctx, "booking.checkout", trace.WithAttributes(attribute.Int64("booking.id", in.BookingID)))
	defer func() { endSpan(span, err) }()

	method := strings.TrimSpace(in.Method)
	log.Printf("[booking][usecase] checkout start booking_id=%d method=%s", in.BookingID, method)
	if method == "" {
		return CheckoutResult{}, fmt.Errorf("%w: payment method is required", ErrInvalidBookingInput)
	}

	b, err := u.load(ctx, in.BookingID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if b.Status.IsTerminal() {
		log.Printf("[booking][usecase] checkout rejected booking_id=%d status=%s", b.ID, b.Status)
		return CheckoutResult{}, fmt.Errorf("%w: booking is %s", ErrInvalidStateTransition, b.Status)
	}

	res, err := u.payments.Checkout(ctx, interfaces.CheckoutRequest{
		BookingID: b.ID,
		Amount:    b.EstimateTotal,
		Method:    method,
		Coupon:    strings.TrimSpace(in.Coupon),
	})
	if err != nil {
		log.Printf("[booking][usecase] payment gateway failed booking_id=%d err=%v", b.ID, err)
		return CheckoutResult{}, fmt.Errorf("%w: %w", ErrPaymentInitiationFailed, err)
	}
	log.Printf("[booking][usecase] payment initiated booking_id=%d payment_id=%s provider_status=%s", b.ID, res.PaymentID, res.Status)

	// The provisional status is informational; only the callback settles the booking.
	updated, err := u.transition(ctx, b, entities.BookingStatusPendingPayment)
	if err != nil {
		if !errors.Is(err, ErrInvalidStateTransition) {
			return CheckoutResult{}, err
		}
		log.Printf("[booking][usecase] checkout kept settled status booking_id=%d status=%s", updated.ID, updated.Status)
	} else {
		u.publish(ctx, interfaces.EventBookingCheckoutStarted, map[string]any{
			"booking_id": updated.ID, "payment_id": res.PaymentID, "amount": updated.EstimateTotal, "method": method,
		})
	}

	return CheckoutResult{PaymentID: res.PaymentID, Status: res.Status, Booking: updated}, nil
}

// ReconcilePayment applies a processor callback. Unknown bookings are
// acknowledged as ignored so the processor stops retrying.
func (u *BookingUseCase) ReconcilePayment(ctx context.Context, in PaymentCallbackInput) (_ ReconcileResult, err error) {
	ctx, span := tracer.Start(ctx, "booking.reconcile_payment", trace.WithAttributes(
		attribute.Int64("booking.id", in.BookingID),
		attribute.String("payment.id", in.PaymentID),
		attribute.String("payment.status", in.Status),
	))
	defer func() { endSpan(span, err) }()

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	log.Printf("[booking][usecase] reconcile start booking_id=%d payment_id=%s status=%s", in.BookingID, in.PaymentID, status)

	if in.BookingID <= 0 {
		log.Printf("[booking][usecase] reconcile ignored booking_id=%d (invalid id)", in.BookingID)
		return ReconcileResult{Ignored: true}, nil
	}
	b, err := u.repo.GetByID(ctx, in.BookingID)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("load booking %d: %w", in.BookingID, err)
	}
	if !b.Exists() {
		log.Printf("[booking][usecase] reconcile ignored booking_id=%d (unknown booking)", in.BookingID)
		return ReconcileResult{Ignored: true}, nil
	}

	switch status {
	case PaymentStatusApproved:
		b, err = u.approve(ctx, b, in.PaidAmount)
	case PaymentStatusDeclined:
		b, err = u.decline(ctx, b)
	default:
		b, err = u.markPending(ctx, b)
	}
	if err != nil {
		log.Printf("[booking][usecase] reconcile failed booking_id=%d status=%s err=%v", in.BookingID, status, err)
		return ReconcileResult{}, err
	}

	if strings.TrimSpace(in.InvoiceID) != "" {
		b, err = u.repo.SetInvoice(ctx, b.ID, strings.TrimSpace(in.InvoiceID), strings.TrimSpace(in.InvoiceURL))
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("store invoice: %w", err)
		}
	}

	log.Printf("[booking][usecase] reconcile success booking_id=%d status=%s", b.ID, b.Status)
	return ReconcileResult{Booking: b}, nil
}

// approve confirms the slot with the authority before writing CONFIRMED, so
// a retried callback either finds CONFIRMED (and skips the authority) or
// repeats both steps.
func (u *BookingUseCase) approve(ctx context.Context, b entities.Booking, paid *float64) (entities.Booking, error) {
	if b.Status == entities.BookingStatusCreated {
		// Callback overtook the local checkout write.
		next, err := u.transition(ctx, b, entities.BookingStatusPendingPayment)
		if err != nil && !errors.Is(err, ErrInvalidStateTransition) {
			return b, err
		}
		b = next
	}

	switch b.Status {
	case entities.BookingStatusConfirmed:
		log.Printf("[booking][usecase] approval already applied booking_id=%d", b.ID)
	case entities.BookingStatusCancelled:
		log.Printf("[booking][usecase] approval for cancelled booking booking_id=%d; refund required", b.ID)
	case entities.BookingStatusPendingPayment:
		if err := u.locks.ConfirmBooked(ctx, b.CourtID, b.SlotID, b.ID); err != nil {
			log.Printf("[booking][usecase] confirm booked failed booking_id=%d err=%v", b.ID, err)
			return b, fmt.Errorf("confirm booked slot: %w", err)
		}
		confirmed, err := u.transition(ctx, b, entities.BookingStatusConfirmed)
		if err != nil {
			if !errors.Is(err, ErrInvalidStateTransition) {
				return b, err
			}
			if confirmed.Status == entities.BookingStatusCancelled {
				u.releaseConfirmedSlot(ctx, confirmed)
			}
			b = confirmed
			break
		}
		b = confirmed
		u.publish(ctx, interfaces.EventBookingConfirmed, map[string]any{"booking_id": b.ID})
	}

	if paid != nil {
		return u.recordPaidTotal(ctx, b, *paid)
	}
	return b, nil
}

func (u *BookingUseCase) decline(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	if b.Status.IsTerminal() {
		log.Printf("[booking][usecase] decline ignored booking_id=%d status=%s", b.ID, b.Status)
		return b, nil
	}

	lockRef := b.LockRef
	cancelled, err := u.transition(ctx, b, entities.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, ErrInvalidStateTransition) {
			log.Printf("[booking][usecase] decline ignored booking_id=%d status=%s", cancelled.ID, cancelled.Status)
			return cancelled, nil
		}
		return b, err
	}
	u.releaseLock(ctx, cancelled.ID, lockRef)
	u.publish(ctx, interfaces.EventBookingCancelled, map[string]any{"booking_id": cancelled.ID, "reason": "payment_declined"})
	return cancelled, nil
}

func (u *BookingUseCase) markPending(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	if b.Status != entities.BookingStatusCreated {
		return b, nil
	}
	next, err := u.transition(ctx, b, entities.BookingStatusPendingPayment)
	if err != nil && errors.Is(err, ErrInvalidStateTransition) {
		return next, nil
	}
	return next, err
}

func (u *BookingUseCase) recordPaidTotal(ctx context.Context, b entities.Booking, amount float64) (entities.Booking, error) {
	if b.PaidTotal != nil {
		if *b.PaidTotal != amount {
			log.Printf("[booking][usecase] paid total kept booking_id=%d stored=%.2f reported=%.2f", b.ID, *b.PaidTotal, amount)
		}
		return b, nil
	}
	updated, err := u.repo.SetPaidTotal(ctx, b.ID, amount)
	if errors.Is(err, entities.ErrPaidTotalAlreadySet) {
		return u.load(ctx, b.ID)
	}
	if err != nil {
		return b, fmt.Errorf("store paid total: %w", err)
	}
	return updated, nil
}

// transition moves b to `to` with a compare-and-set write. After a lost race
// it re-reads and re-checks the transition table. On ErrInvalidStateTransition
// the freshest booking read is returned alongside the error.
func (u *BookingUseCase) transition(ctx context.Context, b entities.Booking, to entities.BookingStatus) (entities.Booking, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		if b.Status == to {
			return b, nil
		}
		if !b.Status.CanTransitionTo(to) {
			return b, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, b.Status, to)
		}

		updated, err := u.repo.UpdateStatus(ctx, b.ID, b.Status, to)
		if err == nil {
			log.Printf("[booking][usecase] status changed booking_id=%d from=%s to=%s", b.ID, b.Status, to)
			return updated, nil
		}
		if !errors.Is(err, entities.ErrStatusConflict) {
			return b, fmt.Errorf("update booking %d status: %w", b.ID, err)
		}

		log.Printf("[booking][usecase] status conflict booking_id=%d expected=%s attempt=%d", b.ID, b.Status, attempt+1)
		fresh, err := u.repo.GetByID(ctx, b.ID)
		if err != nil {
			return b, fmt.Errorf("reload booking %d: %w", b.ID, err)
		}
		if !fresh.Exists() {
			return b, ErrBookingNotFound
		}
		b = fresh
	}
	return b, fmt.Errorf("%w: booking %d kept changing", ErrInvalidStateTransition, b.ID)
}

// abandon cancels a booking whose lock could not be attached so it never
// stays active without a slot. The saga releases the lock itself.
func (u *BookingUseCase) abandon(ctx context.Context, id int64) {
	ctx = context.WithoutCancel(ctx)
	b, err := u.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("[booking][usecase] abandon reload failed booking_id=%d err=%v", id, err)
		return
	}
	if !b.Exists() || b.Status.IsTerminal() {
		return
	}
	if _, err := u.transition(ctx, b, entities.BookingStatusCancelled); err != nil {
		log.Printf("[booking][usecase] abandon failed booking_id=%d err=%v", id, err)
		return
	}
	u.publish(ctx, interfaces.EventBookingCancelled, map[string]any{"booking_id": id, "reason": "lock_not_attached"})
}

func (u *BookingUseCase) releaseLock(ctx context.Context, bookingID int64, lockRef string) {
	if lockRef == "" {
		return
	}
	if err := u.locks.Release(ctx, lockRef); err != nil {
		log.Printf("[booking][usecase] lock release failed booking_id=%d lock_ref=%s err=%v", bookingID, lockRef, err)
		return
	}
	log.Printf("[booking][usecase] lock released booking_id=%d lock_ref=%s", bookingID, lockRef)
}

// releaseConfirmedSlot undoes a confirm_booked whose CONFIRMED write lost to
// a cancellation.
func (u *BookingUseCase) releaseConfirmedSlot(ctx context.Context, b entities.Booking) {
	if err := u.locks.ConfirmReleased(ctx, b.CourtID, b.SlotID, b.ID); err != nil {
		log.Printf("[booking][usecase] confirm released failed booking_id=%d err=%v", b.ID, err)
		return
	}
	log.Printf("[booking][usecase] booked slot released booking_id=%d", b.ID)
}

func (u *BookingUseCase) load(ctx context.Context, id int64) (entities.Booking, error) {
	if id <= 0 {
		return entities.Booking{}, ErrInvalidBookingID
	}
	b, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Booking{}, fmt.Errorf("load booking %d: %w", id, err)
	}
	if !b.Exists() {
		return entities.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (u *BookingUseCase) publish(ctx context.Context, key string, payload map[string]any) {
	if u.events == nil {
		return
	}
	payload["occurred_at"] = time.Now().UTC().Format(time.RFC3339)
	if err := u.events.PublishJSON(ctx, key, payload); err != nil {
		log.Printf("[booking][usecase] publish failed key=%s err=%v", key, err)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
