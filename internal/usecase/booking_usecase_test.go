package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"sports_booking/internal/domain/entities"
	"sports_booking/internal/usecase/interfaces"
	mock_interfaces "sports_booking/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type bookingMocks struct {
	repo   *mock_interfaces.MockIBookingRepository
	locks  *mock_interfaces.MockISlotLockGateway
	pay    *mock_interfaces.MockIPaymentGateway
	events *mock_interfaces.MockIEventPublisher
}

func newBookingUseCaseWithMocks(t *testing.T) (*BookingUseCase, bookingMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := bookingMocks{
		repo:   mock_interfaces.NewMockIBookingRepository(ctrl),
		locks:  mock_interfaces.NewMockISlotLockGateway(ctrl),
		pay:    mock_interfaces.NewMockIPaymentGateway(ctrl),
		events: mock_interfaces.NewMockIEventPublisher(ctrl),
	}
	uc := NewBookingUseCase(m.repo, NewQuoteUseCase(DefaultPriceTable()), m.locks, m.pay, m.events, time.Minute)
	return uc, m
}

func booking(id int64, status entities.BookingStatus) entities.Booking {
	b := entities.Booking{
		ID:            id,
		CourtID:       1,
		SlotID:        2,
		Status:        status,
		EstimateTotal: 63,
		Extras:        []entities.BookingExtra{{Type: "ball", UnitPrice: 5, Quantity: 1}, {Type: "vest", UnitPrice: 8, Quantity: 1}},
	}
	if status.HoldsLock() {
		b.LockRef = "1-2-7"
	}
	return b
}

func withStatus(b entities.Booking, status entities.BookingStatus) entities.Booking {
	b.Status = status
	if status.IsTerminal() {
		b.LockRef = ""
	}
	return b
}

func amount(v float64) *float64 { return &v }

func TestBookingUseCase_Create(t *testing.T) {
	t.Run("persists quote and attaches lock", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		var stored entities.Booking

		gomock.InOrder(
			m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, b entities.Booking) (entities.Booking, error) {
					stored = b
					b.ID = 7
					return b, nil
				}),
			m.locks.EXPECT().Acquire(gomock.Any(), int64(1), int64(2), int64(7), time.Minute).Return("1-2-7", nil),
			m.repo.EXPECT().SetLockRef(gomock.Any(), int64(7), "1-2-7").Return(booking(7, entities.BookingStatusCreated), nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCreated, gomock.Any()).Return(nil),
		)

		res, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 1, SlotID: 2, Extras: []string{"ball", "vest"}, Notes: " evening game "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Status != entities.BookingStatusCreated || stored.EstimateTotal != 63 || stored.Notes != "evening game" {
			t.Fatalf("unexpected stored booking: %+v", stored)
		}
		if len(stored.Extras) != 2 {
			t.Fatalf("expected 2 extras stored, got %+v", stored.Extras)
		}
		if res.Booking.LockRef != "1-2-7" || res.Quote.Total != 63 {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("rejects non positive ids", func(t *testing.T) {
		uc, _ := newBookingUseCaseWithMocks(t)
		_, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 0, SlotID: 2})
		if !errors.Is(err, ErrInvalidBookingInput) {
			t.Fatalf("expected ErrInvalidBookingInput, got %v", err)
		}
	})

	t.Run("store failure stops before locking", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Booking{}, errors.New("db"))

		_, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 1, SlotID: 2})
		if err == nil || errors.Is(err, ErrSlotUnavailable) {
			t.Fatalf("expected store error, got %v", err)
		}
	})

	t.Run("lock unavailable removes the booking", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(booking(7, entities.BookingStatusCreated), nil)
		m.locks.EXPECT().Acquire(gomock.Any(), int64(1), int64(2), int64(7), gomock.Any()).
			Return("", interfaces.ErrLockUnavailable)
		m.repo.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)

		_, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 1, SlotID: 2})
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Fatalf("expected ErrSlotUnavailable, got %v", err)
		}
		if !errors.Is(err, interfaces.ErrLockUnavailable) {
			t.Fatalf("expected gateway cause to be kept, got %v", err)
		}
	})

	t.Run("attach failure releases lock then deletes", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(booking(7, entities.BookingStatusCreated), nil)
		m.locks.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("1-2-7", nil)
		m.repo.EXPECT().SetLockRef(gomock.Any(), int64(7), "1-2-7").Return(entities.Booking{}, errors.New("db"))
		gomock.InOrder(
			m.locks.EXPECT().Release(gomock.Any(), "1-2-7").Return(nil),
			m.repo.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil),
		)

		if _, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 1, SlotID: 2}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("publish failure does not fail creation", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(booking(7, entities.BookingStatusCreated), nil)
		m.locks.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("1-2-7", nil)
		m.repo.EXPECT().SetLockRef(gomock.Any(), int64(7), "1-2-7").Return(booking(7, entities.BookingStatusCreated), nil)
		m.events.EXPECT().PublishJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		if _, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 1, SlotID: 2}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("booking cancelled before lock attached keeps row and releases lock", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		cancelled := withStatus(booking(7, entities.BookingStatusCreated), entities.BookingStatusCancelled)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(booking(7, entities.BookingStatusCreated), nil)
		m.locks.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("1-2-7", nil)
		gomock.InOrder(
			m.repo.EXPECT().SetLockRef(gomock.Any(), int64(7), "1-2-7").Return(entities.Booking{}, entities.ErrStatusConflict),
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(cancelled, nil),
			m.locks.EXPECT().Release(gomock.Any(), "1-2-7").Return(nil),
		)

		_, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 1, SlotID: 2})
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
		}
	})

	t.Run("booking moved to pending before lock attached is cancelled", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		pending := booking(7, entities.BookingStatusPendingPayment)
		pending.LockRef = ""
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(booking(7, entities.BookingStatusCreated), nil)
		m.locks.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("1-2-7", nil)
		gomock.InOrder(
			m.repo.EXPECT().SetLockRef(gomock.Any(), int64(7), "1-2-7").Return(entities.Booking{}, entities.ErrStatusConflict),
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(pending, nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusCancelled).
				Return(withStatus(pending, entities.BookingStatusCancelled), nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCancelled, gomock.Any()).Return(nil),
			m.locks.EXPECT().Release(gomock.Any(), "1-2-7").Return(nil),
		)

		if _, err := uc.Create(context.Background(), CreateBookingInput{CourtID: 1, SlotID: 2}); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
		}
	})
}

func TestBookingUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc, _ := newBookingUseCaseWithMocks(t)
		if _, err := uc.GetByID(context.Background(), 0); !errors.Is(err, ErrInvalidBookingID) {
			t.Fatalf("expected ErrInvalidBookingID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(entities.Booking{}, nil)
		if _, err := uc.GetByID(context.Background(), 9); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusCreated), nil)
		b, err := uc.GetByID(context.Background(), 7)
		if err != nil || b.ID != 7 {
			t.Fatalf("unexpected result: %+v err=%v", b, err)
		}
	})
}

func TestBookingUseCase_Cancel(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(entities.Booking{}, nil)
		if _, err := uc.Cancel(context.Background(), 7); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("confirmed booking cannot be cancelled", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusConfirmed), nil)
		if _, err := uc.Cancel(context.Background(), 7); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
		}
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusCancelled), nil)
		b, err := uc.Cancel(context.Background(), 7)
		if err != nil || b.Status != entities.BookingStatusCancelled {
			t.Fatalf("unexpected result: %+v err=%v", b, err)
		}
	})

	t.Run("cancels and releases lock", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusPendingPayment)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		gomock.InOrder(
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusCancelled).
				Return(withStatus(current, entities.BookingStatusCancelled), nil),
			m.locks.EXPECT().Release(gomock.Any(), "1-2-7").Return(nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCancelled, gomock.Any()).Return(nil),
		)

		b, err := uc.Cancel(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Status != entities.BookingStatusCancelled || b.LockRef != "" {
			t.Fatalf("unexpected booking: %+v", b)
		}
	})

	t.Run("release failure is tolerated", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusCreated)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusCreated, entities.BookingStatusCancelled).
			Return(withStatus(current, entities.BookingStatusCancelled), nil)
		m.locks.EXPECT().Release(gomock.Any(), "1-2-7").Return(interfaces.ErrLockUnavailable)
		m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCancelled, gomock.Any()).Return(nil)

		if _, err := uc.Cancel(context.Background(), 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("loses race to confirmation", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusPendingPayment)
		gomock.InOrder(
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusCancelled).
				Return(entities.Booking{}, entities.ErrStatusConflict),
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(withStatus(current, entities.BookingStatusConfirmed), nil),
		)

		b, err := uc.Cancel(context.Background(), 7)
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
		}
		if b.Status != entities.BookingStatusConfirmed {
			t.Fatalf("expected fresh confirmed booking, got %+v", b)
		}
	})

	t.Run("retries after a concurrent checkout", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusCreated)
		pending := withStatus(current, entities.BookingStatusPendingPayment)
		gomock.InOrder(
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusCreated, entities.BookingStatusCancelled).
				Return(entities.Booking{}, entities.ErrStatusConflict),
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(pending, nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusCancelled).
				Return(withStatus(current, entities.BookingStatusCancelled), nil),
			m.locks.EXPECT().Release(gomock.Any(), "1-2-7").Return(nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCancelled, gomock.Any()).Return(nil),
		)

		if _, err := uc.Cancel(context.Background(), 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBookingUseCase_Checkout(t *testing.T) {
	t.Run("method is required", func(t *testing.T) {
		uc, _ := newBookingUseCaseWithMocks(t)
		_, err := uc.Checkout(context.Background(), CheckoutInput{BookingID: 7, Method: " "})
		if !errors.Is(err, ErrInvalidBookingInput) {
			t.Fatalf("expected ErrInvalidBookingInput, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(entities.Booking{}, nil)
		_, err := uc.Checkout(context.Background(), CheckoutInput{BookingID: 7, Method: "card"})
		if !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	for _, status := range []entities.BookingStatus{entities.BookingStatusConfirmed, entities.BookingStatusCancelled} {
		t.Run("terminal "+string(status)+" never reaches the processor", func(t *testing.T) {
			uc, m := newBookingUseCaseWithMocks(t)
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, status), nil)
			_, err := uc.Checkout(context.Background(), CheckoutInput{BookingID: 7, Method: "card"})
			if !errors.Is(err, ErrInvalidStateTransition) {
				t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
			}
		})
	}

	t.Run("charges stored estimate and moves to pending", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusCreated)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		gomock.InOrder(
			m.pay.EXPECT().Checkout(gomock.Any(), interfaces.CheckoutRequest{BookingID: 7, Amount: 63, Method: "card", Coupon: "WELCOME"}).
				Return(interfaces.CheckoutResult{PaymentID: "pay-1", Status: "PENDING"}, nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusCreated, entities.BookingStatusPendingPayment).
				Return(withStatus(current, entities.BookingStatusPendingPayment), nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCheckoutStarted, gomock.Any()).Return(nil),
		)

		res, err := uc.Checkout(context.Background(), CheckoutInput{BookingID: 7, Method: "card", Coupon: "WELCOME"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.PaymentID != "pay-1" || res.Status != "PENDING" || res.Booking.Status != entities.BookingStatusPendingPayment {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("processor failure leaves status untouched", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusCreated), nil)
		m.pay.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(interfaces.CheckoutResult{}, interfaces.ErrPaymentRejected)

		_, err := uc.Checkout(context.Background(), CheckoutInput{BookingID: 7, Method: "card"})
		if !errors.Is(err, ErrPaymentInitiationFailed) {
			t.Fatalf("expected ErrPaymentInitiationFailed, got %v", err)
		}
	})

	t.Run("repeated checkout on pending keeps status", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusPendingPayment), nil)
		m.pay.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(interfaces.CheckoutResult{PaymentID: "pay-2", Status: "PENDING"}, nil)
		m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCheckoutStarted, gomock.Any()).Return(nil)

		res, err := uc.Checkout(context.Background(), CheckoutInput{BookingID: 7, Method: "pix"})
		if err != nil || res.Booking.Status != entities.BookingStatusPendingPayment {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})

	t.Run("callback settled the booking first", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusCreated)
		gomock.InOrder(
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil),
			m.pay.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(interfaces.CheckoutResult{PaymentID: "pay-1", Status: "APPROVED"}, nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusCreated, entities.BookingStatusPendingPayment).
				Return(entities.Booking{}, entities.ErrStatusConflict),
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(withStatus(current, entities.BookingStatusConfirmed), nil),
		)

		res, err := uc.Checkout(context.Background(), CheckoutInput{BookingID: 7, Method: "card"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Booking.Status != entities.BookingStatusConfirmed {
			t.Fatalf("confirmed status must not be overwritten, got %+v", res.Booking)
		}
	})
}

func TestBookingUseCase_ReconcilePayment(t *testing.T) {
	t.Run("invalid booking id is ignored", func(t *testing.T) {
		uc, _ := newBookingUseCaseWithMocks(t)
		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 0, Status: "APPROVED"})
		if err != nil || !res.Ignored {
			t.Fatalf("expected ignored, got %+v err=%v", res, err)
		}
	})

	t.Run("unknown booking is ignored", func(t *testing.T) {
		for _, status := range []string{"APPROVED", "DECLINED", "IN_PROCESS", ""} {
			uc, m := newBookingUseCaseWithMocks(t)
			m.repo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(entities.Booking{}, nil)
			res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 99, Status: status})
			if err != nil || !res.Ignored {
				t.Fatalf("status %q: expected ignored, got %+v err=%v", status, res, err)
			}
		}
	})

	t.Run("approved confirms slot then booking", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusPendingPayment)
		confirmed := withStatus(current, entities.BookingStatusConfirmed)
		paid := confirmed
		paid.PaidTotal = amount(63)
		paid.InvoiceID = "inv-1"

		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		gomock.InOrder(
			m.locks.EXPECT().ConfirmBooked(gomock.Any(), int64(1), int64(2), int64(7)).Return(nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusConfirmed).
				Return(confirmed, nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingConfirmed, gomock.Any()).Return(nil),
			m.repo.EXPECT().SetPaidTotal(gomock.Any(), int64(7), 63.0).Return(paid, nil),
			m.repo.EXPECT().SetInvoice(gomock.Any(), int64(7), "inv-1", "https://invoices/inv-1").Return(paid, nil),
		)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{
			PaymentID: "pay-1", BookingID: 7, Status: " approved ", PaidAmount: amount(63),
			InvoiceID: "inv-1", InvoiceURL: "https://invoices/inv-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Ignored || res.Booking.Status != entities.BookingStatusConfirmed {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("duplicate approval is idempotent", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusConfirmed)
		current.PaidTotal = amount(63)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "APPROVED", PaidAmount: amount(70)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *res.Booking.PaidTotal != 63 {
			t.Fatalf("paid total must be written once, got %v", *res.Booking.PaidTotal)
		}
	})

	t.Run("approval before checkout write walks through pending", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusCreated)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		gomock.InOrder(
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusCreated, entities.BookingStatusPendingPayment).
				Return(withStatus(current, entities.BookingStatusPendingPayment), nil),
			m.locks.EXPECT().ConfirmBooked(gomock.Any(), int64(1), int64(2), int64(7)).Return(nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusConfirmed).
				Return(withStatus(current, entities.BookingStatusConfirmed), nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingConfirmed, gomock.Any()).Return(nil),
		)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "APPROVED"})
		if err != nil || res.Booking.Status != entities.BookingStatusConfirmed {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})

	t.Run("confirm booked failure is returned for retry", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusPendingPayment), nil)
		m.locks.EXPECT().ConfirmBooked(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(interfaces.ErrLockUnavailable)

		_, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "APPROVED"})
		if !errors.Is(err, interfaces.ErrLockUnavailable) {
			t.Fatalf("expected ErrLockUnavailable, got %v", err)
		}
	})

	t.Run("confirmation losing to cancellation releases slot", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusPendingPayment)
		gomock.InOrder(
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil),
			m.locks.EXPECT().ConfirmBooked(gomock.Any(), int64(1), int64(2), int64(7)).Return(nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusConfirmed).
				Return(entities.Booking{}, entities.ErrStatusConflict),
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(withStatus(current, entities.BookingStatusCancelled), nil),
			m.locks.EXPECT().ConfirmReleased(gomock.Any(), int64(1), int64(2), int64(7)).Return(nil),
		)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "APPROVED"})
		if err != nil || res.Booking.Status != entities.BookingStatusCancelled {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})

	t.Run("approval on cancelled booking is acknowledged", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusCancelled)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		m.repo.EXPECT().SetPaidTotal(gomock.Any(), int64(7), 63.0).Return(current, nil)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "APPROVED", PaidAmount: amount(63)})
		if err != nil || res.Booking.Status != entities.BookingStatusCancelled {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})

	t.Run("declined cancels and releases lock", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusPendingPayment)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		gomock.InOrder(
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusPendingPayment, entities.BookingStatusCancelled).
				Return(withStatus(current, entities.BookingStatusCancelled), nil),
			m.locks.EXPECT().Release(gomock.Any(), "1-2-7").Return(nil),
			m.events.EXPECT().PublishJSON(gomock.Any(), interfaces.EventBookingCancelled, gomock.Any()).Return(nil),
		)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "DECLINED"})
		if err != nil || res.Booking.Status != entities.BookingStatusCancelled {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})

	t.Run("declined after confirmation is ignored", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusConfirmed), nil)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "DECLINED"})
		if err != nil || res.Booking.Status != entities.BookingStatusConfirmed {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})

	t.Run("intermediate status moves created to pending", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		current := booking(7, entities.BookingStatusCreated)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(current, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), entities.BookingStatusCreated, entities.BookingStatusPendingPayment).
			Return(withStatus(current, entities.BookingStatusPendingPayment), nil)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "IN_PROCESS"})
		if err != nil || res.Booking.Status != entities.BookingStatusPendingPayment {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})

	t.Run("intermediate status on pending is a no-op", func(t *testing.T) {
		uc, m := newBookingUseCaseWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(booking(7, entities.BookingStatusPendingPayment), nil)

		res, err := uc.ReconcilePayment(context.Background(), PaymentCallbackInput{BookingID: 7, Status: "PENDING"})
		if err != nil || res.Booking.Status != entities.BookingStatusPendingPayment {
			t.Fatalf("unexpected result: %+v err=%v", res, err)
		}
	})
}
