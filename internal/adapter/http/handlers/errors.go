package handlers

import (
	"errors"
	"log"
	"net/http"

	"sports_booking/internal/usecase"
	"sports_booking/internal/usecase/interfaces"
	"sports_booking/pkg"

	"github.com/gin-gonic/gin"
)

func validationError(message string) *pkg.AppError {
	return pkg.NewDomainErrorSimple("VALIDATION_ERROR", message, http.StatusUnprocessableEntity)
}

// mapBookingError translates use case errors into the HTTP error taxonomy.
// SlotUnavailable is checked before the bare lock gateway error because it
// wraps it.
func mapBookingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidBookingInput):
		return validationError(err.Error())
	case errors.Is(err, usecase.ErrInvalidBookingID):
		return validationError("Invalid booking id")
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidStateTransition):
		return pkg.NewDomainError("INVALID_STATE_TRANSITION", "Booking cannot move to the requested status", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrSlotUnavailable):
		return pkg.NewDomainError("SLOT_UNAVAILABLE", "Slot is not available", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentInitiationFailed):
		return pkg.NewDomainError("PAYMENT_INITIATION_FAILED", "Payment could not be started", err, http.StatusBadGateway)
	case errors.Is(err, interfaces.ErrLockUnavailable):
		return pkg.NewDomainError("AGENDA_UNAVAILABLE", "Scheduling service did not confirm the slot", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.HTTPStatus >= http.StatusInternalServerError && appErr.Cause != nil {
		log.Printf("[booking][handler] request failed method=%s path=%s code=%s cause=%v", c.Request.Method, c.FullPath(), appErr.Code, appErr.Cause)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
