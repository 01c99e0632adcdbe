package handlers

import (
	"log"
	"net/http"
	"strconv"

	request "sports_booking/internal/adapter/http/dto/request"
	response "sports_booking/internal/adapter/http/dto/response"
	"sports_booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the player facing booking routes.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
}

func NewBookingHandler(uc usecase.IBookingUseCase) *BookingHandler {
	return &BookingHandler{usecase: uc}
}

// CreateBooking godoc
// @Summary      Create a booking
// @Description  Prices the slot, stores the booking as CREATED and locks the slot with the agenda.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        payload  body      request.CreateBookingRequest  true  "Booking"
// @Success      201      {object}  response.CreateBookingResponse
// @Failure      409      {object}  pkg.HTTPError
// @Failure      422      {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var payload request.CreateBookingRequest
	if err := c.ShouldBind(&payload); err != nil {
		log.Printf("[booking][handler] create invalid payload err=%v", err)
		writeError(c, validationError("Invalid booking payload"))
		return
	}

	res, err := h.usecase.Create(c.Request.Context(), usecase.CreateBookingInput{
		CourtID: payload.CourtID,
		SlotID:  payload.SlotID,
		Extras:  payload.ResolveExtras(),
		Notes:   payload.Notes,
	})
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	log.Printf("[booking][handler] create success booking_id=%d user=%s", res.Booking.ID, c.GetString("sub"))

	c.JSON(http.StatusCreated, response.FromCreateBooking(res))
}

// GetBooking godoc
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Param        id   path      int  true  "Booking ID"
// @Success      200  {object}  response.BookingResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	b, err := h.usecase.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Description  Confirmed bookings cannot be cancelled. Cancelling twice is accepted.
// @Tags         bookings
// @Produce      json
// @Param        id   path      int  true  "Booking ID"
// @Success      200  {object}  response.OKResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if _, err := h.usecase.Cancel(c.Request.Context(), id); err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.JSON(http.StatusOK, response.OKResponse{OK: true})
}

// ListBookings godoc
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Success      200  {array}   response.BookingResponse
// @Security     Bearer
// @Router       /me/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromBookings(bookings))
}

// CheckoutBooking godoc
// @Summary      Start payment for a booking
// @Description  Charges the stored estimate. The final status arrives through the payment callback.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Booking ID"
// @Param        payload  body      request.CheckoutRequest  true  "Payment method"
// @Success      200      {object}  response.CheckoutResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      502      {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /bookings/{id}/checkout [post]
func (h *BookingHandler) CheckoutBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var payload request.CheckoutRequest
	if err := c.ShouldBind(&payload); err != nil {
		log.Printf("[booking][handler] checkout invalid payload booking_id=%d err=%v", id, err)
		writeError(c, validationError("Invalid checkout payload"))
		return
	}

	res, err := h.usecase.Checkout(c.Request.Context(), usecase.CheckoutInput{
		BookingID: id,
		Method:    payload.Method,
		Coupon:    payload.Coupon,
	})
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromCheckout(res))
}

func bookingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, validationError("Invalid booking id"))
		return 0, false
	}
	return id, true
}
