package handlers

import (
	"log"
	"net/http"

	request "sports_booking/internal/adapter/http/dto/request"
	response "sports_booking/internal/adapter/http/dto/response"
	"sports_booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PaymentCallbackHandler receives asynchronous notifications from the payment
// processor. A non 2xx answer makes the processor retry.
type PaymentCallbackHandler struct {
	usecase usecase.IBookingUseCase
}

func NewPaymentCallbackHandler(uc usecase.IBookingUseCase) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{usecase: uc}
}

// HandlePaymentCallback godoc
// @Summary      Payment processor callback
// @Description  Applies APPROVED / DECLINED / intermediate statuses. Unknown bookings are acknowledged with ignored=true.
// @Tags         callbacks
// @Accept       json
// @Produce      json
// @Param        payload  body      request.PaymentCallbackRequest  true  "Callback"
// @Success      200      {object}  response.OKResponse
// @Failure      422      {object}  pkg.HTTPError
// @Failure      502      {object}  pkg.HTTPError
// @Router       /callbacks/payment [post]
func (h *PaymentCallbackHandler) HandlePaymentCallback(c *gin.Context) {
	var payload request.PaymentCallbackRequest
	if err := c.ShouldBind(&payload); err != nil {
		log.Printf("[payment][callback] invalid payload err=%v", err)
		writeError(c, validationError("Invalid callback payload"))
		return
	}
	log.Printf("[payment][callback] received payment_id=%s booking_id=%d status=%s", payload.PaymentID, payload.BookingID, payload.Status)

	res, err := h.usecase.ReconcilePayment(c.Request.Context(), usecase.PaymentCallbackInput{
		PaymentID:  payload.PaymentID.String(),
		BookingID:  payload.BookingID,
		Status:     payload.Status,
		PaidAmount: payload.PaidAmount,
		InvoiceID:  payload.InvoiceID.String(),
		InvoiceURL: payload.InvoiceURL,
	})
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	if res.Ignored {
		c.JSON(http.StatusOK, response.IgnoredResponse{Ignored: true})
		return
	}
	c.JSON(http.StatusOK, response.OKResponse{OK: true})
}
