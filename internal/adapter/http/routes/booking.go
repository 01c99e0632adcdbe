package routes

import (
	"sports_booking/internal/adapter/http/handlers"
	"sports_booking/internal/adapter/http/middlewares"

	"github.com/gin-gonic/gin"
)

const (
	PathHealth          = "/health"
	PathBookings        = "/bookings"
	PathMyBookings      = "/me/bookings"
	PathQuotes          = "/quotes"
	PathPaymentCallback = "/callbacks/payment"
)

func addBookingRoutes(router *gin.Engine, deps Dependencies) {
	bookingHandler := handlers.NewBookingHandler(deps.Bookings)
	quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
	callbackHandler := handlers.NewPaymentCallbackHandler(deps.Bookings)

	router.GET(PathQuotes, quoteHandler.GetQuote)
	// Called by the payment processor, never behind player auth.
	router.POST(PathPaymentCallback, callbackHandler.HandlePaymentCallback)

	secured := router.Group("")
	if deps.JWTSecret != "" {
		secured.Use(middlewares.JWTAuth(deps.JWTSecret))
	}
	{
		secured.POST(PathBookings, bookingHandler.CreateBooking)
		secured.GET(PathBookings+"/:id", bookingHandler.GetBooking)
		secured.DELETE(PathBookings+"/:id", bookingHandler.CancelBooking)
		secured.POST(PathBookings+"/:id/checkout", bookingHandler.CheckoutBooking)
		secured.GET(PathMyBookings, bookingHandler.ListBookings)
	}
}
