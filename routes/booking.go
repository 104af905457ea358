package routes

import (
	"roamly/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	slots := r.Group("/api/slots")
	{
		slots.GET("/:slotID/availability", h.GetAvailabilityHandler)
	}
	r.POST("/api/availability", h.BatchAvailabilityHandler)

	bookings := r.Group("/api/bookings")
	{
		bookings.POST("", h.ReserveHandler)
		bookings.POST("/:reservationID/cancel", h.CancelHandler)
		bookings.GET("/:reservationID/refund-preview", h.RefundPreviewHandler)
	}
}
