package routes

import (
	"github.com/gin-gonic/gin"

	"courtbook/handlers"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.GET("/availability", h.GetAvailability) // Read-only slot query
		api.GET("/quote", h.GetQuote)               // Price preview
		api.POST("", h.CreateBooking)               // Validate then commit
		api.DELETE("/:id", h.CancelBooking)
		api.GET("/user/:userId", h.GetUserBookings)
	}
}
