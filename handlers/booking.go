package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/utils"
)

// BookingHandler serves the availability query and booking command endpoints.
type BookingHandler struct {
	Engine booking.BookingEngine
	Logger *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(engine booking.BookingEngine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

// rejectionStatus maps a rejection reason to its HTTP status. Conflicts with
// existing state are 409; policy refusals are 422.
func rejectionStatus(reason string) int {
	switch reason {
	case booking.ReasonSlotTaken, booking.ReasonUserDoubleBooked, booking.ReasonCourtBlocked:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// GetAvailability handles GET /api/bookings/availability?courtId&date&duration.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	courtID := c.Query("courtId")
	date := c.Query("date")
	durationStr := c.DefaultQuery("duration", "60")
	duration, err := strconv.Atoi(durationStr)
	if courtID == "" || date == "" || err != nil || duration <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid query", "courtId, date and a positive duration are required")
		return
	}

	slots, err := h.Engine.GetAvailableSlots(c.Request.Context(), courtID, date, duration)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	c.JSON(http.StatusOK, gin.H{
		"courtId":  courtID,
		"date":     date,
		"duration": duration,
		"slots":    slots,
	})
}

// GetQuote handles GET /api/bookings/quote?courtId&date&start&duration.
func (h *BookingHandler) GetQuote(c *gin.Context) {
	courtID := c.Query("courtId")
	date := c.Query("date")
	start, okStart := models.MinuteOfDay(c.Query("start"))
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
	if courtID == "" || date == "" || !okStart || err != nil || duration <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid query", "courtId, date, start (HH:MM) and a positive duration are required")
		return
	}

	price, err := h.Engine.QuoteSlotPrice(c.Request.Context(), courtID, date, start, duration)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courtId": courtID, "date": date, "price": price})
}

// CreateBookingBody is the payload for POST /api/bookings.
type CreateBookingBody struct {
	CourtID   string   `json:"courtId" binding:"required"`
	UserID    string   `json:"userId" binding:"required"`
	Date      string   `json:"date" binding:"required"`
	StartTime string   `json:"startTime" binding:"required"` // "HH:MM"
	EndTime   string   `json:"endTime" binding:"required"`   // "HH:MM"
	Players   []string `json:"players"`
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	start, okStart := models.MinuteOfDay(body.StartTime)
	end, okEnd := models.MinuteOfDay(body.EndTime)
	if !okStart || !okEnd || start >= end {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "startTime and endTime must be HH:MM with startTime before endTime")
		return
	}

	req := booking.Request{
		CourtID: body.CourtID,
		UserID:  body.UserID,
		Date:    body.Date,
		Start:   start,
		End:     end,
		Players: body.Players,
	}
	created, err := h.Engine.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CancelBooking handles DELETE /api/bookings/:id?userId=....
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")
	userID := c.Query("userId")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid query", "userId is required")
		return
	}

	cancelled, err := h.Engine.CancelBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// GetUserBookings handles GET /api/bookings/user/:userId?from&to.
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	userID := c.Param("userId")
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid query", "from and to dates are required")
		return
	}

	bookings, err := h.Engine.ListUserBookings(c.Request.Context(), userID, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "bookings": bookings})
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	if r := booking.AsRejection(err); r != nil {
		utils.JSONRejection(c, rejectionStatus(r.Reason), r.Reason, r.Message)
		return
	}
	switch {
	case errors.Is(err, booking.ErrCourtNotFound):
		utils.JSONError(c, http.StatusNotFound, "court not found", "")
	case errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
	case errors.Is(err, booking.ErrBookingNotActive):
		utils.JSONError(c, http.StatusUnprocessableEntity, "booking is not active", "")
	default:
		h.Logger.Error("booking handler error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}
