package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courtbook/models"
	"courtbook/services/court"
	"courtbook/utils"
)

// CourtHandler serves court and block administration endpoints.
type CourtHandler struct {
	Service court.CourtService
	Logger  *zap.Logger
}

// NewCourtHandler constructs a CourtHandler.
func NewCourtHandler(service court.CourtService, logger *zap.Logger) *CourtHandler {
	return &CourtHandler{Service: service, Logger: logger}
}

// CreateCourt handles POST /api/courts.
func (h *CourtHandler) CreateCourt(c *gin.Context) {
	var body models.Court
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Service.CreateCourt(c.Request.Context(), &body); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid court configuration", err.Error())
		return
	}
	c.JSON(http.StatusCreated, body)
}

// GetCourt handles GET /api/courts/:id.
func (h *CourtHandler) GetCourt(c *gin.Context) {
	found, err := h.Service.GetCourt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListCourts handles GET /api/courts?active=true.
func (h *CourtHandler) ListCourts(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	courts, err := h.Service.ListCourts(c.Request.Context(), activeOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if courts == nil {
		courts = []models.Court{}
	}
	c.JSON(http.StatusOK, gin.H{"courts": courts})
}

// UpdateCourt handles PATCH /api/courts/:id.
func (h *CourtHandler) UpdateCourt(c *gin.Context) {
	var body models.Court
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	body.ID = c.Param("id")
	if err := h.Service.UpdateCourt(c.Request.Context(), &body); err != nil {
		if errors.Is(err, court.ErrCourtNotFound) {
			h.respondError(c, err)
			return
		}
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid court configuration", err.Error())
		return
	}
	c.JSON(http.StatusOK, body)
}

// AddBlockBody is the payload for POST /api/courts/:id/blocks.
type AddBlockBody struct {
	Reason      string    `json:"reason" binding:"required"`
	Description string    `json:"description"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
}

// AddBlock handles POST /api/courts/:id/blocks. Future bookings overlapped by
// the block are cancelled and reported in the response.
func (h *CourtHandler) AddBlock(c *gin.Context) {
	var body AddBlockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	block := models.CourtBlock{
		Reason:      body.Reason,
		Description: body.Description,
		Start:       body.Start,
		End:         body.End,
	}
	stored, cancelled, err := h.Service.AddBlock(c.Request.Context(), c.Param("id"), block)
	if err != nil {
		if errors.Is(err, court.ErrCourtNotFound) {
			h.respondError(c, err)
			return
		}
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid block", err.Error())
		return
	}
	if cancelled == nil {
		cancelled = []models.Booking{}
	}
	c.JSON(http.StatusCreated, gin.H{
		"block":             stored,
		"cancelledBookings": cancelled,
	})
}

// RemoveBlock handles DELETE /api/courts/:id/blocks/:blockId.
func (h *CourtHandler) RemoveBlock(c *gin.Context) {
	if err := h.Service.RemoveBlock(c.Request.Context(), c.Param("id"), c.Param("blockId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourtHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, court.ErrCourtNotFound) {
		utils.JSONError(c, http.StatusNotFound, "court not found", "")
		return
	}
	h.Logger.Error("court handler error", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
}
