package waitlist

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"potterystudio/internal/domain/entitlement"
	"potterystudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type joinRequest struct {
	SessionID      int64      `json:"session_id" binding:"required"`
	ResourceID     int64      `json:"resource_id" binding:"required"`
	StartTime      time.Time  `json:"start_time" binding:"required"`
	EndTime        time.Time  `json:"end_time" binding:"required"`
	SubscriptionID *uuid.UUID `json:"subscription_id,omitempty"`
	PunchPassID    *uuid.UUID `json:"customer_punch_pass_id,omitempty"`
}

// Join godoc
// @Summary Join the waitlist for a full resource window
// @Tags OpenStudio
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body joinRequest true "Waitlist request"
// @Success 201 {object} Entry
// @Router /open-studio/waitlist [post]
func (h *Handler) Join(c *gin.Context) {
	customerID := c.GetInt64("user_id")
	if customerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	entry, err := h.service.Join(c.Request.Context(), JoinRequest{
		CustomerID: customerID,
		ResourceID: req.ResourceID,
		SessionID:  req.SessionID,
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.EndTime.UTC(),
		Ref: entitlement.Ref{
			SubscriptionID: req.SubscriptionID,
			PunchPassID:    req.PunchPassID,
		},
	})
	if err != nil {
		writeWaitlistError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

// Leave godoc
// @Summary Leave the waitlist
// @Tags OpenStudio
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} Entry
// @Router /open-studio/waitlist/{id} [delete]
func (h *Handler) Leave(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid entry id")
		return
	}

	entry, err := h.service.Leave(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		writeWaitlistError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

// GetMyEntries godoc
// @Summary Active waitlist entries of the authenticated customer
// @Tags OpenStudio
// @Security BearerAuth
// @Success 200 {array} Entry
// @Router /open-studio/my-waitlist [get]
func (h *Handler) GetMyEntries(c *gin.Context) {
	entries, err := h.service.MyEntries(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load waitlist")
		return
	}
	response.Success(c, http.StatusOK, entries)
}

// GetSlotLine godoc
// @Summary Staff view of the line for one resource window
// @Tags Staff
// @Security BearerAuth
// @Param resource_id query integer true "Resource ID"
// @Param session_id query integer true "Session ID"
// @Param start_time query string true "Window start (RFC3339)"
// @Success 200 {array} Entry
// @Router /staff/waitlist [get]
func (h *Handler) GetSlotLine(c *gin.Context) {
	resourceID, err := strconv.ParseInt(c.Query("resource_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "resource_id is required")
		return
	}
	sessionID, err := strconv.ParseInt(c.Query("session_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "session_id is required")
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start_time must be RFC3339")
		return
	}

	entries, err := h.service.SlotLine(c.Request.Context(), resourceID, sessionID, start.UTC())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load waitlist")
		return
	}
	response.Success(c, http.StatusOK, entries)
}

func writeWaitlistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlreadyWaitlisted):
		response.Error(c, http.StatusConflict, "ALREADY_WAITLISTED", "already waitlisted for this slot")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "waitlist entry not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "not your waitlist entry")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid waitlist request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "waitlist operation failed")
	}
}
