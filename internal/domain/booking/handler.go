package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"potterystudio/internal/domain/entitlement"
	"potterystudio/internal/domain/resource"
	"potterystudio/internal/domain/session"
	"potterystudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createBookingRequest struct {
	SessionID      int64      `json:"session_id" binding:"required"`
	ResourceID     int64      `json:"resource_id" binding:"required"`
	StartTime      time.Time  `json:"start_time" binding:"required"`
	EndTime        time.Time  `json:"end_time" binding:"required"`
	SubscriptionID *uuid.UUID `json:"subscription_id,omitempty"`
	PunchPassID    *uuid.UUID `json:"customer_punch_pass_id,omitempty"`
}

// CreateBooking godoc
// @Summary Reserve a resource unit for a sub-window of a session
// @Tags OpenStudio
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createBookingRequest true "Booking"
// @Success 201 {object} Booking
// @Router /open-studio/bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	customerID := c.GetInt64("user_id")
	if customerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.Create(c.Request.Context(), CreateRequest{
		CustomerID: customerID,
		SessionID:  req.SessionID,
		ResourceID: req.ResourceID,
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.EndTime.UTC(),
		Ref: entitlement.Ref{
			SubscriptionID: req.SubscriptionID,
			PunchPassID:    req.PunchPassID,
		},
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

type walkInRequest struct {
	CustomerID     int64      `json:"customer_id" binding:"required"`
	SessionID      int64      `json:"session_id" binding:"required"`
	ResourceID     int64      `json:"resource_id" binding:"required"`
	SubscriptionID *uuid.UUID `json:"subscription_id,omitempty"`
	PunchPassID    *uuid.UUID `json:"customer_punch_pass_id,omitempty"`
}

// CreateWalkIn godoc
// @Summary Front-desk walk-in booking from now through session end
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body walkInRequest true "Walk-in"
// @Success 201 {object} Booking
// @Router /open-studio/walk-in [post]
func (h *Handler) CreateWalkIn(c *gin.Context) {
	var req walkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.CreateWalkIn(c.Request.Context(), req.CustomerID, req.SessionID, req.ResourceID, entitlement.Ref{
		SubscriptionID: req.SubscriptionID,
		PunchPassID:    req.PunchPassID,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// CheckIn godoc
// @Summary Check in a reserved booking
// @Tags OpenStudio
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} Booking
// @Router /open-studio/bookings/{id}/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid booking id")
		return
	}

	b, err := h.service.CheckIn(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// CancelBooking godoc
// @Summary Cancel a booking; credits the entitlement if before start
// @Tags OpenStudio
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} Booking
// @Router /open-studio/bookings/{id} [delete]
func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid booking id")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// CompleteBooking godoc
// @Summary Staff close-out of a checked-in booking
// @Tags Staff
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} Booking
// @Router /staff/bookings/{id}/complete [post]
func (h *Handler) CompleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid booking id")
		return
	}

	b, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// GetMyBookings godoc
// @Summary Bookings of the authenticated customer
// @Tags OpenStudio
// @Security BearerAuth
// @Produce json
// @Param page query integer false "Page"
// @Param limit query integer false "Per page (max 100)"
// @Success 200 {array} MyBookingRow
// @Router /open-studio/my-bookings [get]
func (h *Handler) GetMyBookings(c *gin.Context) {
	customerID := c.GetInt64("user_id")
	if customerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	offset := 0
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = (v - 1) * limit
		}
	}

	rows, err := h.service.MyBookings(c.Request.Context(), customerID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// writeBookingError maps expected business outcomes to the structured 4xx
// taxonomy. Anything unmatched is an infrastructure failure.
func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "capacity exhausted for the requested window")
	case errors.Is(err, ErrCheckInWindowClosed):
		response.Error(c, http.StatusUnprocessableEntity, "CHECK_IN_WINDOW_CLOSED", "check-in window is closed")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "booking state does not allow this transition")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "not your booking")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "requested window is invalid for this session")
	case errors.Is(err, ErrNotFound), errors.Is(err, session.ErrNotFound),
		errors.Is(err, resource.ErrNotFound), errors.Is(err, entitlement.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, entitlement.ErrNoActiveSubscription), errors.Is(err, entitlement.ErrBenefitsInvalid):
		response.Error(c, http.StatusUnprocessableEntity, "NO_ACTIVE_SUBSCRIPTION", "no active subscription")
	case errors.Is(err, entitlement.ErrWeeklyLimitReached):
		response.Error(c, http.StatusUnprocessableEntity, "WEEKLY_LIMIT_REACHED", "weekly booking limit reached")
	case errors.Is(err, entitlement.ErrBlockTooLong):
		response.Error(c, http.StatusUnprocessableEntity, "BLOCK_TOO_LONG", "requested block exceeds membership maximum")
	case errors.Is(err, entitlement.ErrWalkInNotAllowed):
		response.Error(c, http.StatusUnprocessableEntity, "WALK_IN_NOT_ALLOWED", "membership does not include walk-ins")
	case errors.Is(err, entitlement.ErrAdvanceWindow):
		response.Error(c, http.StatusUnprocessableEntity, "ADVANCE_WINDOW_EXCEEDED", "session is outside the advance booking window")
	case errors.Is(err, entitlement.ErrPassExhausted):
		response.Error(c, http.StatusUnprocessableEntity, "PASS_EXHAUSTED", "punch pass has no punches remaining")
	case errors.Is(err, entitlement.ErrPassExpired):
		response.Error(c, http.StatusUnprocessableEntity, "PASS_EXPIRED", "punch pass expired")
	case errors.Is(err, entitlement.ErrRefInvalid):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "exactly one of subscription_id or customer_punch_pass_id is required")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "booking operation failed")
	}
}
