package session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"potterystudio/internal/pkg/response"
)

type Handler struct {
	repo        *Repository
	horizonDays int
}

func NewHandler(repo *Repository, horizonDays int) *Handler {
	return &Handler{repo: repo, horizonDays: horizonDays}
}

// ListSessions godoc
// @Summary List upcoming Open Studio sessions
// @Tags OpenStudio
// @Produce json
// @Param studio_id query integer true "Studio ID"
// @Param days query integer false "Horizon in days (defaults to server config)"
// @Success 200 {array} Session
// @Router /open-studio/sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	studioID, err := strconv.ParseInt(c.Query("studio_id"), 10, 64)
	if err != nil || studioID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "studio_id is required")
		return
	}

	days := h.horizonDays
	if raw := c.Query("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 90 {
			days = v
		}
	}

	sessions, err := h.repo.ListUpcoming(c.Request.Context(), studioID, days)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load sessions")
		return
	}
	response.Success(c, http.StatusOK, sessions)
}

type createSessionRequest struct {
	StudioID  int64     `json:"studio_id" binding:"required"`
	ClassID   int64     `json:"class_id"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// CreateSession godoc
// @Summary Create an Open Studio session (thin write path for the external generator)
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createSessionRequest true "Session window"
// @Success 201 {object} Session
// @Router /staff/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	s := &Session{
		StudioID:  req.StudioID,
		ClassID:   req.ClassID,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "end_time must be after start_time")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create session")
		return
	}
	response.Success(c, http.StatusCreated, s)
}

// CancelSession godoc
// @Summary Cancel an Open Studio session
// @Tags Staff
// @Security BearerAuth
// @Produce json
// @Param id path integer true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Router /staff/sessions/{id} [delete]
func (h *Handler) CancelSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	if err := h.repo.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "session not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to cancel session")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_cancelled": true})
}

type createHoldRequest struct {
	ResourceID int64     `json:"resource_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,gte=1"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Reason     string    `json:"reason"`
}

// CreateHold godoc
// @Summary Reserve class-held capacity within a session
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path integer true "Session ID"
// @Param body body createHoldRequest true "Hold"
// @Success 201 {object} ResourceHold
// @Router /staff/sessions/{id}/holds [post]
func (h *Handler) CreateHold(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	if _, err := h.repo.GetByID(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "session not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load session")
		return
	}

	var req createHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	hold := &ResourceHold{
		SessionID:  sessionID,
		ResourceID: req.ResourceID,
		Quantity:   req.Quantity,
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.EndTime.UTC(),
		Reason:     req.Reason,
	}
	if err := h.repo.CreateHold(c.Request.Context(), hold); err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid hold window or quantity")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create hold")
		return
	}
	response.Success(c, http.StatusCreated, hold)
}
