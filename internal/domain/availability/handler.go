package availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"potterystudio/internal/domain/session"
	"potterystudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSessionAvailability godoc
// @Summary Availability grid for an Open Studio session
// @Description Per-resource slot grid (open/held/booked). Staff callers also get the raw booking rows.
// @Tags OpenStudio
// @Produce json
// @Param id path integer true "Session ID"
// @Success 200 {object} SessionAvailability
// @Router /open-studio/sessions/{id}/availability [get]
func (h *Handler) GetSessionAvailability(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	includeBookings := c.GetString("role") == "staff"

	result, err := h.service.ForSession(c.Request.Context(), sessionID, includeBookings)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "session not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to compute availability")
		return
	}
	response.Success(c, http.StatusOK, result)
}
