package entitlement

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"potterystudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type subscriptionResponse struct {
	Subscription *Subscription `json:"subscription"`
	Benefits     *Benefits     `json:"benefits,omitempty"`
}

// GetMySubscription godoc
// @Summary Current membership subscription for the authenticated customer
// @Tags Entitlements
// @Security BearerAuth
// @Produce json
// @Success 200 {object} subscriptionResponse
// @Router /open-studio/my-subscription [get]
func (h *Handler) GetMySubscription(c *gin.Context) {
	customerID := c.GetInt64("user_id")
	if customerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	sub, benefits, err := h.service.MySubscription(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "no subscription on file")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load subscription")
		return
	}
	response.Success(c, http.StatusOK, subscriptionResponse{Subscription: sub, Benefits: benefits})
}

// GetMyPasses godoc
// @Summary Punch passes owned by the authenticated customer
// @Tags Entitlements
// @Security BearerAuth
// @Produce json
// @Success 200 {array} PunchPass
// @Router /open-studio/punch-passes/my-passes [get]
func (h *Handler) GetMyPasses(c *gin.Context) {
	customerID := c.GetInt64("user_id")
	if customerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	passes, err := h.service.MyPasses(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load passes")
		return
	}
	response.Success(c, http.StatusOK, passes)
}
