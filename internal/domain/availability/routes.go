package availability

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/open-studio/sessions/:id/availability", h.GetSessionAvailability)
}
