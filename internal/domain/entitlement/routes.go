package entitlement

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/open-studio/my-subscription", h.GetMySubscription)
	r.GET("/open-studio/punch-passes/my-passes", h.GetMyPasses)
}
