package waitlist

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/open-studio/waitlist", h.Join)
	r.DELETE("/open-studio/waitlist/:id", h.Leave)
	r.GET("/open-studio/waitlist/my-entries", h.GetMyEntries)
}

func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	r.GET("/waitlist", h.GetSlotLine)
}
