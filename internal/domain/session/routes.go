package session

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/open-studio/sessions", h.ListSessions)
}

func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	r.POST("/sessions", h.CreateSession)
	r.DELETE("/sessions/:id", h.CancelSession)
	r.POST("/sessions/:id/holds", h.CreateHold)
}
