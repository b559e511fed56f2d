package resource

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/open-studio/resources", h.ListResources)
}

func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	r.POST("/resources", h.CreateResource)
	r.PATCH("/resources/:id", h.UpdateResource)
	r.DELETE("/resources/:id", h.DeactivateResource)
}
