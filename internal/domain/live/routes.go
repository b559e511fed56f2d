package live

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the feed outside the JWT middleware group; the
// handler validates the token itself from the query string.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/ws/bookings", h.HandleWebSocket)
}
