package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the member-facing booking endpoints. The group is
// expected to carry JWT auth already.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/open-studio/bookings", h.CreateBooking)
	r.GET("/open-studio/my-bookings", h.GetMyBookings)
	r.POST("/open-studio/bookings/:id/check-in", h.CheckIn)
	r.DELETE("/open-studio/bookings/:id", h.CancelBooking)
}

// RegisterStaffRoutes mounts the front-desk endpoints.
func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	r.POST("/open-studio/walk-in", h.CreateWalkIn)
	r.POST("/bookings/:id/complete", h.CompleteBooking)
}
