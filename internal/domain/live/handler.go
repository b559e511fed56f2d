package live

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"potterystudio/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // tighten per deployment origin in prod
	},
}

type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewHandler(hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{hub: hub, jwtService: jwtService}
}

// HandleWebSocket upgrades the connection and streams booking events.
//
// Endpoint: GET /ws/bookings?token=JWT_TOKEN&studio_id=1
//
// Auth goes through a query parameter because browsers cannot set headers
// on WebSocket upgrades. Staff only.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Token is required. Use ?token=YOUR_JWT_TOKEN",
		})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return
	}
	if claims.Role != "staff" {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Staff access required",
		})
		return
	}

	var initial []int64
	if raw := c.Query("studio_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			initial = append(initial, id)
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	log.Printf("User %d connected to booking feed", claims.UserID)
	h.hub.ServeWS(conn, claims.UserID, initial)
	log.Printf("User %d disconnected from booking feed", claims.UserID)
}
