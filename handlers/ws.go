package handlers

import (
	"log"
	"net/http"

	"delivery-backend/models"
	"delivery-backend/notify"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type WebSocketHandler struct {
	DB       *gorm.DB
	Hub      *notify.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts upgrades from the given origins. An empty list
// or "*" accepts any origin.
func NewWebSocketHandler(db *gorm.DB, hub *notify.Hub, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		DB:  db,
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// OrdersFeed streams order events of establishment :id. Browsers cannot set
// headers on websocket requests, so the access token comes in ?token=.
func (h *WebSocketHandler) OrdersFeed(c *gin.Context) {
	estID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	claims, err := utils.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", claims.UserID).First(&user).Error; err != nil || user.IsBlocked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.Role != models.RoleAdmin && !user.BelongsTo(estID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to this establishment"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for establishment %s: %v", estID, err)
		return
	}
	log.Printf("User %s subscribed to orders of establishment %s", user.ID, estID)
	h.Hub.Serve(conn, estID)
}
