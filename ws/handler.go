package ws

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Nyaguthii-C/LetsChat/internal/auth"
	"github.com/Nyaguthii-C/LetsChat/internal/logger"
	"github.com/Nyaguthii-C/LetsChat/internal/services"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"
	"github.com/Nyaguthii-C/LetsChat/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests into notification sockets.
type Handler struct {
	manager       *Manager
	notifications services.NotificationService
}

func NewHandler(manager *Manager, notifications services.NotificationService) *Handler {
	return &Handler{manager: manager, notifications: notifications}
}

// ServeNotifications authenticates the token query parameter, upgrades the
// connection, joins the user's group, and replies with the unseen snapshot.
// A missing or invalid token is rejected before any upgrade happens.
func (h *Handler) ServeNotifications(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		// Some clients cannot set query params on the ws URL and send a
		// bearer header instead.
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	value, exists := c.Get(string(contextkeys.DBContextKey))
	db, ok := value.(*gorm.DB)
	if !exists || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	client := newClient(h.manager, conn, claims.UserID, db, h.notifications)
	h.manager.Join(claims.UserID, client)

	go client.writePump()

	h.sendSnapshot(client)

	go client.readPump()
}

// sendSnapshot queues the one-time initial_notifications frame. Snapshot
// failure closes the connection so the client can retry with a clean slate.
func (h *Handler) sendSnapshot(client *Client) {
	snapshot, err := h.notifications.UnseenSnapshot(client.db, client.userID)
	if err != nil {
		logger.Error("failed to build unseen snapshot", "user_id", client.userID, "error", err)
		client.close()
		return
	}
	frame, err := json.Marshal(dto.Envelope{
		Kind: dto.KindInitialNotifications,
		Payload: map[string]any{
			"unread_count":  snapshot.UnreadCount,
			"notifications": snapshot.Notifications,
		},
	})
	if err != nil {
		logger.Error("failed to encode unseen snapshot", "user_id", client.userID, "error", err)
		client.close()
		return
	}
	client.enqueue(frame)
}
