package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Nyaguthii-C/LetsChat/internal/logger"
	"github.com/Nyaguthii-C/LetsChat/internal/services"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 4096
	sendBufferSize = 64
)

// intent is the only client-to-server frame the socket accepts.
type intent struct {
	Action          string   `json:"action"`
	NotificationIDs []string `json:"notification_ids"`
}

// Client is one authenticated websocket connection of a user. All writes
// to the socket go through the send channel and the write pump.
type Client struct {
	manager       *Manager
	conn          *websocket.Conn
	userID        string
	db            *gorm.DB
	notifications services.NotificationService

	mu        sync.Mutex
	closed    bool
	send      chan []byte
	closeOnce sync.Once
}

func newClient(manager *Manager, conn *websocket.Conn, userID string, db *gorm.DB, notifications services.NotificationService) *Client {
	return &Client{
		manager:       manager,
		conn:          conn,
		userID:        userID,
		db:            db,
		notifications: notifications,
		send:          make(chan []byte, sendBufferSize),
	}
}

// enqueue hands a frame to the write pump without blocking. A full
// buffer means the peer stopped reading; the connection is torn down.
func (c *Client) enqueue(frame []byte) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case c.send <- frame:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		logger.Warn("send buffer full, dropping connection", "user_id", c.userID)
		c.close()
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.manager.Leave(c.userID, c)
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		c.conn.Close()
	})
}

// readPump consumes inbound frames until the peer disconnects. Malformed
// frames and unknown actions are logged and skipped, never fatal.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read failed", "user_id", c.userID, "error", err)
			}
			return
		}

		var in intent
		if err := json.Unmarshal(raw, &in); err != nil {
			logger.Warn("malformed websocket frame", "user_id", c.userID, "error", err)
			continue
		}

		switch in.Action {
		case "mark_seen":
			if _, err := c.notifications.MarkSeen(c.db, c.userID, in.NotificationIDs); err != nil {
				logger.Error("mark_seen failed", "user_id", c.userID, "error", err)
			}
		default:
			logger.Warn("unknown websocket action", "user_id", c.userID, "action", in.Action)
		}
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
