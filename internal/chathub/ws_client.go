package chathub

import (
	"log/slog"
	"sync"
	"time"

	"matchday/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements Client over a gorilla/websocket
// connection. Inbound frames go through the shared session controller;
// outbound frames arrive on Send from the hub and the controller.
type WebSocketClient struct {
	sessionID  string
	userID     int64
	Conn       *websocket.Conn
	Hub        *Manager
	Controller *SessionController
	Send       chan models.ServerFrame
	log        *slog.Logger

	quit     chan struct{}
	quitOnce sync.Once
}

// NewWebSocketClient binds an upgraded connection to a user identity.
func NewWebSocketClient(log *slog.Logger, conn *websocket.Conn, hub *Manager,
	controller *SessionController, userID int64, sendBuffer int) *WebSocketClient {
	return &WebSocketClient{
		sessionID:  uuid.NewString(),
		userID:     userID,
		Conn:       conn,
		Hub:        hub,
		Controller: controller,
		Send:       make(chan models.ServerFrame, sendBuffer),
		log:        log.With("component", "ws"),
		quit:       make(chan struct{}),
	}
}

func (c *WebSocketClient) GetSessionID() string { return c.sessionID }
func (c *WebSocketClient) GetUserID() int64     { return c.userID }

func (c *WebSocketClient) GetSendChannel() chan<- models.ServerFrame { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close signals shutdown to the write pump. Send stays open: the read
// pump may still be acknowledging a frame, and a send on a closed
// channel would take the whole process down.
func (c *WebSocketClient) Close() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// readPump reads frames off the socket and hands them to the session
// controller one at a time, so a session's events are handled serially
// in arrival order.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error("read failed",
					"session_id", c.sessionID, "error", err)
			}
			break
		}
		c.Controller.HandleFrame(c, raw)
	}
}

// writePump drains Send onto the socket and keeps the connection alive
// with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.quit:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(frame); err != nil {
				c.log.Error("write failed",
					"session_id", c.sessionID, "error", err)
				return
			}

			// Flush whatever else is already queued.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if err := c.Conn.WriteJSON(<-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
