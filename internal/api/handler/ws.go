package handler

import (
	"net/http"
	"strings"

	"matchday/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Mobile clients connect from app webviews; origin checks add
	// nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket validates the connection token and upgrades the
// request into a chat session.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		// Browsers cannot set headers on websocket upgrades.
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing"})
		return
	}

	userID, err := parseToken([]byte(h.Cfg.JWTSecret), tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Error("websocket upgrade", "user_id", userID, "error", err)
		return
	}

	client := chathub.NewWebSocketClient(h.Log, conn, h.Hub, h.Controller, userID, h.Cfg.SendBuffer)
	h.Hub.Register(client)
	client.Run()
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
