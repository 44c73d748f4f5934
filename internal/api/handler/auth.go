package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "matchday-chat"

// mintToken signs a connection token carrying the user id. The OAuth
// exchange that proves the identity happens in the auth service; this
// is the seam where its result plugs in.
func mintToken(secret []byte, userID int64, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
		"iss":     tokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// parseToken validates a connection token and extracts the user id.
func parseToken(secret []byte, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type")
	}
	raw, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("user_id claim missing")
	}
	return int64(raw), nil
}

// IssueToken mints a connection token for an existing user.
func (h *Handler) IssueToken(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}
	if _, err := h.Storage.GetUserByID(userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	token, err := mintToken([]byte(h.Cfg.JWTSecret), userID, h.Cfg.TokenTTL)
	if err != nil {
		h.Log.Error("mint token", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": userID})
}

type pushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterPushToken stores the caller's Expo device token so the
// dispatcher can reach this device. An empty token cannot be set here;
// notification opt-out clears it on the profile side.
func (h *Handler) RegisterPushToken(c *gin.Context) {
	userID, ok := h.authedUserID(c)
	if !ok {
		return
	}
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	user.PushToken = req.Token
	if err := h.Storage.SaveUser(user); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}
