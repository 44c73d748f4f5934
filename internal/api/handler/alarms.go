package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"matchday/backend/internal/apperr"
	"matchday/backend/internal/review"
)

// authedUserID resolves the caller from the bearer token. Aborts the
// request on failure and reports false.
func (h *Handler) authedUserID(c *gin.Context) (int64, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing"})
		return 0, false
	}
	userID, err := parseToken([]byte(h.Cfg.JWTSecret), tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return 0, false
	}
	return userID, true
}

// httpStatus maps the error taxonomy onto HTTP status codes.
func httpStatus(err error) int {
	switch apperr.Code(err) {
	case "not_found":
		return http.StatusNotFound
	case "already_exists":
		return http.StatusConflict
	case "unauthorized":
		return http.StatusUnauthorized
	case "bad_request":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type signUpMatchRequest struct {
	PostingID int64 `json:"postingId" binding:"required"`
	HostID    int64 `json:"hostId" binding:"required"`
}

// SignUpMatch lets the authenticated user ask to join a posting.
func (h *Handler) SignUpMatch(c *gin.Context) {
	guestID, ok := h.authedUserID(c)
	if !ok {
		return
	}
	var req signUpMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postingId and hostId are required"})
		return
	}
	alarm, err := h.Alarms.SignUpMatch(req.PostingID, req.HostID, guestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alarmId": alarm.ID})
}

// ListAlarms renders the caller's alarm inbox.
func (h *Handler) ListAlarms(c *gin.Context) {
	userID, ok := h.authedUserID(c)
	if !ok {
		return
	}
	entries, err := h.Alarms.AlarmsForUser(userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// PendingAlarms returns the caller's alarms still awaiting an answer.
func (h *Handler) PendingAlarms(c *gin.Context) {
	userID, ok := h.authedUserID(c)
	if !ok {
		return
	}
	alarms, err := h.Alarms.PendingApply(userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, alarms)
}

type answerAlarmRequest struct {
	Apply *bool `json:"apply" binding:"required"`
}

// AnswerAlarm records the host's decision on a participation request.
func (h *Handler) AnswerAlarm(c *gin.Context) {
	if _, ok := h.authedUserID(c); !ok {
		return
	}
	alarmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "alarm id must be an integer"})
		return
	}
	var req answerAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apply is required"})
		return
	}
	if err := h.Alarms.AnswerAlarm(alarmID, *req.Apply); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alarmId": alarmID, "apply": *req.Apply})
}

// RoomSignedUp reports whether the guest of a room has asked to join
// its posting.
func (h *Handler) RoomSignedUp(c *gin.Context) {
	if _, ok := h.authedUserID(c); !ok {
		return
	}
	signedUp, err := h.Alarms.GuestSignedUp(c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signedUp": signedUp})
}

// SubmitReviews persists the caller's post-match reviews.
func (h *Handler) SubmitReviews(c *gin.Context) {
	reviewerID, ok := h.authedUserID(c)
	if !ok {
		return
	}
	var items []review.CreateReview
	if err := c.ShouldBindJSON(&items); err != nil || len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a non-empty review list is required"})
		return
	}
	if err := h.Reviews.SubmitReviews(reviewerID, items); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": len(items)})
}
