package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"matchday/backend/internal/apperr"
	"matchday/backend/internal/models"

	"gorm.io/gorm"
)

// pushQueueKey is the Redis list the alarm dispatcher consumes.
const pushQueueKey = "push_queue"

// GetPostingByID loads a posting or reports NotFound.
func (s *Service) GetPostingByID(postingID int64) (*models.Posting, error) {
	var posting models.Posting
	err := s.DB.First(&posting, postingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("posting %d", postingID))
	}
	if err != nil {
		return nil, err
	}
	return &posting, nil
}

// SaveMatchAlarm records one participation request.
func (s *Service) SaveMatchAlarm(alarm *models.MatchAlarm) error {
	return s.DB.Create(alarm).Error
}

// GetMatchAlarmByID loads one alarm or reports NotFound.
func (s *Service) GetMatchAlarmByID(alarmID int64) (*models.MatchAlarm, error) {
	var alarm models.MatchAlarm
	err := s.DB.First(&alarm, alarmID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("alarm %d", alarmID))
	}
	if err != nil {
		return nil, err
	}
	return &alarm, nil
}

// FindMatchAlarmsForUser returns the alarms a user is involved in on
// either side, newest first.
func (s *Service) FindMatchAlarmsForUser(userID int64) ([]models.MatchAlarm, error) {
	var alarms []models.MatchAlarm
	err := s.DB.
		Where("user_id = ? OR opponent_id = ?", userID, userID).
		Order("created_at desc").
		Find(&alarms).Error
	if err != nil {
		return nil, err
	}
	return alarms, nil
}

// HasMatchAlarm reports whether a participation request already exists
// for the posting/host/guest triple.
func (s *Service) HasMatchAlarm(postingID, hostID, guestID int64) (bool, error) {
	var count int64
	err := s.DB.Model(&models.MatchAlarm{}).
		Where("posting_id = ? AND user_id = ? AND opponent_id = ?", postingID, hostID, guestID).
		Count(&count).Error
	return count > 0, err
}

// SetMatchAlarmApply records the host's answer on an alarm.
func (s *Service) SetMatchAlarmApply(alarmID int64, apply bool) error {
	res := s.DB.Model(&models.MatchAlarm{}).
		Where("id = ?", alarmID).
		Update("is_apply", apply)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("alarm %d", alarmID))
	}
	return nil
}

// SaveReview persists one peer review.
func (s *Service) SaveReview(review *models.Review) error {
	return s.DB.Create(review).Error
}

// EnqueuePush appends a notification to the outbound queue. Chat-core
// paths call this fire-and-forget; delivery is the dispatcher's job.
func (s *Service) EnqueuePush(req models.PushRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return s.Redis.LPush(s.Ctx, pushQueueKey, payload).Err()
}

// DequeuePush blocks until a queued notification is available or the
// context is cancelled.
func (s *Service) DequeuePush(ctx context.Context) (*models.PushRequest, error) {
	res, err := s.Redis.BRPop(ctx, 0, pushQueueKey).Result()
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value].
	var req models.PushRequest
	if err := json.Unmarshal([]byte(res[1]), &req); err != nil {
		return nil, err
	}
	return &req, nil
}
