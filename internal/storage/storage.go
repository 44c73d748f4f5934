// Package storage is the persistence gateway: durable entities live in
// PostgreSQL behind gorm, realtime fan-out and the outbound push queue
// live in Redis.
package storage

import (
	"context"
	"errors"
	"fmt"

	"matchday/backend/internal/apperr"
	"matchday/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the gateway surface the chat core and its collaborators
// consume. Tests substitute it with a testify mock.
type Storage interface {
	// Users
	GetUserByID(userID int64) (*models.User, error)
	SaveUser(user *models.User) error

	// Rooms
	CreateRoomIfAbsent(hostID, guestID, postingID int64) (*models.ChatRoom, bool, error)
	GetRoomByName(roomName string) (*models.ChatRoom, error)
	FindRoomsForUser(userID int64) ([]models.ChatRoom, error)

	// Messages
	SaveMessage(msg *models.Message) error
	GetChatHistory(roomID int64) ([]models.Message, error)
	GetLastMessage(roomID int64) (*models.Message, error)
	CountUnreadMessages(roomID int64) (int64, error)
	MarkMessagesRead(roomID, readerID int64) error

	// Realtime fan-out
	PublishRoomEvent(evt models.RoomEvent) error

	// Postings and match alarms
	GetPostingByID(postingID int64) (*models.Posting, error)
	SaveMatchAlarm(alarm *models.MatchAlarm) error
	GetMatchAlarmByID(alarmID int64) (*models.MatchAlarm, error)
	FindMatchAlarmsForUser(userID int64) ([]models.MatchAlarm, error)
	HasMatchAlarm(postingID, hostID, guestID int64) (bool, error)
	SetMatchAlarmApply(alarmID int64, apply bool) error

	// Reviews
	SaveReview(review *models.Review) error

	// Push queue
	EnqueuePush(req models.PushRequest) error
	DequeuePush(ctx context.Context) (*models.PushRequest, error)
}

// Service implements Storage over gorm and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService constructs the gateway. The gorm handle must be opened
// with TranslateError so unique-constraint violations surface as
// gorm.ErrDuplicatedKey.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// GetUserByID loads a user or reports NotFound.
func (s *Service) GetUserByID(userID int64) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("user %d", userID))
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser upserts a user row.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// CreateRoomIfAbsent creates the room for a pair, with both member rows,
// in a single insert guarded by the unique room-name constraint. The
// second return value reports whether this call created the room; a
// duplicate-key result means another caller won the race and the
// existing room is returned instead.
func (s *Service) CreateRoomIfAbsent(hostID, guestID, postingID int64) (*models.ChatRoom, bool, error) {
	room := &models.ChatRoom{
		RoomName:  models.RoomNameFor(hostID, guestID),
		PostingID: postingID,
		Members: []models.RoomMember{
			{UserID: hostID, IsHost: true},
			{UserID: guestID},
		},
	}
	err := s.DB.Create(room).Error
	if err == nil {
		return room, true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, gerr := s.GetRoomByName(room.RoomName)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	return nil, false, err
}

// GetRoomByName resolves a room by name, tolerating either orientation
// of the participant pair. Reports NotFound when neither exists.
func (s *Service) GetRoomByName(roomName string) (*models.ChatRoom, error) {
	room, err := s.roomByExactName(roomName)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if flipped := models.FlipRoomName(roomName); flipped != roomName {
		room, err = s.roomByExactName(flipped)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, apperr.NotFound("room " + roomName)
}

func (s *Service) roomByExactName(roomName string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Preload("Members").Where("room_name = ?", roomName).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindRoomsForUser returns every room the user participates in.
func (s *Service) FindRoomsForUser(userID int64) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.
		Joins("JOIN room_members ON room_members.room_id = chat_rooms.room_id").
		Where("room_members.user_id = ?", userID).
		Preload("Members").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
