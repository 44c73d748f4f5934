package storage

import (
	"encoding/json"
	"errors"

	"matchday/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// chatChannelPrefix namespaces the per-room Pub/Sub channels; the hub
// pattern-subscribes to chatChannelPrefix + "*".
const chatChannelPrefix = "chat."

// ChatChannel returns the Redis channel for a room.
func ChatChannel(roomName string) string {
	return chatChannelPrefix + roomName
}

// RoomNameFromChannel strips the channel prefix back off.
func RoomNameFromChannel(channel string) string {
	if len(channel) <= len(chatChannelPrefix) {
		return ""
	}
	return channel[len(chatChannelPrefix):]
}

// SaveMessage appends one message; ChatTime is set by the database.
func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Create(msg).Error
}

// GetChatHistory returns the full message history of a room in creation
// order. The message id breaks ties between same-timestamp inserts.
func (s *Service) GetChatHistory(roomID int64) ([]models.Message, error) {
	var history []models.Message
	err := s.DB.
		Where("room_id = ?", roomID).
		Order("chat_time asc, message_id asc").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// GetLastMessage returns the most recent message of a room, or nil when
// the room has no messages yet.
func (s *Service) GetLastMessage(roomID int64) (*models.Message, error) {
	var msg models.Message
	err := s.DB.
		Where("room_id = ?", roomID).
		Order("chat_time desc, message_id desc").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountUnreadMessages counts the messages of a room with the unread
// flag still set.
func (s *Service) CountUnreadMessages(roomID int64) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND is_read = ?", roomID, false).
		Count(&count).Error
	return count, err
}

// MarkMessagesRead flips the unread flag on every message of the room
// the reader did not send themselves.
func (s *Service) MarkMessagesRead(roomID, readerID int64) error {
	return s.DB.Model(&models.Message{}).
		Where("room_id = ? AND user_id <> ? AND is_read = ?", roomID, readerID, false).
		Update("is_read", true).Error
}

// PublishRoomEvent publishes a broadcast onto the room's channel so
// every hub instance can deliver it to its local subscribers.
func (s *Service) PublishRoomEvent(evt models.RoomEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, ChatChannel(evt.RoomName), payload).Err()
}

// SubscribeRooms pattern-subscribes to every room channel. The caller
// owns the returned subscription and must close it.
func (s *Service) SubscribeRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, chatChannelPrefix+"*")
}
