package models

import "time"

// Message is one persisted chat message. Append-only; IsRead flips when
// the counterpart views the room. The JSON field names follow the client
// contract for history records.
type Message struct {
	MessageID int64     `gorm:"primaryKey;autoIncrement" json:"Message_id"`
	RoomID    int64     `gorm:"not null;index:idx_room_time" json:"Room_id"`
	UserID    int64     `gorm:"not null" json:"User_id"`
	Msg       string    `gorm:"type:text;not null" json:"Msg"`
	ChatTime  time.Time `gorm:"autoCreateTime;index:idx_room_time" json:"ChatTime"`
	IsRead    bool      `gorm:"not null;default:false" json:"IsRead"`
}
