package models

import (
	"github.com/lib/pq"
)

// User represents an account in the matching service.
// The chat core treats users as read-mostly: profile edits happen
// elsewhere, chat only resolves names, images and notification targets.
type User struct {
	// UserID is the numeric identity asserted by clients on chat events.
	UserID int64 `gorm:"primaryKey;autoIncrement" json:"user_id"`
	// Name is the display name shown as the chat nickname.
	Name string `gorm:"type:text;not null" json:"name"`
	// Image is a reference to the stored profile image, never the bytes.
	Image string `gorm:"type:text" json:"image"`
	// Positions holds the positions the user plays, as free-form tags.
	Positions pq.StringArray `gorm:"type:text[]" json:"positions"`
	// Overall is the accumulated review score.
	Overall int `json:"overall"`
	// PushToken is the Expo device token; empty when the user never
	// granted notification permission.
	PushToken string `gorm:"type:text" json:"-"`
	// TelegramChatID links an optional Telegram chat for notifications.
	TelegramChatID int64 `gorm:"index" json:"-"`
}
