package models

import "time"

// MatchAlarm records a guest's request to join a posting. UserID is the
// host being asked, OpponentID the guest asking. IsApply stays nil until
// the host answers.
type MatchAlarm struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	PostingID  int64 `gorm:"not null;index"`
	UserID     int64 `gorm:"not null;index"`
	OpponentID int64 `gorm:"not null;index"`
	IsApply    *bool
	CreatedAt  time.Time
}

// Posting is the minimal slice of a match listing the chat core needs:
// enough to link rooms and render alarm entries. Match CRUD lives in a
// different service.
type Posting struct {
	PostingID int64  `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"not null;index"`
	Title     string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// AlarmEntry is one rendered inbox item: the alarm joined with the
// opponent's profile and the posting title.
type AlarmEntry struct {
	Image        string    `json:"image"`
	Nickname     string    `json:"nickname"`
	GuestID      int64     `json:"guestId"`
	PostingID    int64     `json:"postingId"`
	PostingTitle string    `json:"postingTitle"`
	IsApply      *bool     `json:"isApply"`
	CreatedAt    time.Time `json:"createdAt"`
}
