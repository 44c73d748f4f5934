package models

import "time"

// Review is one post-match peer review. Only persistence lives here;
// how reviews turn into an overall score is not chat's concern.
type Review struct {
	ReviewID   int64  `gorm:"primaryKey;autoIncrement"`
	ReviewerID int64  `gorm:"not null;index"`
	TargetID   int64  `gorm:"not null;index"`
	IsPositive bool   `gorm:"not null"`
	IsJoin     bool   `gorm:"not null"`
	Comment    string `gorm:"type:text"`
	CreatedAt  time.Time
}
