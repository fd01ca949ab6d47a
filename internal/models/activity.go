package models

import "time"

// UserActivity is one room search event. Rows are append-only; MessagesSent is
// always 1 and totals are obtained by counting rows.
type UserActivity struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                int64     `gorm:"not null;index" json:"user_id"`
	MessagesSent          int       `gorm:"not null;default:1" json:"messages_sent"`
	LastClassroomSearched string    `gorm:"size:16;not null" json:"last_classroom_searched"`
	Time                  time.Time `gorm:"not null;index" json:"time"`
}
