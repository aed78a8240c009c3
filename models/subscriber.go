package models

import "time"

// Subscriber stores newsletter signups. Email is unique; repeat signups are
// absorbed with a do-nothing insert.
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
