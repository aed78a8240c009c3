package models

import "time"

// Category is reference data; articles point at it by Name as a loose
// string tag rather than an enforced relational constraint.
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	NameGeorgian string    `gorm:"size:128;not null" json:"nameGeorgian"`
	Description  string    `gorm:"size:512" json:"description"`
	Color        string    `gorm:"size:64" json:"color"`
	CreatedAt    time.Time `json:"created_at"`
}
