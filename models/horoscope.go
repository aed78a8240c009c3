package models

import "time"

// Horoscope holds one dated entry per zodiac sign. Multiple historical rows
// per sign may coexist; the "current" entry is the most recently dated one.
type Horoscope struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ZodiacSign         string    `gorm:"size:32;index;not null" json:"zodiacSign"`
	ZodiacSignGeorgian string    `gorm:"size:64;not null" json:"zodiacSignGeorgian"`
	Content            string    `gorm:"type:text;not null" json:"content"`
	Date               time.Time `gorm:"index;not null" json:"date"`
	CreatedAt          time.Time `json:"created_at"`
}
