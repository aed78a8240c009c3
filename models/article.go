package models

import "time"

// Article represents a published content unit with engagement counters.
// Likes, comments and views are server-maintained and must never be taken
// from client input on update paths.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Excerpt     string    `gorm:"type:text;not null" json:"excerpt"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Category    string    `gorm:"size:64;index;not null" json:"category"`
	Author      string    `gorm:"size:128;not null" json:"author"`
	AuthorRole  string    `gorm:"size:128" json:"authorRole"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl"`
	PublishedAt time.Time `gorm:"index;not null" json:"publishedAt"`
	Likes       int64     `gorm:"not null;default:0" json:"likes"`
	Comments    int64     `gorm:"not null;default:0" json:"comments"`
	Featured    bool      `gorm:"not null;default:false" json:"featured"`
	Views       int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
