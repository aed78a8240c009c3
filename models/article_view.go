package models

import "time"

// ArticleView is the append-only dedup ledger: one row per (article, session)
// pair that has already been counted. The composite unique index is what
// absorbs concurrent duplicate inserts; rows are never updated or deleted
// outside of article deletion.
type ArticleView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"index:idx_article_session,unique;not null" json:"article_id"`
	SessionID string    `gorm:"index:idx_article_session,unique;size:64;not null" json:"session_id"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	ViewedAt  time.Time `gorm:"not null" json:"viewed_at"`
}
