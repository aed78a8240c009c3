package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/utils"
)

// ViewTracker counts each (article, session) pair at most once while recording
// every first contact in the dedup ledger. Correctness under concurrent
// requests rests on the ledger's unique constraint, not application locks.
type ViewTracker struct {
	db *gorm.DB
}

// NewViewTracker creates a ViewTracker instance.
func NewViewTracker(db *gorm.DB) *ViewTracker {
	return &ViewTracker{db: db}
}

// RegisterView records a visit for the given article and session, and returns
// whether this call incremented the visible view counter.
//
// The caller is responsible for having verified the article exists. Any
// storage error is logged and reported as "not counted"; view accounting must
// never fail the surrounding article read.
//
// The insert uses ON CONFLICT DO NOTHING against the (article_id, session_id)
// unique index, and the counter increment runs only when that insert actually
// affected a row. A racer that loses the insert therefore performs zero
// increments, so two concurrent first-contact requests from one session can
// never double count.
func (t *ViewTracker) RegisterView(articleID uint, sessionID, ipAddress, userAgent string) bool {
	if sessionID == "" {
		return false
	}

	// Fast path for repeat visits; the common case by far.
	var existing int64
	err := t.db.Model(&models.ArticleView{}).
		Where("article_id = ? AND session_id = ?", articleID, sessionID).
		Count(&existing).Error
	if err != nil {
		utils.Sugar.Warnf("view dedup lookup failed article=%d session=%s: %v", articleID, sessionID, err)
		return false
	}
	if existing > 0 {
		return false
	}

	view := models.ArticleView{
		ArticleID: articleID,
		SessionID: sessionID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ViewedAt:  time.Now(),
	}
	res := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "article_id"}, {Name: "session_id"}},
		DoNothing: true,
	}).Create(&view)
	if res.Error != nil {
		utils.Sugar.Warnf("view record insert failed article=%d session=%s: %v", articleID, sessionID, res.Error)
		return false
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent request from the same session.
		return false
	}

	if err := t.db.Model(&models.Article{}).
		Where("id = ?", articleID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.Sugar.Warnf("view counter increment failed article=%d: %v", articleID, err)
		return false
	}

	return true
}

// ViewStats summarizes an article's accounting state: the visible counter and
// the ledger depth behind it.
type ViewStats struct {
	Views          int64 `json:"views"`
	UniqueSessions int64 `json:"uniqueSessions"`
	Likes          int64 `json:"likes"`
	Comments       int64 `json:"comments"`
}

// Stats returns counters for one article. Ledger errors degrade to zero
// rather than failing the endpoint.
func (t *ViewTracker) Stats(articleID uint) (ViewStats, error) {
	var article models.Article
	if err := t.db.First(&article, articleID).Error; err != nil {
		return ViewStats{}, err
	}

	var sessions int64
	if err := t.db.Model(&models.ArticleView{}).
		Where("article_id = ?", articleID).
		Count(&sessions).Error; err != nil {
		utils.Sugar.Warnf("view ledger count failed article=%d: %v", articleID, err)
		sessions = 0
	}

	return ViewStats{
		Views:          article.Views,
		UniqueSessions: sessions,
		Likes:          article.Likes,
		Comments:       article.Comments,
	}, nil
}
