package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mnatobi/astroinsights/middleware"
	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/services"
	"github.com/mnatobi/astroinsights/utils"
)

const (
	defaultListLimit    = 10
	defaultPopularLimit = 5
	maxSearchResults    = 50

	listCachePrefix = "cache:articles:"
)

// ArticleController serves the article read surface and the admin write surface.
type ArticleController struct {
	db      *gorm.DB
	tracker *services.ViewTracker
}

// NewArticleController creates a new ArticleController instance.
func NewArticleController(db *gorm.DB, tracker *services.ViewTracker) *ArticleController {
	return &ArticleController{db: db, tracker: tracker}
}

// cachedEnvelope mirrors the JSON envelope so list responses can be cached
// and replayed byte-for-byte.
type cachedEnvelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// ListArticles returns articles ordered by publish time descending, optionally
// filtered by category and featured flag, with limit/offset pagination.
// Malformed pagination values fall back to defaults rather than erroring.
func (a *ArticleController) ListArticles(ctx *gin.Context) {
	limit := parseIntDefault(ctx.Query("limit"), defaultListLimit)
	offset := parseIntDefault(ctx.Query("offset"), 0)
	category := strings.TrimSpace(ctx.Query("category"))
	featured := ctx.Query("featured")

	cacheKey := fmt.Sprintf("%slist:cat=%s:feat=%s:limit=%d:offset=%d", listCachePrefix, category, featured, limit, offset)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	query := a.db.Model(&models.Article{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	switch featured {
	case "true":
		query = query.Where("featured = ?", true)
	case "false":
		query = query.Where("featured = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch articles")
		return
	}

	var articles []models.Article
	if err := query.Order("published_at DESC").Offset(offset).Limit(limit).Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch articles")
		return
	}

	pagination := gin.H{"limit": limit, "offset": offset, "total": total}
	utils.CacheSetJSON(cacheKey, cachedEnvelope{Success: true, Data: articles, Pagination: pagination}, 10*time.Minute)
	utils.SuccessWith(ctx, articles, gin.H{"pagination": pagination})
}

// GetArticle serves a single article and triggers view accounting as a side
// effect. Accounting failures never fail the read; the response carries a
// viewCounted flag stating whether this request incremented the counter.
func (a *ArticleController) GetArticle(ctx *gin.Context) {
	id, ok := parseArticleID(ctx)
	if !ok {
		return
	}

	var article models.Article
	if err := a.db.First(&article, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch article")
		return
	}

	sessionID := middleware.SessionID(ctx)
	counted := a.tracker.RegisterView(article.ID, sessionID, ctx.ClientIP(), ctx.Request.UserAgent())
	if counted {
		article.Views++
	}

	utils.SuccessWith(ctx, article, gin.H{"viewCounted": counted})
}

// PopularArticles returns the most viewed articles, likes as tie-break.
func (a *ArticleController) PopularArticles(ctx *gin.Context) {
	limit := parseIntDefault(ctx.Query("limit"), defaultPopularLimit)

	var articles []models.Article
	if err := a.db.Order("views DESC, likes DESC").Limit(limit).Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch popular articles")
		return
	}
	utils.Success(ctx, articles)
}

// SearchArticles does a case-insensitive substring match on title, excerpt and
// body, newest first, capped at a fixed maximum.
func (a *ArticleController) SearchArticles(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Param("query"))
	if query == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "search query is required")
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var articles []models.Article
	if err := a.db.
		Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern, pattern).
		Order("published_at DESC").
		Limit(maxSearchResults).
		Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to search articles")
		return
	}
	utils.Success(ctx, articles)
}

// GetArticleStats returns the counter snapshot and dedup ledger depth for one article.
func (a *ArticleController) GetArticleStats(ctx *gin.Context) {
	id, ok := parseArticleID(ctx)
	if !ok {
		return
	}

	stats, err := a.tracker.Stats(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch article stats")
		return
	}
	utils.Success(ctx, stats)
}

// CreateArticle allows editors and admins to publish a new article. Engagement
// counters always start at zero regardless of the payload.
func (a *ArticleController) CreateArticle(ctx *gin.Context) {
	var req struct {
		Title       string    `json:"title" binding:"required,min=1"`
		Excerpt     string    `json:"excerpt" binding:"required"`
		Content     string    `json:"content" binding:"required"`
		Category    string    `json:"category" binding:"required"`
		Author      string    `json:"author" binding:"required"`
		AuthorRole  string    `json:"authorRole"`
		ImageURL    string    `json:"imageUrl"`
		PublishedAt time.Time `json:"publishedAt" binding:"required"`
		Featured    bool      `json:"featured"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	title := utils.SanitizePlain(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "title cannot be empty")
		return
	}
	if !a.categoryExists(req.Category) {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "unknown category")
		return
	}

	article := models.Article{
		Title:       title,
		Excerpt:     utils.Sanitize(req.Excerpt),
		Content:     utils.Sanitize(req.Content),
		Category:    req.Category,
		Author:      utils.SanitizePlain(req.Author),
		AuthorRole:  utils.SanitizePlain(req.AuthorRole),
		ImageURL:    req.ImageURL,
		PublishedAt: req.PublishedAt,
		Featured:    req.Featured,
	}

	if err := a.db.Create(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to create article")
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Created(ctx, article)
}

// UpdateArticle edits content fields of an existing article. Counter fields
// are not accepted here; views move only through the dedup path.
func (a *ArticleController) UpdateArticle(ctx *gin.Context) {
	id, ok := parseArticleID(ctx)
	if !ok {
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Excerpt     *string    `json:"excerpt"`
		Content     *string    `json:"content"`
		Category    *string    `json:"category"`
		Author      *string    `json:"author"`
		AuthorRole  *string    `json:"authorRole"`
		ImageURL    *string    `json:"imageUrl"`
		PublishedAt *time.Time `json:"publishedAt"`
		Featured    *bool      `json:"featured"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	var article models.Article
	if err := a.db.First(&article, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to load article")
		return
	}

	if req.Title != nil {
		title := utils.SanitizePlain(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "title cannot be empty")
			return
		}
		article.Title = title
	}
	if req.Excerpt != nil {
		article.Excerpt = utils.Sanitize(*req.Excerpt)
	}
	if req.Content != nil {
		article.Content = utils.Sanitize(*req.Content)
	}
	if req.Category != nil {
		if !a.categoryExists(*req.Category) {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "unknown category")
			return
		}
		article.Category = *req.Category
	}
	if req.Author != nil {
		article.Author = utils.SanitizePlain(*req.Author)
	}
	if req.AuthorRole != nil {
		article.AuthorRole = utils.SanitizePlain(*req.AuthorRole)
	}
	if req.ImageURL != nil {
		article.ImageURL = *req.ImageURL
	}
	if req.PublishedAt != nil {
		article.PublishedAt = *req.PublishedAt
	}
	if req.Featured != nil {
		article.Featured = *req.Featured
	}

	if err := a.db.Save(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to update article")
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Success(ctx, article)
}

// DeleteArticle removes an article and its dedup ledger rows in one
// transaction. Hard delete; there is no tombstone.
func (a *ArticleController) DeleteArticle(ctx *gin.Context) {
	id, ok := parseArticleID(ctx)
	if !ok {
		return
	}

	var article models.Article
	if err := a.db.First(&article, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to load article")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to delete article")
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Success(ctx, gin.H{"message": "article deleted"})
}

func (a *ArticleController) categoryExists(name string) bool {
	var count int64
	if err := a.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// parseArticleID validates the :id path parameter; writes the 400 response
// itself so handlers can simply bail out.
func parseArticleID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid article id")
		return 0, false
	}
	return uint(id), true
}

// parseIntDefault falls back to def on malformed or negative values.
func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
