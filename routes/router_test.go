package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mnatobi/astroinsights/config"
	"github.com/mnatobi/astroinsights/middleware"
	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/utils"
)

type envelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Error       *utils.APIError `json:"error"`
	ViewCounted *bool           `json:"viewCounted"`
	Pagination  *struct {
		Limit  int   `json:"limit"`
		Offset int   `json:"offset"`
		Total  int64 `json:"total"`
	} `json:"pagination"`
}

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "router-test-secret",
		GinMode:            "test",
		RateLimitPerMinute: 600,
		AllowedOrigins:     []string{"*"},
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db,
		&models.Article{}, &models.ArticleView{}, &models.Category{},
		&models.Horoscope{}, &models.User{}, &models.Subscriber{},
	))

	return SetupRouter(db), db
}

func seedArticles(t *testing.T, db *gorm.DB, n int) []models.Article {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := make([]models.Article, 0, n)
	for i := 0; i < n; i++ {
		a := models.Article{
			Title:       fmt.Sprintf("სტატია %d", i+1),
			Excerpt:     fmt.Sprintf("excerpt %d", i+1),
			Content:     fmt.Sprintf("content body %d", i+1),
			Category:    "astrology",
			Author:      "ნინო ხარატიშვილი",
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&a).Error)
		articles = append(articles, a)
	}
	return articles
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func do(r *gin.Engine, method, path string, body interface{}, mods ...func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, mod := range mods {
		mod(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func withSession(id string) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: id})
	}
}

func withToken(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, time.Hour)
	require.NoError(t, err)
	return token
}

func TestHealth(t *testing.T) {
	r, _ := setup(t)
	w, env := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestUnknownRouteEnvelope(t *testing.T) {
	r, _ := setup(t)
	w, env := do(r, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)
}

func TestSessionCookieIssued(t *testing.T) {
	r, _ := setup(t)
	w, _ := do(r, http.MethodGet, "/health", nil)

	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			found = c
		}
	}
	require.NotNil(t, found, "session cookie must be set on first contact")
	assert.NotEmpty(t, found.Value)
	assert.True(t, found.HttpOnly)
}

func TestGetArticleInvalidID(t *testing.T) {
	r, _ := setup(t)

	for _, path := range []string{"/api/articles/abc", "/api/articles/0", "/api/articles/-3"} {
		w, env := do(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, utils.CodeValidation, env.Error.Code, path)
	}
}

func TestGetArticleNotFoundLeavesNoLedgerRow(t *testing.T) {
	r, db := setup(t)

	w, env := do(r, http.MethodGet, "/api/articles/999", nil, withSession("s1"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)

	var ledger int64
	require.NoError(t, db.Model(&models.ArticleView{}).Count(&ledger).Error)
	assert.Zero(t, ledger)
}

func TestGetArticleViewCounting(t *testing.T) {
	r, db := setup(t)
	articles := seedArticles(t, db, 1)
	path := fmt.Sprintf("/api/articles/%d", articles[0].ID)

	// First visit from s1 counts and the payload already reflects it.
	w, env := do(r, http.MethodGet, path, nil, withSession("s1"))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.ViewCounted)
	assert.True(t, *env.ViewCounted)
	var payload models.Article
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.EqualValues(t, 1, payload.Views)

	// Repeat visit from s1 does not count.
	_, env = do(r, http.MethodGet, path, nil, withSession("s1"))
	require.NotNil(t, env.ViewCounted)
	assert.False(t, *env.ViewCounted)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.EqualValues(t, 1, payload.Views)

	// A different session counts again.
	_, env = do(r, http.MethodGet, path, nil, withSession("s2"))
	require.NotNil(t, env.ViewCounted)
	assert.True(t, *env.ViewCounted)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.EqualValues(t, 2, payload.Views)
}

func TestListArticlesPagination(t *testing.T) {
	r, db := setup(t)
	seedArticles(t, db, 5)

	w, env := do(r, http.MethodGet, "/api/articles?limit=2&offset=0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Limit)
	assert.EqualValues(t, 5, env.Pagination.Total)

	var first []models.Article
	require.NoError(t, json.Unmarshal(env.Data, &first))
	require.Len(t, first, 2)

	_, env = do(r, http.MethodGet, "/api/articles?limit=2&offset=2", nil)
	var second []models.Article
	require.NoError(t, json.Unmarshal(env.Data, &second))
	require.Len(t, second, 2)

	// Newest first, and the two pages are disjoint.
	assert.True(t, first[0].PublishedAt.After(first[1].PublishedAt))
	for _, a := range first {
		for _, b := range second {
			assert.NotEqual(t, a.ID, b.ID)
		}
	}
}

func TestListArticlesMalformedPaginationFallsBack(t *testing.T) {
	r, db := setup(t)
	seedArticles(t, db, 3)

	w, env := do(r, http.MethodGet, "/api/articles?limit=abc&offset=-5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 10, env.Pagination.Limit)
	assert.Equal(t, 0, env.Pagination.Offset)
}

func TestPopularArticlesOrdering(t *testing.T) {
	r, db := setup(t)
	articles := seedArticles(t, db, 3)
	require.NoError(t, db.Model(&articles[0]).Update("views", 5).Error)
	require.NoError(t, db.Model(&articles[1]).Update("views", 9).Error)
	require.NoError(t, db.Model(&articles[2]).Update("views", 1).Error)

	w, env := do(r, http.MethodGet, "/api/articles/popular?limit=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var popular []models.Article
	require.NoError(t, json.Unmarshal(env.Data, &popular))
	require.Len(t, popular, 2)
	assert.Equal(t, articles[1].ID, popular[0].ID)
	assert.Equal(t, articles[0].ID, popular[1].ID)
}

func TestSearchArticles(t *testing.T) {
	r, db := setup(t)
	seedArticles(t, db, 3)

	w, env := do(r, http.MethodGet, "/api/articles/search/CONTENT", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var hits []models.Article
	require.NoError(t, json.Unmarshal(env.Data, &hits))
	assert.Len(t, hits, 3)

	// Search never mutates view counters.
	_, env = do(r, http.MethodGet, "/api/articles/search/CONTENT", nil)
	require.NoError(t, json.Unmarshal(env.Data, &hits))
	for _, a := range hits {
		assert.Zero(t, a.Views)
	}

	w, env = do(r, http.MethodGet, "/api/articles/search/%20%20", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeValidation, env.Error.Code)

	_, env = do(r, http.MethodGet, "/api/articles/search/nothinghere", nil)
	require.NoError(t, json.Unmarshal(env.Data, &hits))
	assert.Empty(t, hits)
}

func TestArticleStats(t *testing.T) {
	r, db := setup(t)
	articles := seedArticles(t, db, 1)
	path := fmt.Sprintf("/api/articles/%d", articles[0].ID)

	do(r, http.MethodGet, path, nil, withSession("s1"))
	do(r, http.MethodGet, path, nil, withSession("s2"))
	do(r, http.MethodGet, path, nil, withSession("s2"))

	w, env := do(r, http.MethodGet, path+"/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Views          int64 `json:"views"`
		UniqueSessions int64 `json:"uniqueSessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 2, stats.Views)
	assert.EqualValues(t, 2, stats.UniqueSessions)

	w, _ = do(r, http.MethodGet, "/api/articles/999/stats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	r, db := setup(t)
	seedUser(t, db, "tamar", models.RoleAdmin)

	w, env := do(r, http.MethodPost, "/api/auth/login", gin.H{"username": "tamar", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "tamar", login.User.Username)

	w, env = do(r, http.MethodGet, "/api/auth/me", nil, withToken(login.Token))
	assert.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "tamar", me.Username)

	w, env = do(r, http.MethodPost, "/api/auth/login", gin.H{"username": "tamar", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeUnauthorized, env.Error.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	r, db := setup(t)
	user := seedUser(t, db, "giorgi", models.RoleEditor)
	token := tokenFor(t, user)

	w, _ := do(r, http.MethodPost, "/api/auth/logout", nil, withToken(token))
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(r, http.MethodGet, "/api/auth/me", nil, withToken(token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeUnauthorized, env.Error.Code)
}

func TestCreateArticleRoleGating(t *testing.T) {
	r, db := setup(t)
	require.NoError(t, db.Create(&models.Category{Name: "astrology", NameGeorgian: "ასტროლოგია"}).Error)
	reader := seedUser(t, db, "reader", models.RoleReader)
	editor := seedUser(t, db, "editor", models.RoleEditor)

	payload := gin.H{
		"title":       "ახალი სტატია",
		"excerpt":     "მოკლე აღწერა",
		"content":     "<p>ტექსტი</p><script>alert(1)</script>",
		"category":    "astrology",
		"author":      "ნინო",
		"publishedAt": time.Now().UTC().Format(time.RFC3339),
	}

	w, env := do(r, http.MethodPost, "/api/articles", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeUnauthorized, env.Error.Code)

	w, env = do(r, http.MethodPost, "/api/articles", payload, withToken(tokenFor(t, reader)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeForbidden, env.Error.Code)

	w, env = do(r, http.MethodPost, "/api/articles", payload, withToken(tokenFor(t, editor)))
	assert.Equal(t, http.StatusCreated, w.Code)
	var created models.Article
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotZero(t, created.ID)
	assert.Zero(t, created.Views)
	assert.NotContains(t, created.Content, "<script>")

	// Unknown category is rejected at write time.
	payload["category"] = "cooking"
	w, env = do(r, http.MethodPost, "/api/articles", payload, withToken(tokenFor(t, editor)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeValidation, env.Error.Code)
}

func TestDeleteArticleAdminOnlyAndCascades(t *testing.T) {
	r, db := setup(t)
	articles := seedArticles(t, db, 1)
	editor := seedUser(t, db, "editor", models.RoleEditor)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	path := fmt.Sprintf("/api/articles/%d", articles[0].ID)

	do(r, http.MethodGet, path, nil, withSession("s1"))

	w, _ := do(r, http.MethodDelete, path, nil, withToken(tokenFor(t, editor)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(r, http.MethodDelete, path, nil, withToken(tokenFor(t, admin)))
	assert.Equal(t, http.StatusOK, w.Code)

	var remaining, ledger int64
	require.NoError(t, db.Model(&models.Article{}).Count(&remaining).Error)
	require.NoError(t, db.Model(&models.ArticleView{}).Count(&ledger).Error)
	assert.Zero(t, remaining)
	assert.Zero(t, ledger)
}

func TestCategories(t *testing.T) {
	r, db := setup(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	w, _ := do(r, http.MethodPost, "/api/categories",
		gin.H{"name": "Tarot", "nameGeorgian": "ტარო", "color": "#7c3aed"},
		withToken(tokenFor(t, admin)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env := do(r, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "tarot", cats[0].Name)

	w, env = do(r, http.MethodGet, "/api/categories/tarot", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(r, http.MethodGet, "/api/categories/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)

	// Duplicate name rejected.
	w, env = do(r, http.MethodPost, "/api/categories",
		gin.H{"name": "tarot", "nameGeorgian": "ტარო"},
		withToken(tokenFor(t, admin)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeValidation, env.Error.Code)
}

func TestHoroscopeLatestByDate(t *testing.T) {
	r, db := setup(t)
	require.NoError(t, db.Create(&models.Horoscope{
		ZodiacSign: "leo", ZodiacSignGeorgian: "ლომი",
		Content: "old", Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&models.Horoscope{
		ZodiacSign: "leo", ZodiacSignGeorgian: "ლომი",
		Content: "fresh", Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	w, env := do(r, http.MethodGet, "/api/horoscopes/LEO", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var h models.Horoscope
	require.NoError(t, json.Unmarshal(env.Data, &h))
	assert.Equal(t, "fresh", h.Content)

	w, env = do(r, http.MethodGet, "/api/horoscopes/ophiuchus", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)
}

func TestNewsletterSubscribe(t *testing.T) {
	r, db := setup(t)

	w, env := do(r, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "Keti@Example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	// Repeat signup is idempotent.
	w, _ = do(r, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "keti@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Subscriber{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	w, env = do(r, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeValidation, env.Error.Code)
}

func TestAdminUserManagement(t *testing.T) {
	r, db := setup(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	editor := seedUser(t, db, "editor", models.RoleEditor)

	w, _ := do(r, http.MethodGet, "/api/admin/users", nil, withToken(tokenFor(t, editor)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := do(r, http.MethodPost, "/api/admin/users",
		gin.H{"username": "salome", "email": "salome@example.com", "password": "hunter22", "role": models.RoleEditor},
		withToken(tokenFor(t, admin)))
	assert.Equal(t, http.StatusCreated, w.Code)
	var created models.User
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.RoleEditor, created.Role)

	w, env = do(r, http.MethodPost, "/api/admin/users",
		gin.H{"username": "bad", "email": "bad@example.com", "password": "hunter22", "role": "superuser"},
		withToken(tokenFor(t, admin)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(r, http.MethodGet, "/api/admin/users", nil, withToken(tokenFor(t, admin)))
	assert.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 3)

	// Password hashes never serialize.
	assert.NotContains(t, string(env.Data), "password")
}
