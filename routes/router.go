package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mnatobi/astroinsights/config"
	"github.com/mnatobi/astroinsights/controllers"
	"github.com/mnatobi/astroinsights/middleware"
	"github.com/mnatobi/astroinsights/services"
	"github.com/mnatobi/astroinsights/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file; recovery responds with the API envelope.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Visitor identity for view dedup; issued on first contact.
	r.Use(middleware.VisitorSession())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	tracker := services.NewViewTracker(db)
	articleController := controllers.NewArticleController(db, tracker)
	categoryController := controllers.NewCategoryController(db)
	horoscopeController := controllers.NewHoroscopeController(db)
	authController := controllers.NewAuthController(db)
	newsletterController := controllers.NewNewsletterController(db)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	articles := api.Group("/articles")
	articles.GET("", articleController.ListArticles)
	articles.GET("/popular", articleController.PopularArticles)
	articles.GET("/search/:query", articleController.SearchArticles)
	articles.GET("/:id", articleController.GetArticle)
	articles.GET("/:id/stats", articleController.GetArticleStats)

	api.GET("/categories", categoryController.ListCategories)
	api.GET("/categories/:name", categoryController.GetCategory)
	api.GET("/horoscopes/:sign", horoscopeController.GetHoroscope)
	api.POST("/newsletter/subscribe", newsletterController.Subscribe)

	// Write surface: editors and admins manage content, admins manage users.
	editors := api.Group("")
	editors.Use(middleware.AuthRequired(), middleware.RequireRole("admin", "editor"), middleware.RateLimitMiddleware())
	editors.POST("/articles", articleController.CreateArticle)
	editors.PUT("/articles/:id", articleController.UpdateArticle)
	editors.POST("/horoscopes", horoscopeController.CreateHoroscope)

	admins := api.Group("")
	admins.Use(middleware.AuthRequired(), middleware.RequireRole("admin"), middleware.RateLimitMiddleware())
	admins.DELETE("/articles/:id", articleController.DeleteArticle)
	admins.POST("/categories", categoryController.CreateCategory)
	admins.GET("/admin/users", authController.ListUsers)
	admins.POST("/admin/users", authController.CreateUser)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "route not found")
	})

	return r
}
