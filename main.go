package main

import (
	"github.com/mnatobi/astroinsights/config"
	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/routes"
	"github.com/mnatobi/astroinsights/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Article{}, &models.ArticleView{}, &models.Category{},
		&models.Horoscope{}, &models.User{}, &models.Subscriber{},
	)

	if err := models.SeedContent(db); err != nil {
		utils.Sugar.Warnf("content seeding failed: %v", err)
	}
	accounts := []models.SeedAccount{
		{Username: "admin", Email: cfg.AdminEmail, Password: cfg.AdminPassword, Role: models.RoleAdmin},
		{Username: "editor", Email: cfg.EditorEmail, Password: cfg.EditorPassword, Role: models.RoleEditor},
	}
	if err := models.SeedUsers(db, accounts); err != nil {
		utils.Sugar.Warnf("account seeding failed: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
