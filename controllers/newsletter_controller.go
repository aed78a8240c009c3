package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/utils"
)

// NewsletterController records newsletter signups.
type NewsletterController struct {
	db *gorm.DB
}

// NewNewsletterController creates a new NewsletterController instance.
func NewNewsletterController(db *gorm.DB) *NewsletterController {
	return &NewsletterController{db: db}
}

// Subscribe stores an email address. Repeat signups are absorbed by the
// unique index with a do-nothing insert, so the endpoint is idempotent.
func (n *NewsletterController) Subscribe(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "valid email address is required")
		return
	}

	sub := models.Subscriber{Email: strings.ToLower(strings.TrimSpace(req.Email))}
	if err := n.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&sub).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to subscribe")
		return
	}

	utils.Success(ctx, gin.H{"message": "successfully subscribed to newsletter"})
}
