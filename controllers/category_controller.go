package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/utils"
)

// CategoryController serves category reference data.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// ListCategories returns all categories.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := c.db.Order("id").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch categories")
		return
	}
	utils.Success(ctx, categories)
}

// GetCategory returns one category by its machine name.
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Param("name"))

	var category models.Category
	if err := c.db.Where("name = ?", name).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch category")
		return
	}
	utils.Success(ctx, category)
}

// CreateCategory allows admins to add reference data.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required,min=1,max=64"`
		NameGeorgian string `json:"nameGeorgian" binding:"required"`
		Description  string `json:"description"`
		Color        string `json:"color"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))

	var count int64
	if err := c.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to create category")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "category already exists")
		return
	}

	category := models.Category{
		Name:         name,
		NameGeorgian: utils.SanitizePlain(req.NameGeorgian),
		Description:  utils.SanitizePlain(req.Description),
		Color:        req.Color,
	}
	if err := c.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to create category")
		return
	}
	utils.Created(ctx, category)
}
