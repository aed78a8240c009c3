package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/utils"
)

// HoroscopeController serves daily horoscopes per zodiac sign.
type HoroscopeController struct {
	db *gorm.DB
}

// NewHoroscopeController creates a new HoroscopeController instance.
func NewHoroscopeController(db *gorm.DB) *HoroscopeController {
	return &HoroscopeController{db: db}
}

// GetHoroscope returns the current entry for a sign. Historical rows may
// coexist; retrieval is last-write-wins by date.
func (h *HoroscopeController) GetHoroscope(ctx *gin.Context) {
	sign := strings.ToLower(strings.TrimSpace(ctx.Param("sign")))
	if sign == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "zodiac sign is required")
		return
	}

	var horoscope models.Horoscope
	err := h.db.Where("zodiac_sign = ?", sign).
		Order("date DESC").
		First(&horoscope).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "horoscope not found for this zodiac sign")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch horoscope")
		return
	}
	utils.Success(ctx, horoscope)
}

// CreateHoroscope lets editors publish a new dated entry for a sign. Older
// entries stay around as history.
func (h *HoroscopeController) CreateHoroscope(ctx *gin.Context) {
	var req struct {
		ZodiacSign         string     `json:"zodiacSign" binding:"required"`
		ZodiacSignGeorgian string     `json:"zodiacSignGeorgian" binding:"required"`
		Content            string     `json:"content" binding:"required"`
		Date               *time.Time `json:"date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	horoscope := models.Horoscope{
		ZodiacSign:         strings.ToLower(strings.TrimSpace(req.ZodiacSign)),
		ZodiacSignGeorgian: utils.SanitizePlain(req.ZodiacSignGeorgian),
		Content:            utils.Sanitize(req.Content),
		Date:               date,
	}
	if err := h.db.Create(&horoscope).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to create horoscope")
		return
	}
	utils.Created(ctx, horoscope)
}
