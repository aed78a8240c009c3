package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mnatobi/astroinsights/middleware"
	"github.com/mnatobi/astroinsights/models"
	"github.com/mnatobi/astroinsights/utils"
)

const tokenLifetime = 7 * 24 * time.Hour

// AuthController handles admin-panel authentication and user management.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Login verifies credentials against the users table and issues a bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's record.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "user not found")
		return
	}
	utils.Success(ctx, user)
}

// ListUsers returns all admin-panel accounts. Admin only.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	var users []models.User
	if err := a.db.Order("id").Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to fetch users")
		return
	}
	utils.Success(ctx, users)
}

// CreateUser provisions a new account with the given role. Admin only.
func (a *AuthController) CreateUser(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleReader
	}
	if role != models.RoleAdmin && role != models.RoleEditor && role != models.RoleReader {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid role")
		return
	}

	var count int64
	if err := a.db.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to create user")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "username or email already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to create user")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeDatabase, "failed to create user")
		return
	}
	utils.Created(ctx, user)
}
