package handlers

import (
	"net/http"
	"time"

	"delivery-backend/middleware"
	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

// issueTokens signs an access/refresh pair and stores the refresh token.
func (h *AuthHandler) issueTokens(user *models.User) (string, string, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, user.EstablishmentID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email, user.Role, user.EstablishmentID)
	if err != nil {
		return "", "", err
	}
	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(utils.RefreshTokenTTL),
	}
	if err := h.DB.Create(&rt).Error; err != nil {
		return "", "", err
	}
	return token, refreshToken, nil
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":               user.ID,
		"email":            user.Email,
		"name":             user.Name,
		"role":             user.Role,
		"establishment_id": user.EstablishmentID,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked. Please contact support."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, refreshToken, err := h.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          userResponse(&user),
	})
}

// Refresh rotates a stored refresh token: the presented one is revoked and a
// new pair is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	claims, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var stored models.RefreshToken
	if err := h.DB.Where("token = ? AND revoked_at IS NULL", req.RefreshToken).First(&stored).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked"})
		return
	}
	if stored.ExpiresAt.Before(time.Now()) || stored.UserID != claims.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked. Please contact support."})
		return
	}

	now := time.Now()
	h.DB.Model(&stored).Update("revoked_at", &now)

	token, refreshToken, err := h.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "refresh_token": refreshToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	userID, _ := middleware.UserID(c)
	now := time.Now()
	h.DB.Model(&models.RefreshToken{}).
		Where("token = ? AND user_id = ? AND revoked_at IS NULL", req.RefreshToken, userID).
		Update("revoked_at", &now)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the user and a summary of their establishment.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.DB.Preload("Establishment").Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	response := userResponse(&user)
	if user.Establishment != nil {
		response["establishment"] = gin.H{
			"id":            user.Establishment.ID,
			"name":          user.Establishment.Name,
			"slug":          user.Establishment.Slug,
			"is_open":       user.Establishment.IsOpen,
			"delivery_time": user.Establishment.DeliveryTime,
		}
	}
	c.JSON(http.StatusOK, response)
}

// CreateUser registers a staff account bound to an establishment.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		Name            string `json:"name" binding:"required"`
		Role            string `json:"role" binding:"omitempty,oneof=admin staff"`
		EstablishmentID string `json:"establishment_id" binding:"omitempty,uuid"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStaff
	}

	var establishment *models.Establishment
	if req.Role == models.RoleStaff {
		if req.EstablishmentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "establishment_id is required for staff"})
			return
		}
		var est models.Establishment
		if err := h.DB.Where("id = ?", req.EstablishmentID).First(&est).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found"})
			return
		}
		establishment = &est
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     req.Role,
	}
	if establishment != nil {
		user.EstablishmentID = &establishment.ID
	}

	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if establishment != nil {
		utils.SendStaffWelcomeEmail(user.Email, user.Name, establishment.Name)
	}

	c.JSON(http.StatusCreated, userResponse(&user))
}
