package middleware

import (
	"net/http"
	"strings"

	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID          = "user_id"
	ContextUserEmail       = "user_email"
	ContextUserRole        = "user_role"
	ContextEstablishmentID = "establishment_id"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		if claims.EstablishmentID != nil {
			c.Set(ContextEstablishmentID, *claims.EstablishmentID)
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffMiddleware lets admins through and requires staff tokens to carry
// an establishment.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextUserRole)
		switch role {
		case models.RoleAdmin:
			c.Next()
		case models.RoleStaff:
			if _, ok := EstablishmentID(c); !ok {
				c.JSON(http.StatusForbidden, gin.H{"error": "No establishment associated with this account"})
				c.Abort()
				return
			}
			c.Next()
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			c.Abort()
		}
	}
}

// IsAdmin reports whether the authenticated user is an admin.
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(ContextUserRole)
	return role == models.RoleAdmin
}

// UserID returns the authenticated user id.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// EstablishmentID returns the establishment carried by the token.
func EstablishmentID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextEstablishmentID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
