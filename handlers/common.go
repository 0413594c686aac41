package handlers

import (
	"errors"
	"log"
	"net/http"

	"delivery-backend/delivery"
	"delivery-backend/maps"
	"delivery-backend/middleware"
	"delivery-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// scoped restricts query to the caller's establishment. Admins see every
// establishment unless they pass ?establishment_id=.
func scoped(c *gin.Context, query *gorm.DB, column string) *gorm.DB {
	if !middleware.IsAdmin(c) {
		estID, _ := middleware.EstablishmentID(c)
		return query.Where(column+" = ?", estID)
	}
	if raw := c.Query("establishment_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return query.Where(column+" = ?", id)
		}
	}
	return query
}

// owns reports whether the caller may touch rows of establishmentID.
func owns(c *gin.Context, establishmentID uuid.UUID) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	estID, ok := middleware.EstablishmentID(c)
	return ok && estID == establishmentID
}

// targetEstablishment picks the establishment a new row belongs to. Staff
// always write to their own; admins must name an existing one.
func targetEstablishment(c *gin.Context, db *gorm.DB, requested string) (uuid.UUID, bool) {
	if !middleware.IsAdmin(c) {
		estID, ok := middleware.EstablishmentID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "No establishment associated with this account"})
		}
		return estID, ok
	}

	id, err := uuid.Parse(requested)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "establishment_id is required"})
		return uuid.Nil, false
	}
	if err := db.Select("id").First(&models.Establishment{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found"})
		return uuid.Nil, false
	}
	return id, true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// feeErrorStatus classifies a delivery fee failure.
func feeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, maps.ErrConfiguration):
		return http.StatusInternalServerError, "configuration_error"
	case errors.Is(err, maps.ErrAddressNotFound):
		return http.StatusBadRequest, "address_not_found"
	case errors.Is(err, maps.ErrRouteNotFound):
		return http.StatusBadRequest, "route_not_found"
	case errors.Is(err, maps.ErrTransport):
		return http.StatusBadRequest, "transport_error"
	case errors.Is(err, delivery.ErrNoRangeConfigured):
		return http.StatusUnprocessableEntity, "no_range_configured"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondFeeError(c *gin.Context, establishmentID uuid.UUID, err error) {
	status, code := feeErrorStatus(err)
	log.Printf("Delivery fee failed for establishment %s (%s): %v", establishmentID, code, err)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
