package handlers

import (
	"net/http"

	"delivery-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ToggleHandler struct {
	DB *gorm.DB
}

// ToggleActive flips is_active on a product, product type or add-on of the
// caller's establishment.
func (h *ToggleHandler) ToggleActive(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var (
		query  *gorm.DB
		model  interface{}
		active *bool
	)
	switch c.Param("model") {
	case "product":
		var p models.Product
		model, active = &p, &p.IsActive
		query = scoped(c, h.DB, "establishment_id").Where("id = ?", id)
	case "type":
		var t models.ProductType
		model, active = &t, &t.IsActive
		query = scoped(c, h.DB, "establishment_id").Where("id = ?", id)
	case "addon":
		var a models.Addon
		model, active = &a, &a.IsActive
		query = scopedAddons(c, h.DB).Where("addons.id = ?", id)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model"})
		return
	}

	if err := query.First(model).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	next := !*active
	if err := h.DB.Model(model).Update("is_active", next).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": next})
}
