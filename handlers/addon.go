package handlers

import (
	"net/http"
	"strings"

	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AddonHandler struct {
	DB *gorm.DB
}

type addonRequest struct {
	TypeID   string          `json:"type_id" binding:"required,uuid"`
	Name     string          `json:"name" binding:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
	IsActive *bool           `json:"is_active"`
}

// scopedAddons filters add-ons through their type, which carries the
// establishment.
func scopedAddons(c *gin.Context, db *gorm.DB) *gorm.DB {
	query := db.Joins("JOIN product_types ON product_types.id = addons.type_id")
	return scoped(c, query, "product_types.establishment_id")
}

func (h *AddonHandler) GetAddons(c *gin.Context) {
	var addons []models.Addon
	query := scopedAddons(c, h.DB.Preload("Type"))
	if typeID := c.Query("type_id"); typeID != "" {
		query = query.Where("addons.type_id = ?", typeID)
	}
	if err := query.Order("addons.name ASC").Find(&addons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addons"})
		return
	}
	c.JSON(http.StatusOK, addons)
}

func (h *AddonHandler) findAddon(c *gin.Context) (*models.Addon, bool) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil, false
	}
	var addon models.Addon
	if err := scopedAddons(c, h.DB.Preload("Type")).Where("addons.id = ?", id).First(&addon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Addon not found"})
		return nil, false
	}
	return &addon, true
}

func (h *AddonHandler) GetAddon(c *gin.Context) {
	addon, ok := h.findAddon(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, addon)
}

// ownedType loads the product type an add-on should hang off.
func (h *AddonHandler) ownedType(c *gin.Context, typeID string) (*models.ProductType, bool) {
	var pt models.ProductType
	if err := h.DB.Where("id = ?", typeID).First(&pt).Error; err != nil || !owns(c, pt.EstablishmentID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product type not found"})
		return nil, false
	}
	return &pt, true
}

func (h *AddonHandler) CreateAddon(c *gin.Context) {
	var req addonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	pt, ok := h.ownedType(c, req.TypeID)
	if !ok {
		return
	}

	addon := models.Addon{TypeID: pt.ID, Name: strings.TrimSpace(req.Name), Price: req.Price, IsActive: true}
	if req.IsActive != nil {
		addon.IsActive = *req.IsActive
	}

	if err := h.DB.Omit("Type").Create(&addon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create addon"})
		return
	}
	if !addon.IsActive {
		h.DB.Model(&addon).Update("is_active", false)
	}
	addon.Type = pt

	c.JSON(http.StatusCreated, addon)
}

func (h *AddonHandler) UpdateAddon(c *gin.Context) {
	addon, ok := h.findAddon(c)
	if !ok {
		return
	}

	var req addonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	pt, ok := h.ownedType(c, req.TypeID)
	if !ok {
		return
	}

	addon.TypeID = pt.ID
	addon.Type = pt
	addon.Name = strings.TrimSpace(req.Name)
	addon.Price = req.Price
	if req.IsActive != nil {
		addon.IsActive = *req.IsActive
	}

	if err := h.DB.Omit("Type").Save(addon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update addon"})
		return
	}
	c.JSON(http.StatusOK, addon)
}
