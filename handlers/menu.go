package handlers

import (
	"net/http"

	"delivery-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuHandler struct {
	DB *gorm.DB
}

type menuEstablishment struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	LogoURL      string    `json:"logo_url"`
	DeliveryTime int       `json:"delivery_time"`
	PixKey       *string   `json:"pix_key"`
	Instagram    string    `json:"instagram"`
	Whatsapp     string    `json:"whatsapp"`
}

// openEstablishment resolves the :slug of storefront routes. Closed
// establishments are invisible to customers.
func openEstablishment(c *gin.Context, db *gorm.DB) (*models.Establishment, bool) {
	var est models.Establishment
	if err := db.Where("slug = ? AND is_open = ?", c.Param("slug"), true).First(&est).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found or closed"})
		return nil, false
	}
	return &est, true
}

func (h *MenuHandler) GetMenu(c *gin.Context) {
	est, ok := openEstablishment(c, h.DB)
	if !ok {
		return
	}

	var types []models.ProductType
	if err := h.DB.Where("establishment_id = ? AND is_active = ?", est.ID, true).
		Order("name ASC").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	var products []models.Product
	if err := h.DB.Preload("Sizes", func(db *gorm.DB) *gorm.DB {
		return db.Order("price ASC")
	}).
		Joins("JOIN product_types ON product_types.id = products.type_id").
		Where("products.establishment_id = ? AND products.is_active = ? AND product_types.is_active = ?", est.ID, true, true).
		Order("products.name ASC").
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	var addons []models.Addon
	if err := h.DB.Joins("JOIN product_types ON product_types.id = addons.type_id").
		Where("product_types.establishment_id = ? AND addons.is_active = ?", est.ID, true).
		Order("addons.name ASC").
		Find(&addons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	var promotions []models.Promotion
	if err := h.DB.Preload("FixedItems.Product").Preload("Groups.Products").
		Where("establishment_id = ? AND is_active = ?", est.ID, true).
		Order("name ASC").
		Find(&promotions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	var methods []models.PaymentMethod
	h.DB.Where("establishment_id = ?", est.ID).Order("name ASC").Find(&methods)

	c.JSON(http.StatusOK, gin.H{
		"establishment": menuEstablishment{
			ID:           est.ID,
			Name:         est.Name,
			Slug:         est.Slug,
			LogoURL:      est.LogoURL,
			DeliveryTime: est.DeliveryTime,
			PixKey:       est.PixKey,
			Instagram:    est.Instagram,
			Whatsapp:     est.Phone,
		},
		"types":           types,
		"products":        products,
		"addons":          addons,
		"promotions":      promotions,
		"payment_methods": methods,
	})
}
