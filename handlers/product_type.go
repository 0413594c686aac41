package handlers

import (
	"net/http"
	"strings"

	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductTypeHandler struct {
	DB *gorm.DB
}

type productTypeRequest struct {
	EstablishmentID string `json:"establishment_id"`
	Name            string `json:"name" binding:"required,max=50"`
	AcceptsSize     *bool  `json:"accepts_size"`
	IsActive        *bool  `json:"is_active"`
}

func (h *ProductTypeHandler) GetProductTypes(c *gin.Context) {
	var types []models.ProductType
	if err := scoped(c, h.DB, "establishment_id").Order("name ASC").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product types"})
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *ProductTypeHandler) findType(c *gin.Context) (*models.ProductType, bool) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil, false
	}
	var pt models.ProductType
	if err := scoped(c, h.DB, "establishment_id").Where("id = ?", id).First(&pt).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
		return nil, false
	}
	return &pt, true
}

func (h *ProductTypeHandler) GetProductType(c *gin.Context) {
	pt, ok := h.findType(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pt)
}

func (h *ProductTypeHandler) CreateProductType(c *gin.Context) {
	var req productTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	estID, ok := targetEstablishment(c, h.DB, req.EstablishmentID)
	if !ok {
		return
	}

	pt := models.ProductType{EstablishmentID: estID, Name: strings.TrimSpace(req.Name), IsActive: true}
	if req.AcceptsSize != nil {
		pt.AcceptsSize = *req.AcceptsSize
	}
	if req.IsActive != nil {
		pt.IsActive = *req.IsActive
	}

	if err := h.DB.Create(&pt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product type"})
		return
	}
	// is_active defaults to true in the schema, so a false value needs its own write.
	if !pt.IsActive {
		h.DB.Model(&pt).Update("is_active", false)
	}

	c.JSON(http.StatusCreated, pt)
}

func (h *ProductTypeHandler) UpdateProductType(c *gin.Context) {
	pt, ok := h.findType(c)
	if !ok {
		return
	}

	var req productTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	pt.Name = strings.TrimSpace(req.Name)
	if req.AcceptsSize != nil {
		pt.AcceptsSize = *req.AcceptsSize
	}
	if req.IsActive != nil {
		pt.IsActive = *req.IsActive
	}

	if err := h.DB.Save(pt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product type"})
		return
	}
	c.JSON(http.StatusOK, pt)
}
