package handlers

import (
	"errors"
	"net/http"

	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DeliveryRangeHandler struct {
	DB *gorm.DB
}

type deliveryRangeRequest struct {
	EstablishmentID string          `json:"establishment_id"`
	MinDistance     *float64        `json:"min_distance" binding:"required,gte=0"`
	MaxDistance     *float64        `json:"max_distance" binding:"required"`
	Fee             decimal.Decimal `json:"delivery_fee"`
}

func (r deliveryRangeRequest) validate() string {
	if *r.MaxDistance <= *r.MinDistance {
		return "max_distance must be greater than min_distance"
	}
	if r.Fee.IsNegative() {
		return "delivery_fee must not be negative"
	}
	return ""
}

const duplicateRangeMsg = "A delivery range with these distances already exists"

// duplicate catches the common case early; the unique index still decides
// between concurrent writers.
func (h *DeliveryRangeHandler) duplicate(rng *models.DeliveryRange) bool {
	var count int64
	h.DB.Model(&models.DeliveryRange{}).
		Where("establishment_id = ? AND min_distance = ? AND max_distance = ? AND id <> ?",
			rng.EstablishmentID, rng.MinDistance, rng.MaxDistance, rng.ID).
		Count(&count)
	return count > 0
}

func (h *DeliveryRangeHandler) ListRanges(c *gin.Context) {
	var ranges []models.DeliveryRange
	query := scoped(c, h.DB.Model(&models.DeliveryRange{}), "establishment_id")
	if err := query.Order("min_distance ASC, max_distance ASC").Find(&ranges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch delivery ranges"})
		return
	}
	c.JSON(http.StatusOK, ranges)
}

func (h *DeliveryRangeHandler) CreateRange(c *gin.Context) {
	var req deliveryRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	estID, ok := targetEstablishment(c, h.DB, req.EstablishmentID)
	if !ok {
		return
	}

	rng := models.DeliveryRange{
		EstablishmentID: estID,
		MinDistance:     *req.MinDistance,
		MaxDistance:     *req.MaxDistance,
		Fee:             req.Fee,
	}
	if h.duplicate(&rng) {
		c.JSON(http.StatusConflict, gin.H{"error": duplicateRangeMsg})
		return
	}

	if err := h.DB.Create(&rng).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": duplicateRangeMsg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create delivery range"})
		return
	}
	c.JSON(http.StatusCreated, rng)
}

func (h *DeliveryRangeHandler) UpdateRange(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var rng models.DeliveryRange
	if err := scoped(c, h.DB, "establishment_id").Where("id = ?", id).First(&rng).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery range not found"})
		return
	}

	var req deliveryRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	rng.MinDistance = *req.MinDistance
	rng.MaxDistance = *req.MaxDistance
	rng.Fee = req.Fee
	if h.duplicate(&rng) {
		c.JSON(http.StatusConflict, gin.H{"error": duplicateRangeMsg})
		return
	}

	if err := h.DB.Save(&rng).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": duplicateRangeMsg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery range"})
		return
	}
	c.JSON(http.StatusOK, rng)
}

func (h *DeliveryRangeHandler) DeleteRange(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	result := scoped(c, h.DB, "establishment_id").Where("id = ?", id).Delete(&models.DeliveryRange{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete delivery range"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery range not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery range deleted"})
}
