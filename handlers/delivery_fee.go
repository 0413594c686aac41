package handlers

import (
	"net/http"

	"delivery-backend/delivery"
	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DeliveryFeeHandler struct {
	DB     *gorm.DB
	Quoter *delivery.Quoter
}

// CalculateFee prices a structured client address for an establishment.
// Nothing is persisted.
func (h *DeliveryFeeHandler) CalculateFee(c *gin.Context) {
	var req struct {
		EstablishmentID string                 `json:"estabelecimento_id" binding:"required,uuid"`
		ClientAddress   delivery.ClientAddress `json:"client_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var est models.Establishment
	if err := h.DB.WithContext(c.Request.Context()).Where("id = ?", req.EstablishmentID).First(&est).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found"})
		return
	}

	quote, err := h.Quoter.Quote(c.Request.Context(), &est, req.ClientAddress.String())
	if err != nil {
		respondFeeError(c, est.ID, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}
