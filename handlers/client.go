package handlers

import (
	"errors"
	"net/http"
	"strings"

	"delivery-backend/delivery"
	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientHandler struct {
	DB     *gorm.DB
	Quoter *delivery.Quoter
}

func (h *ClientHandler) LookupClient(c *gin.Context) {
	est, ok := openEstablishment(c, h.DB)
	if !ok {
		return
	}

	var client models.Client
	err := h.DB.Where("establishment_id = ? AND phone = ?", est.ID, utils.SanitizePhone(c.Param("phone"))).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "client": client})
}

// UpsertClient stores the customer and answers with their delivery fee. The
// fee is recomputed only when none is cached or the address changed.
func (h *ClientHandler) UpsertClient(c *gin.Context) {
	est, ok := openEstablishment(c, h.DB)
	if !ok {
		return
	}

	var req struct {
		Name         string `json:"name" binding:"required"`
		Phone        string `json:"phone" binding:"required"`
		Street       string `json:"street" binding:"required"`
		Number       string `json:"number" binding:"required,max=10"`
		Neighborhood string `json:"neighborhood" binding:"required"`
		Complement   string `json:"complement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	phone := utils.SanitizePhone(req.Phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone"})
		return
	}
	req.Street = strings.TrimSpace(req.Street)
	req.Number = strings.TrimSpace(req.Number)
	req.Neighborhood = strings.TrimSpace(req.Neighborhood)
	req.Complement = strings.TrimSpace(req.Complement)

	var client models.Client
	err := h.DB.Where("establishment_id = ? AND phone = ?", est.ID, phone).First(&client).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}
	isNew := errors.Is(err, gorm.ErrRecordNotFound)

	// Compare with what is stored before the request overwrites it.
	recompute := isNew || !client.DeliveryFee.Valid ||
		client.AddressDiffers(req.Street, req.Number, req.Neighborhood, req.Complement)

	if recompute {
		quote, err := h.Quoter.Quote(c.Request.Context(), est, clientFeeAddress(est, req.Street, req.Number, req.Neighborhood))
		if err != nil {
			respondFeeError(c, est.ID, err)
			return
		}
		client.DeliveryFee = decimal.NewNullDecimal(quote.Fee)
	}

	client.EstablishmentID = est.ID
	client.Phone = phone
	client.Name = strings.TrimSpace(req.Name)
	client.Street = req.Street
	client.Number = req.Number
	client.Neighborhood = req.Neighborhood
	client.Complement = req.Complement

	if isNew {
		err = h.DB.Create(&client).Error
	} else {
		err = h.DB.Save(&client).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client, "delivery_fee": client.DeliveryFee.Decimal})
}

// clientFeeAddress is the address quoted for a customer of est. The
// complement never reaches the geocoder.
func clientFeeAddress(est *models.Establishment, street, number, neighborhood string) string {
	return delivery.ComposeAddress(street, number, neighborhood, est.City, est.State, "Brasil")
}
