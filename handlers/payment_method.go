package handlers

import (
	"net/http"
	"strings"

	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaymentMethodHandler struct {
	DB *gorm.DB
}

func (h *PaymentMethodHandler) ListPaymentMethods(c *gin.Context) {
	var methods []models.PaymentMethod
	if err := scoped(c, h.DB, "establishment_id").Order("name ASC").Find(&methods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (h *PaymentMethodHandler) CreatePaymentMethod(c *gin.Context) {
	var req struct {
		EstablishmentID string `json:"establishment_id"`
		Name            string `json:"name" binding:"required,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	estID, ok := targetEstablishment(c, h.DB, req.EstablishmentID)
	if !ok {
		return
	}

	method := models.PaymentMethod{EstablishmentID: estID, Name: strings.TrimSpace(req.Name)}
	if err := h.DB.Create(&method).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment method"})
		return
	}
	c.JSON(http.StatusCreated, method)
}

func (h *PaymentMethodHandler) DeletePaymentMethod(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var method models.PaymentMethod
	if err := scoped(c, h.DB, "establishment_id").Where("id = ?", id).First(&method).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		return
	}

	var used int64
	h.DB.Model(&models.Order{}).Where("payment_method_id = ?", method.ID).Count(&used)
	if used > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Payment method is referenced by orders"})
		return
	}

	if err := h.DB.Delete(&method).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment method"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}
