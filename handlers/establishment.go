package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"delivery-backend/firebase"
	"delivery-backend/middleware"
	"delivery-backend/models"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EstablishmentHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func (h *EstablishmentHandler) ListEstablishments(c *gin.Context) {
	var establishments []models.Establishment
	query := h.DB.Order("name ASC")
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	if err := query.Find(&establishments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch establishments"})
		return
	}
	c.JSON(http.StatusOK, establishments)
}

func (h *EstablishmentHandler) GetEstablishment(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var est models.Establishment
	if err := h.DB.Preload("DeliveryRanges", func(db *gorm.DB) *gorm.DB {
		return db.Order("min_distance ASC")
	}).Where("id = ?", id).First(&est).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found"})
		return
	}
	c.JSON(http.StatusOK, est)
}

// applyEstablishmentForm copies the multipart fields that were sent.
func applyEstablishmentForm(c *gin.Context, est *models.Establishment) string {
	text := map[string]*string{
		"name":         &est.Name,
		"owner":        &est.Owner,
		"instagram":    &est.Instagram,
		"email":        &est.Email,
		"street":       &est.Street,
		"neighborhood": &est.Neighborhood,
		"number":       &est.Number,
		"complement":   &est.Complement,
		"city":         &est.City,
	}
	for field, dst := range text {
		if v, ok := c.GetPostForm(field); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := c.GetPostForm("slug"); ok {
		est.Slug = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := c.GetPostForm("cnpj"); ok {
		est.CNPJ = utils.SanitizePhone(v)
	}
	if v, ok := c.GetPostForm("phone"); ok {
		est.Phone = utils.SanitizePhone(v)
	}
	if v, ok := c.GetPostForm("state"); ok {
		est.State = strings.ToUpper(strings.TrimSpace(v))
	}
	if v, ok := c.GetPostForm("pix_key"); ok {
		if v = strings.TrimSpace(v); v != "" {
			est.PixKey = &v
		} else {
			est.PixKey = nil
		}
	}
	if v, ok := c.GetPostForm("delivery_time"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return "delivery_time must be a non-negative number of minutes"
		}
		est.DeliveryTime = n
	}
	if v, ok := c.GetPostForm("telegram_chat_id"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "telegram_chat_id must be numeric"
		}
		est.TelegramChatID = n
	}
	for field, dst := range map[string]**float64{"latitude": &est.Latitude, "longitude": &est.Longitude} {
		if v, ok := c.GetPostForm(field); ok {
			if v == "" {
				*dst = nil
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return field + " must be a number"
			}
			*dst = &f
		}
	}
	if v, ok := c.GetPostForm("is_open"); ok {
		est.IsOpen = v == "true"
	}

	switch {
	case est.Name == "":
		return "name is required"
	case !slugPattern.MatchString(est.Slug):
		return "slug must contain only lowercase letters, digits and hyphens"
	case len(est.CNPJ) != 14:
		return "cnpj must have 14 digits"
	case est.Phone == "":
		return "phone is required"
	case est.Email == "":
		return "email is required"
	case len(est.State) > 2:
		return "state must be a two-letter code"
	}
	return ""
}

func (h *EstablishmentHandler) uniqueConflict(est *models.Establishment) string {
	checks := []struct{ column, value, label string }{
		{"slug", est.Slug, "Slug"},
		{"cnpj", est.CNPJ, "CNPJ"},
		{"email", est.Email, "Email"},
		{"phone", est.Phone, "Phone"},
	}
	for _, chk := range checks {
		var count int64
		h.DB.Model(&models.Establishment{}).Where(chk.column+" = ? AND id <> ?", chk.value, est.ID).Count(&count)
		if count > 0 {
			return chk.label + " already in use"
		}
	}
	return ""
}

func (h *EstablishmentHandler) CreateEstablishment(c *gin.Context) {
	est := models.Establishment{IsOpen: true}
	if msg := applyEstablishmentForm(c, &est); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if msg := h.uniqueConflict(&est); msg != "" {
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}

	logoURL, ok := uploadFormImage(c, h.Storage, "logo", firebase.FolderLogos)
	if !ok {
		return
	}
	est.LogoURL = logoURL

	if err := h.DB.Create(&est).Error; err != nil {
		deleteStoredImage(c, h.Storage, logoURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create establishment"})
		return
	}
	if !est.IsOpen {
		h.DB.Model(&est).Update("is_open", false)
	}

	c.JSON(http.StatusCreated, est)
}

func (h *EstablishmentHandler) UpdateEstablishment(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var est models.Establishment
	if err := h.DB.Where("id = ?", id).First(&est).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found"})
		return
	}

	if msg := applyEstablishmentForm(c, &est); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if msg := h.uniqueConflict(&est); msg != "" {
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}

	logoURL, ok := uploadFormImage(c, h.Storage, "logo", firebase.FolderLogos)
	if !ok {
		return
	}
	previousLogo := ""
	if logoURL != "" {
		previousLogo = est.LogoURL
		est.LogoURL = logoURL
	}

	if err := h.DB.Save(&est).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update establishment"})
		return
	}
	deleteStoredImage(c, h.Storage, previousLogo)

	c.JSON(http.StatusOK, est)
}

func (h *EstablishmentHandler) DeleteEstablishment(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var est models.Establishment
	if err := h.DB.Where("id = ?", id).First(&est).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found"})
		return
	}

	var openOrders int64
	h.DB.Model(&models.Order{}).
		Where("establishment_id = ? AND status NOT IN ?", est.ID, []models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusCancelled}).
		Count(&openOrders)
	if openOrders > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Establishment has open orders"})
		return
	}

	if err := h.DB.Delete(&est).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete establishment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Establishment deleted"})
}

// UpdateBusiness lets staff open/close the store and set the delivery time.
func (h *EstablishmentHandler) UpdateBusiness(c *gin.Context) {
	var req struct {
		DeliveryTime *int  `json:"delivery_time" binding:"omitempty,gte=0"`
		IsOpen       *bool `json:"is_open"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	estID, ok := middleware.EstablishmentID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No establishment associated with this account"})
		return
	}

	var est models.Establishment
	if err := h.DB.Where("id = ?", estID).First(&est).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.DeliveryTime != nil {
		updates["delivery_time"] = *req.DeliveryTime
		est.DeliveryTime = *req.DeliveryTime
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
		est.IsOpen = *req.IsOpen
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&models.Establishment{}).Where("id = ?", est.ID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update establishment"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Establishment updated",
		"establishment": gin.H{
			"id":            est.ID,
			"is_open":       est.IsOpen,
			"delivery_time": est.DeliveryTime,
		},
	})
}
