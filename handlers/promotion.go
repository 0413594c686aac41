package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"delivery-backend/firebase"
	"delivery-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PromotionHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

type fixedItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type groupInput struct {
	Name       string      `json:"name"`
	Selectable int         `json:"selectable"`
	ProductIDs []uuid.UUID `json:"product_ids"`
}

func withPromotionDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("FixedItems.Product").Preload("Groups.Products")
}

// promotionCollections parses "fixed_items" and "groups" and checks every
// referenced product against the establishment. A nil slice means the field
// was not sent.
func (h *PromotionHandler) promotionCollections(c *gin.Context, establishmentID uuid.UUID) (items []models.PromotionItem, groups []models.PromotionGroup, msg string) {
	referenced := map[uuid.UUID]bool{}

	if raw, ok := c.GetPostForm("fixed_items"); ok {
		var input []fixedItemInput
		if strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &input); err != nil {
				return nil, nil, "fixed_items must be a JSON array"
			}
		}
		items = []models.PromotionItem{}
		for _, in := range input {
			if in.Quantity <= 0 {
				in.Quantity = 1
			}
			referenced[in.ProductID] = true
			items = append(items, models.PromotionItem{ProductID: in.ProductID, Quantity: in.Quantity})
		}
	}

	if raw, ok := c.GetPostForm("groups"); ok {
		var input []groupInput
		if strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &input); err != nil {
				return nil, nil, "groups must be a JSON array"
			}
		}
		groups = []models.PromotionGroup{}
		for _, in := range input {
			name := strings.TrimSpace(in.Name)
			if name == "" {
				return nil, nil, "Each group needs a name"
			}
			if len(in.ProductIDs) == 0 {
				return nil, nil, "Group " + name + " needs at least one product"
			}
			if in.Selectable <= 0 {
				in.Selectable = 1
			}
			group := models.PromotionGroup{Name: name, Selectable: in.Selectable}
			for _, id := range in.ProductIDs {
				referenced[id] = true
				group.Products = append(group.Products, models.Product{ID: id})
			}
			groups = append(groups, group)
		}
	}

	if len(referenced) > 0 {
		ids := make([]uuid.UUID, 0, len(referenced))
		for id := range referenced {
			ids = append(ids, id)
		}
		var count int64
		h.DB.Model(&models.Product{}).Where("id IN ? AND establishment_id = ?", ids, establishmentID).Count(&count)
		if int(count) != len(ids) {
			return nil, nil, "Every product must belong to the establishment"
		}
	}
	return items, groups, ""
}

// saveCollections replaces the promotion's items and groups with the ones
// given. Nil leaves a collection untouched.
func saveCollections(tx *gorm.DB, promotionID uuid.UUID, items []models.PromotionItem, groups []models.PromotionGroup) error {
	if items != nil {
		if err := tx.Where("promotion_id = ?", promotionID).Delete(&models.PromotionItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].PromotionID = promotionID
			if err := tx.Omit("Product").Create(&items[i]).Error; err != nil {
				return err
			}
		}
	}
	if groups != nil {
		var old []models.PromotionGroup
		if err := tx.Where("promotion_id = ?", promotionID).Find(&old).Error; err != nil {
			return err
		}
		for i := range old {
			if err := tx.Model(&old[i]).Association("Products").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Where("promotion_id = ?", promotionID).Delete(&models.PromotionGroup{}).Error; err != nil {
			return err
		}
		for i := range groups {
			groups[i].PromotionID = promotionID
			if err := tx.Omit("Products.*").Create(&groups[i]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *PromotionHandler) GetPromotions(c *gin.Context) {
	var promotions []models.Promotion
	if err := scoped(c, withPromotionDetails(h.DB), "establishment_id").Order("name ASC").Find(&promotions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotions"})
		return
	}
	c.JSON(http.StatusOK, promotions)
}

func (h *PromotionHandler) findPromotion(c *gin.Context) (*models.Promotion, bool) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil, false
	}
	var promotion models.Promotion
	if err := scoped(c, withPromotionDetails(h.DB), "establishment_id").Where("id = ?", id).First(&promotion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
		return nil, false
	}
	return &promotion, true
}

func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	promotion, ok := h.findPromotion(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, promotion)
}

func parseOptionalPrice(raw string) (decimal.NullDecimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, true
	}
	d, ok := parsePrice(raw)
	if !ok {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	estID, ok := targetEstablishment(c, h.DB, c.PostForm("establishment_id"))
	if !ok {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" || len(name) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required and must be at most 100 characters"})
		return
	}
	price, ok := parseOptionalPrice(c.PostForm("price"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
		return
	}
	items, groups, msg := h.promotionCollections(c, estID)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	imageURL, ok := uploadFormImage(c, h.Storage, "image", firebase.FolderPromotions)
	if !ok {
		return
	}

	promotion := models.Promotion{
		EstablishmentID: estID,
		Name:            name,
		Description:     strings.TrimSpace(c.PostForm("description")),
		ImageURL:        imageURL,
		Price:           price,
		IsActive:        c.DefaultPostForm("is_active", "true") == "true",
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("FixedItems", "Groups").Create(&promotion).Error; err != nil {
			return err
		}
		if !promotion.IsActive {
			if err := tx.Model(&promotion).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return saveCollections(tx, promotion.ID, items, groups)
	})
	if err != nil {
		deleteStoredImage(c, h.Storage, imageURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promotion"})
		return
	}

	withPromotionDetails(h.DB).First(&promotion, "id = ?", promotion.ID)
	c.JSON(http.StatusCreated, promotion)
}

func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	promotion, ok := h.findPromotion(c)
	if !ok {
		return
	}

	if v, sent := c.GetPostForm("name"); sent {
		v = strings.TrimSpace(v)
		if v == "" || len(v) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required and must be at most 100 characters"})
			return
		}
		promotion.Name = v
	}
	if v, sent := c.GetPostForm("description"); sent {
		promotion.Description = strings.TrimSpace(v)
	}
	if v, sent := c.GetPostForm("price"); sent {
		price, ok := parseOptionalPrice(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
			return
		}
		promotion.Price = price
	}
	if v, sent := c.GetPostForm("is_active"); sent {
		promotion.IsActive = v == "true"
	}

	items, groups, msg := h.promotionCollections(c, promotion.EstablishmentID)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	oldImage := promotion.ImageURL
	imageURL, ok := uploadFormImage(c, h.Storage, "image", firebase.FolderPromotions)
	if !ok {
		return
	}
	if imageURL != "" {
		promotion.ImageURL = imageURL
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("FixedItems", "Groups").Save(promotion).Error; err != nil {
			return err
		}
		return saveCollections(tx, promotion.ID, items, groups)
	})
	if err != nil {
		deleteStoredImage(c, h.Storage, imageURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update promotion"})
		return
	}
	if imageURL != "" && oldImage != "" {
		deleteStoredImage(c, h.Storage, oldImage)
	}

	var updated models.Promotion
	withPromotionDetails(h.DB).First(&updated, "id = ?", promotion.ID)
	c.JSON(http.StatusOK, updated)
}
