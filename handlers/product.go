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

type ProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

type sizeInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// parseSizes reads the "sizes" form field, a JSON array of {name, price}.
// present is false when the field was not sent.
func parseSizes(c *gin.Context) (sizes []models.ProductSize, present bool, msg string) {
	raw, ok := c.GetPostForm("sizes")
	if !ok {
		return nil, false, ""
	}
	if strings.TrimSpace(raw) == "" {
		return nil, true, ""
	}
	var input []sizeInput
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return nil, true, "sizes must be a JSON array"
	}
	for _, s := range input {
		name := strings.TrimSpace(s.Name)
		if name == "" || len(name) > 50 {
			return nil, true, "Each size needs a name of at most 50 characters"
		}
		if s.Price.IsNegative() {
			return nil, true, "Size price must not be negative"
		}
		sizes = append(sizes, models.ProductSize{Name: name, Price: s.Price})
	}
	return sizes, true, ""
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.Replace(raw, ",", ".", 1)))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var products []models.Product
	query := scoped(c, h.DB.Preload("Type").Preload("Sizes"), "establishment_id")

	if typeID := c.Query("type_id"); typeID != "" {
		query = query.Where("type_id = ?", typeID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) findProduct(c *gin.Context) (*models.Product, bool) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil, false
	}
	var product models.Product
	if err := scoped(c, h.DB.Preload("Type").Preload("Sizes"), "establishment_id").
		Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return nil, false
	}
	return &product, true
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, ok := h.findProduct(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) productType(c *gin.Context, establishmentID uuid.UUID, raw string) (*models.ProductType, bool) {
	var pt models.ProductType
	if err := h.DB.Where("id = ? AND establishment_id = ?", raw, establishmentID).First(&pt).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product type not found"})
		return nil, false
	}
	return &pt, true
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	estID, ok := targetEstablishment(c, h.DB, c.PostForm("establishment_id"))
	if !ok {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	price, ok := parsePrice(c.PostForm("price"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
		return
	}
	pt, ok := h.productType(c, estID, c.PostForm("type_id"))
	if !ok {
		return
	}
	sizes, _, msg := parseSizes(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if !pt.AcceptsSize {
		sizes = nil
	}

	imageURL, ok := uploadFormImage(c, h.Storage, "image", firebase.FolderProducts)
	if !ok {
		return
	}

	product := models.Product{
		EstablishmentID: estID,
		TypeID:          pt.ID,
		Name:            name,
		Description:     strings.TrimSpace(c.PostForm("description")),
		Price:           price,
		Tag:             strings.TrimSpace(c.PostForm("tag")),
		ImageURL:        imageURL,
		IsActive:        c.DefaultPostForm("is_active", "true") == "true",
		Sizes:           sizes,
	}

	tx := h.DB.Begin()
	if err := tx.Omit("Type").Create(&product).Error; err != nil {
		tx.Rollback()
		deleteStoredImage(c, h.Storage, imageURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	if !product.IsActive {
		if err := tx.Model(&product).Update("is_active", false).Error; err != nil {
			tx.Rollback()
			deleteStoredImage(c, h.Storage, imageURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		deleteStoredImage(c, h.Storage, imageURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	product.Type = pt
	if product.Sizes == nil {
		product.Sizes = []models.ProductSize{}
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies the fields that were sent. A "sizes" field replaces
// every size; switching to a type without sizes drops them.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	product, ok := h.findProduct(c)
	if !ok {
		return
	}

	pt := product.Type
	if raw, sent := c.GetPostForm("type_id"); sent {
		if pt, ok = h.productType(c, product.EstablishmentID, raw); !ok {
			return
		}
	}
	if pt == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product type missing"})
		return
	}

	if v, sent := c.GetPostForm("name"); sent {
		if strings.TrimSpace(v) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
			return
		}
		product.Name = strings.TrimSpace(v)
	}
	if v, sent := c.GetPostForm("price"); sent {
		price, ok := parsePrice(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
			return
		}
		product.Price = price
	}
	if v, sent := c.GetPostForm("description"); sent {
		product.Description = strings.TrimSpace(v)
	}
	if v, sent := c.GetPostForm("tag"); sent {
		product.Tag = strings.TrimSpace(v)
	}
	if v, sent := c.GetPostForm("is_active"); sent {
		product.IsActive = v == "true"
	}

	sizes, sizesSent, msg := parseSizes(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	replaceSizes := sizesSent || !pt.AcceptsSize
	if !pt.AcceptsSize {
		sizes = nil
	}

	oldImage := product.ImageURL
	imageURL, ok := uploadFormImage(c, h.Storage, "image", firebase.FolderProducts)
	if !ok {
		return
	}
	if imageURL != "" {
		product.ImageURL = imageURL
	}

	product.TypeID = pt.ID
	product.Type = nil

	tx := h.DB.Begin()
	if err := tx.Omit("Type", "Sizes").Save(product).Error; err != nil {
		tx.Rollback()
		deleteStoredImage(c, h.Storage, imageURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if replaceSizes {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductSize{}).Error; err != nil {
			tx.Rollback()
			deleteStoredImage(c, h.Storage, imageURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sizes"})
			return
		}
		for i := range sizes {
			sizes[i].ProductID = product.ID
		}
		if len(sizes) > 0 {
			if err := tx.Create(&sizes).Error; err != nil {
				tx.Rollback()
				deleteStoredImage(c, h.Storage, imageURL)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sizes"})
				return
			}
		}
		product.Sizes = sizes
	}
	if err := tx.Commit().Error; err != nil {
		deleteStoredImage(c, h.Storage, imageURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if imageURL != "" && oldImage != "" {
		deleteStoredImage(c, h.Storage, oldImage)
	}

	product.Type = pt
	if product.Sizes == nil {
		product.Sizes = []models.ProductSize{}
	}
	c.JSON(http.StatusOK, product)
}
