package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"delivery-backend/delivery"
	"delivery-backend/models"
	"delivery-backend/notify"
	"delivery-backend/receipt"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB        *gorm.DB
	Quoter    *delivery.Quoter
	Publisher notify.Publisher
}

type orderItemRequest struct {
	ProductID string          `json:"product_id" binding:"required,uuid"`
	SizeID    string          `json:"size_id" binding:"omitempty,uuid"`
	Quantity  int             `json:"quantity" binding:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	AddonIDs  []string        `json:"addon_ids" binding:"dive,uuid"`
}

type orderRequest struct {
	Items  []orderItemRequest `json:"items" binding:"dive"`
	Client struct {
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone" binding:"required"`
		Address struct {
			Street       string `json:"street"`
			Number       string `json:"number" binding:"max=10"`
			Neighborhood string `json:"neighborhood"`
			Complement   string `json:"complement"`
		} `json:"address"`
	} `json:"client"`
	Payment struct {
		MethodID string              `json:"method_id" binding:"required,uuid"`
		Change   decimal.NullDecimal `json:"change"`
	} `json:"payment"`
	Notes        string `json:"notes"`
	DeliveryType string `json:"delivery_type" binding:"omitempty,oneof=delivery pickup"`
}

// orderError is a client mistake found while building the order; it rolls
// the transaction back and answers 400.
type orderError struct{ msg string }

func (e *orderError) Error() string { return e.msg }

func badOrder(format string, args ...interface{}) error {
	return &orderError{msg: fmt.Sprintf(format, args...)}
}

func (h *OrderHandler) publisher() notify.Publisher {
	if h.Publisher == nil {
		return notify.Nop{}
	}
	return h.Publisher
}

func withOrderDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Establishment").
		Preload("Client").
		Preload("PaymentMethod").
		Preload("Items.Product").
		Preload("Items.Size").
		Preload("Items.Addons")
}

// CreateOrder places a storefront order. Prices sent by the client are
// checked against the catalog; totals are always computed server side.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	est, ok := openEstablishment(c, h.DB)
	if !ok {
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	phone := utils.SanitizePhone(req.Client.Phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone"})
		return
	}
	if req.Payment.Change.Valid && req.Payment.Change.Decimal.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "change must not be negative"})
		return
	}
	deliveryType := models.DeliveryType(req.DeliveryType)
	if deliveryType == "" {
		deliveryType = models.DeliveryTypeDelivery
	}
	addr := req.Client.Address
	addr.Street = strings.TrimSpace(addr.Street)
	addr.Number = strings.TrimSpace(addr.Number)
	addr.Neighborhood = strings.TrimSpace(addr.Neighborhood)
	addr.Complement = strings.TrimSpace(addr.Complement)
	if deliveryType == models.DeliveryTypeDelivery && (addr.Street == "" || addr.Number == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery address is incomplete"})
		return
	}

	// A delivery to an address other than the stored one, or a customer
	// without a cached fee, is quoted again before anything is written.
	var fee decimal.NullDecimal
	if deliveryType == models.DeliveryTypeDelivery {
		var stored models.Client
		err := h.DB.Where("establishment_id = ? AND phone = ?", est.ID, phone).First(&stored).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to load client %s of establishment %s: %v", phone, est.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}
		if err == nil && stored.DeliveryFee.Valid && !stored.AddressDiffers(addr.Street, addr.Number, addr.Neighborhood, addr.Complement) {
			fee = stored.DeliveryFee
		} else {
			if h.Quoter == nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Delivery fee calculation is not configured", "code": "configuration_error"})
				return
			}
			quote, err := h.Quoter.Quote(c.Request.Context(), est, clientFeeAddress(est, addr.Street, addr.Number, addr.Neighborhood))
			if err != nil {
				respondFeeError(c, est.ID, err)
				return
			}
			fee = decimal.NewNullDecimal(quote.Fee)
		}
	}

	order := models.Order{
		EstablishmentID: est.ID,
		Status:          models.OrderStatusPending,
		DeliveryType:    deliveryType,
		Notes:           strings.TrimSpace(req.Notes),
		Change:          req.Payment.Change,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		err := tx.Where("establishment_id = ? AND phone = ?", est.ID, phone).First(&client).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			client = models.Client{
				EstablishmentID: est.ID,
				Phone:           phone,
				Name:            strings.TrimSpace(req.Client.Name),
				Street:          addr.Street,
				Number:          addr.Number,
				Neighborhood:    addr.Neighborhood,
				Complement:      addr.Complement,
				DeliveryFee:     fee,
			}
			if err := tx.Create(&client).Error; err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			log.Printf("Client %s created for establishment %s", client.ID, est.ID)
		} else if err != nil {
			return fmt.Errorf("load client: %w", err)
		} else if deliveryType == models.DeliveryTypeDelivery && (!client.DeliveryFee.Valid || !client.DeliveryFee.Decimal.Equal(fee.Decimal) ||
			client.AddressDiffers(addr.Street, addr.Number, addr.Neighborhood, addr.Complement)) {
			err := tx.Model(&client).Updates(map[string]interface{}{
				"name":         strings.TrimSpace(req.Client.Name),
				"street":       addr.Street,
				"number":       addr.Number,
				"neighborhood": addr.Neighborhood,
				"complement":   addr.Complement,
				"delivery_fee": fee,
			}).Error
			if err != nil {
				return fmt.Errorf("update client address: %w", err)
			}
			log.Printf("Client %s moved to a new address, delivery fee %s", client.ID, fee.Decimal)
		}
		order.ClientID = client.ID

		var method models.PaymentMethod
		if err := tx.Where("id = ? AND establishment_id = ?", req.Payment.MethodID, est.ID).First(&method).Error; err != nil {
			return badOrder("Invalid payment method")
		}
		order.PaymentMethodID = method.ID

		for _, line := range req.Items {
			item, err := buildOrderItem(tx, est.ID, line)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}
		order.ComputeTotal()

		if deliveryType == models.DeliveryTypeDelivery {
			order.DeliveryFee = fee
		}

		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Omit("Addons.*", "Product", "Size").Create(&order.Items[i]).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		return nil
	})

	var bad *orderError
	if errors.As(err, &bad) {
		c.JSON(http.StatusBadRequest, gin.H{"error": bad.msg})
		return
	}
	if err != nil {
		log.Printf("Failed to create order for establishment %s: %v", est.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	var created models.Order
	if err := withOrderDetails(h.DB).First(&created, "id = ?", order.ID).Error; err == nil {
		order = created
	}
	log.Printf("Order %s created for establishment %s (total %s)", order.OrderNumber, est.ID, order.Total)

	notify.Dispatch(h.publisher(), est.ID, notify.NewEvent(notify.EventNewOrder, &order))

	c.JSON(http.StatusCreated, order)
}

func buildOrderItem(tx *gorm.DB, establishmentID uuid.UUID, line orderItemRequest) (models.OrderItem, error) {
	var product models.Product
	if err := tx.Joins("JOIN product_types ON product_types.id = products.type_id").
		Where("products.id = ? AND products.establishment_id = ? AND products.is_active = ? AND product_types.is_active = ?",
			line.ProductID, establishmentID, true, true).
		First(&product).Error; err != nil {
		return models.OrderItem{}, badOrder("Product not found or not available")
	}

	var size *models.ProductSize
	if line.SizeID != "" {
		var s models.ProductSize
		if err := tx.Where("id = ? AND product_id = ?", line.SizeID, product.ID).First(&s).Error; err != nil {
			return models.OrderItem{}, badOrder("Invalid size for product %s", product.ID)
		}
		size = &s
	}

	if expected := product.PriceFor(size); !line.UnitPrice.Equal(expected) {
		log.Printf("Unit price mismatch for product %s: sent %s, expected %s", product.ID, line.UnitPrice, expected)
		return models.OrderItem{}, badOrder("Invalid unit price for product %s", product.Name)
	}

	item := models.OrderItem{
		ProductID: product.ID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}
	if size != nil {
		item.SizeID = &size.ID
	}

	ids := uniqueIDs(line.AddonIDs)
	if len(ids) > 0 {
		var addons []models.Addon
		if err := tx.Joins("JOIN product_types ON product_types.id = addons.type_id").
			Where("addons.id IN ? AND addons.is_active = ? AND product_types.establishment_id = ?", ids, true, establishmentID).
			Find(&addons).Error; err != nil {
			return models.OrderItem{}, fmt.Errorf("load addons: %w", err)
		}
		if len(addons) != len(ids) {
			return models.OrderItem{}, badOrder("Addon not found")
		}
		item.Addons = addons
	}
	return item, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	status := models.OrderStatus(c.DefaultQuery("status", string(models.OrderStatusPending)))
	if !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var orders []models.Order
	query := scoped(c, withOrderDetails(h.DB), "establishment_id").Where("status = ?", status)
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) findOrder(c *gin.Context) (*models.Order, bool) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil, false
	}
	var order models.Order
	if err := scoped(c, withOrderDetails(h.DB), "establishment_id").Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	return &order, true
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	order, ok := h.findOrder(c)
	if !ok {
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid status transition from '%s' to '%s'", order.Status, req.Status),
		})
		return
	}

	moved, err := transitionStatus(h.DB, order.ID, order.Status, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	if !moved {
		c.JSON(http.StatusConflict, gin.H{"error": "Order status changed meanwhile, reload and try again"})
		return
	}
	log.Printf("Order %s moved from %s to %s", order.OrderNumber, order.Status, req.Status)
	order.Status = req.Status

	notify.Dispatch(h.publisher(), order.EstablishmentID, notify.NewEvent(notify.EventOrderStatus, order))

	c.JSON(http.StatusOK, order)
}

// transitionStatus moves the order only if it is still in status from. It
// reports false when another request changed the status first.
func transitionStatus(db *gorm.DB, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	res := db.Model(&models.Order{}).Where("id = ? AND status = ?", id, from).Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// PrintOrder renders the kitchen receipt as an inline PDF.
func (h *OrderHandler) PrintOrder(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := receipt.Render(&buf, order); err != nil {
		log.Printf("Failed to render receipt for order %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, receipt.Filename(order)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *OrderHandler) GetOrderTransitions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllowedTransitions)
}
