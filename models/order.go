package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

type Order struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EstablishmentID uuid.UUID           `gorm:"type:uuid;not null;index" json:"establishment_id"`
	Establishment   *Establishment      `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	ClientID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *Client             `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	PaymentMethodID uuid.UUID           `gorm:"type:uuid;not null" json:"payment_method_id"`
	PaymentMethod   *PaymentMethod      `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
	OrderNumber     string              `gorm:"uniqueIndex;not null" json:"order_number"`
	Status          OrderStatus         `gorm:"size:20;default:pending;index" json:"status"`
	DeliveryType    DeliveryType        `gorm:"size:20;default:delivery" json:"delivery_type"`
	Notes           string              `json:"notes"`
	Change          decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"change"`
	DeliveryFee     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"delivery_fee"`
	Total           decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0" json:"total"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderItem snapshots the unit price at order time. Add-on prices are read
// live, so FinalPrice drifts when an add-on is repriced until the order is
// recomputed.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	SizeID     *uuid.UUID      `gorm:"type:uuid" json:"size_id,omitempty"`
	Size       *ProductSize    `gorm:"foreignKey:SizeID" json:"size,omitempty"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	FinalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"final_price"`
	Addons     []Addon         `gorm:"many2many:order_item_addons;" json:"addons"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "PED" + time.Now().Format("20060102150405") + strings.ToUpper(o.ID.String()[:6])
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ComputeFinalPrice sets FinalPrice to (unit price + add-ons) * quantity.
// Addons must be loaded.
func (i *OrderItem) ComputeFinalPrice() decimal.Decimal {
	unit := i.UnitPrice
	for _, a := range i.Addons {
		unit = unit.Add(a.Price)
	}
	i.FinalPrice = unit.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return i.FinalPrice
}

// ComputeTotal recomputes every line and sets Total to their sum. The
// delivery fee is kept apart from the total.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].ComputeFinalPrice())
	}
	o.Total = total
	return total
}

// AllowedTransitions defines the valid order status state machine.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:      {OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusDelivering: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to OrderStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is one of the canonical statuses.
func IsValidStatus(s OrderStatus) bool {
	_, ok := AllowedTransitions[s]
	return ok
}
