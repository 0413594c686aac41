package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Promotion bundles fixed items with groups the customer picks from.
type Promotion struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EstablishmentID uuid.UUID           `gorm:"type:uuid;not null;index" json:"establishment_id"`
	Name            string              `gorm:"size:100;not null" json:"name"`
	Description     string              `json:"description"`
	ImageURL        string              `json:"image_url"`
	Price           decimal.NullDecimal `gorm:"type:numeric(8,2)" json:"price"`
	IsActive        bool                `gorm:"default:true" json:"is_active"`
	FixedItems      []PromotionItem     `gorm:"foreignKey:PromotionID" json:"fixed_items"`
	Groups          []PromotionGroup    `gorm:"foreignKey:PromotionID" json:"groups"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`
}

type PromotionItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PromotionID uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Product     *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
}

// PromotionGroup lets the customer choose Selectable products out of Products.
type PromotionGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PromotionID uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Selectable  int       `gorm:"not null;default:1" json:"selectable"`
	Products    []Product `gorm:"many2many:promotion_group_products;" json:"products"`
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (i *PromotionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (g *PromotionGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
