package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EstablishmentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"establishment_id"`
	TypeID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"type_id"`
	Type            *ProductType    `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Name            string          `gorm:"not null" json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL        string          `json:"image_url"`
	Tag             string          `json:"tag"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	Sizes           []ProductSize   `gorm:"foreignKey:ProductID" json:"sizes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PriceFor returns the unit price an order line must carry: the size price
// when a size is chosen, the product price otherwise.
func (p *Product) PriceFor(size *ProductSize) decimal.Decimal {
	if size != nil {
		return size.Price
	}
	return p.Price
}

type ProductSize struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"size:50;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *ProductSize) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
