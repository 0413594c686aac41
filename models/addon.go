package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Addon is a paid modifier. It reaches its establishment through its type.
type Addon struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TypeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"type_id"`
	Type      *ProductType    `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (a *Addon) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
