package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductType groups products on the menu and owns the add-ons that can be
// attached to them.
type ProductType struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EstablishmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"establishment_id"`
	Name            string         `gorm:"size:50;not null" json:"name"`
	AcceptsSize     bool           `gorm:"default:false" json:"accepts_size"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *ProductType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
