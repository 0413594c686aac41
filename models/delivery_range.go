package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryRange prices deliveries whose distance falls in [MinDistance, MaxDistance).
type DeliveryRange struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EstablishmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_delivery_range_bounds,priority:1" json:"establishment_id"`
	MinDistance     float64         `gorm:"not null;uniqueIndex:idx_delivery_range_bounds,priority:2" json:"min_distance"`
	MaxDistance     float64         `gorm:"not null;uniqueIndex:idx_delivery_range_bounds,priority:3" json:"max_distance"`
	Fee             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"delivery_fee"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (r *DeliveryRange) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Contains applies the half-open interval rule.
func (r DeliveryRange) Contains(distanceKm float64) bool {
	return r.MinDistance <= distanceKm && distanceKm < r.MaxDistance
}
