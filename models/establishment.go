package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Establishment is a tenant storefront. Every catalog row, client and order
// hangs off one.
type Establishment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Slug           string          `gorm:"uniqueIndex;not null" json:"slug"`
	CNPJ           string          `gorm:"column:cnpj;uniqueIndex;size:14;not null" json:"cnpj"`
	PixKey         *string         `gorm:"uniqueIndex" json:"pix_key,omitempty"`
	LogoURL        string          `json:"logo_url"`
	Owner          string          `json:"owner"`
	Phone          string          `gorm:"uniqueIndex;not null" json:"phone"`
	Instagram      string          `json:"instagram"`
	Email          string          `gorm:"uniqueIndex;not null" json:"email"`
	Street         string          `json:"street"`
	Neighborhood   string          `json:"neighborhood"`
	Number         string          `json:"number"`
	Complement     string          `json:"complement"`
	City           string          `json:"city"`
	State          string          `gorm:"size:2" json:"state"`
	Latitude       *float64        `json:"latitude,omitempty"`
	Longitude      *float64        `json:"longitude,omitempty"`
	DeliveryTime   int             `gorm:"default:0" json:"delivery_time"` // minutes
	IsOpen         bool            `gorm:"default:true" json:"is_open"`
	TelegramChatID int64           `gorm:"default:0" json:"telegram_chat_id,omitempty"`
	DeliveryRanges []DeliveryRange `gorm:"foreignKey:EstablishmentID" json:"delivery_ranges,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (e *Establishment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// HasCoordinates reports whether a stored position can be used as the route
// origin. A zero pair counts as unset.
func (e *Establishment) HasCoordinates() bool {
	if e.Latitude == nil || e.Longitude == nil {
		return false
	}
	return *e.Latitude != 0 || *e.Longitude != 0
}
