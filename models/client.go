package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client is a storefront customer, unique per establishment and phone.
// DeliveryFee caches the last computed fee for the stored address.
type Client struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EstablishmentID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_client_phone,priority:1" json:"establishment_id"`
	Name            string              `gorm:"not null" json:"name"`
	Phone           string              `gorm:"size:20;not null;uniqueIndex:idx_client_phone,priority:2" json:"phone"`
	Street          string              `json:"street"`
	Neighborhood    string              `json:"neighborhood"`
	Number          string              `gorm:"size:10" json:"number"`
	Complement      string              `json:"complement"`
	DeliveryFee     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"delivery_fee"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// AddressDiffers reports whether any address field would change.
func (c *Client) AddressDiffers(street, number, neighborhood, complement string) bool {
	return c.Street != street ||
		c.Number != number ||
		c.Neighborhood != neighborhood ||
		c.Complement != complement
}
