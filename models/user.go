package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	Name            string         `json:"name"`
	Role            string         `gorm:"default:staff" json:"role"` // admin, staff
	EstablishmentID *uuid.UUID     `gorm:"type:uuid;index" json:"establishment_id,omitempty"`
	Establishment   *Establishment `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	IsBlocked       bool           `gorm:"default:false" json:"is_blocked"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BelongsTo reports whether the user is staff of the given establishment.
func (u *User) BelongsTo(establishmentID uuid.UUID) bool {
	return u.EstablishmentID != nil && *u.EstablishmentID == establishmentID
}
