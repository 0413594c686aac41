package notify

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"delivery-backend/models"
)

// Contact is where an establishment wants its alerts.
type Contact struct {
	Name           string
	Email          string
	TelegramChatID int64
}

// Directory resolves establishment contacts.
type Directory interface {
	Contact(ctx context.Context, establishmentID uuid.UUID) (Contact, error)
}

// DBDirectory reads contacts from the establishments table.
type DBDirectory struct {
	DB *gorm.DB
}

func (d DBDirectory) Contact(ctx context.Context, establishmentID uuid.UUID) (Contact, error) {
	var est models.Establishment
	if err := d.DB.WithContext(ctx).Select("id", "name", "email", "telegram_chat_id").
		First(&est, "id = ?", establishmentID).Error; err != nil {
		return Contact{}, err
	}
	return Contact{Name: est.Name, Email: est.Email, TelegramChatID: est.TelegramChatID}, nil
}
