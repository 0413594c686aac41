package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"delivery-backend/utils"
)

// EmailPublisher mails the establishment about new orders.
type EmailPublisher struct {
	directory Directory
	send      func(to, subject, body string) error
}

func NewEmailPublisher(directory Directory) *EmailPublisher {
	return &EmailPublisher{directory: directory, send: utils.SendEmail}
}

func (p *EmailPublisher) Publish(ctx context.Context, establishmentID uuid.UUID, ev Event) error {
	if ev.Type != EventNewOrder {
		return nil
	}
	contact, err := p.directory.Contact(ctx, establishmentID)
	if err != nil {
		return fmt.Errorf("email contact: %w", err)
	}
	if contact.Email == "" {
		return nil
	}

	o := ev.Order
	subject, body := utils.NewOrderEmail(contact.Name, o.Number, o.Client, o.Total.StringFixed(2), o.PaymentMethod, o.Notes)
	if err := p.send(contact.Email, subject, body); err != nil {
		return fmt.Errorf("email send to %s: %w", contact.Email, err)
	}
	return nil
}
