package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramPublisher alerts the establishment chat about new orders.
// Status changes are not forwarded.
type TelegramPublisher struct {
	bot       telegramSender
	directory Directory
}

func NewTelegramPublisher(token string, directory Directory) (*TelegramPublisher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramPublisher{bot: bot, directory: directory}, nil
}

func (p *TelegramPublisher) Publish(ctx context.Context, establishmentID uuid.UUID, ev Event) error {
	if ev.Type != EventNewOrder {
		return nil
	}
	contact, err := p.directory.Contact(ctx, establishmentID)
	if err != nil {
		return fmt.Errorf("telegram contact: %w", err)
	}
	if contact.TelegramChatID == 0 {
		return nil
	}

	if _, err := p.bot.Send(tgbotapi.NewMessage(contact.TelegramChatID, telegramText(ev.Order))); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func telegramText(o OrderEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Novo pedido %s\n", o.Number)
	fmt.Fprintf(&b, "Cliente: %s\n", o.Client)
	fmt.Fprintf(&b, "Total: R$ %s\n", o.Total.StringFixed(2))
	fmt.Fprintf(&b, "Pagamento: %s", o.PaymentMethod)
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nObs: %s", o.Notes)
	}
	return b.String()
}
