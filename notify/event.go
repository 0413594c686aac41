package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"delivery-backend/models"
)

const (
	EventNewOrder    = "new_order"
	EventOrderStatus = "order_status"
)

// Event is the frame delivered to every sink.
type Event struct {
	Type  string     `json:"type"`
	Order OrderEvent `json:"order"`
}

// OrderEvent keeps the field names staff dashboards already consume.
type OrderEvent struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"numero"`
	Establishment string          `json:"estabelecimento"`
	Client        string          `json:"cliente"`
	Total         decimal.Decimal `json:"valor_total"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"data"`
	PaymentMethod string          `json:"forma_pagamento"`
	Notes         string          `json:"observacao"`
}

// NewEvent builds an event from an order. Establishment, Client and
// PaymentMethod should be preloaded; missing associations render empty.
func NewEvent(eventType string, order *models.Order) Event {
	ev := OrderEvent{
		ID:     order.ID,
		Number: order.OrderNumber,
		Total:  order.Total,
		Status: string(order.Status),
		Date:   order.CreatedAt,
		Notes:  order.Notes,
	}
	if order.Establishment != nil {
		ev.Establishment = order.Establishment.Name
	}
	if order.Client != nil {
		ev.Client = order.Client.Name
	}
	if order.PaymentMethod != nil {
		ev.PaymentMethod = order.PaymentMethod.Name
	}
	return Event{Type: eventType, Order: ev}
}
