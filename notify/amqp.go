package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
	Close() error
}

// AMQPPublisher forwards order events to a topic exchange with routing key
// orders.<establishment id>, so other services can bind per establishment.
// The channel runs in confirm mode and Publish waits for the broker ack.
type AMQPPublisher struct {
	exchange string
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       amqpChannel
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{exchange: exchange, conn: conn, ch: ch}, nil
}

func RoutingKey(establishmentID uuid.UUID) string {
	return "orders." + establishmentID.String()
}

func (p *AMQPPublisher) Publish(ctx context.Context, establishmentID uuid.UUID, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, RoutingKey(establishmentID), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type,
		MessageId:    ev.Order.ID.String(),
		Timestamp:    time.Now(),
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", ev.Type, err)
	}
	// nil when the channel is not in confirm mode
	if confirm == nil {
		return nil
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq confirm %s: %w", ev.Type, err)
	}
	if !acked {
		return fmt.Errorf("rabbitmq nacked %s for order %s", ev.Type, ev.Order.ID)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}
