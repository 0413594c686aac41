package notify

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
)

// Publisher delivers an event to the observers of one establishment.
type Publisher interface {
	Publish(ctx context.Context, establishmentID uuid.UUID, ev Event) error
}

// Multi fans an event out to every sink and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, establishmentID uuid.UUID, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, establishmentID, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, uuid.UUID, Event) error { return nil }

const dispatchTimeout = 10 * time.Second

// Dispatch publishes in the background. Failures are logged and never reach
// the caller, so it is safe to call right after a commit.
func Dispatch(p Publisher, establishmentID uuid.UUID, ev Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := p.Publish(ctx, establishmentID, ev); err != nil {
			log.Printf("Failed to publish %s for order %s: %v", ev.Type, ev.Order.ID, err)
			return
		}
		log.Printf("Published %s for order %s to establishment %s", ev.Type, ev.Order.ID, establishmentID)
	}()
	return done
}
