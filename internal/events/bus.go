package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher emits confirmation events.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// MemoryBus is a Publisher backed by an in-memory buffered channel,
// consumed by the notification service.
type MemoryBus struct {
	ch chan Event
}

// NewMemoryBus creates a MemoryBus with the provided buffer capacity.
func NewMemoryBus(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = 128
	}
	return &MemoryBus{
		ch: make(chan Event, buffer),
	}
}

// Publish enqueues an event or blocks until ctx is done. Missing event
// ids and timestamps are filled in.
func (b *MemoryBus) Publish(ctx context.Context, evt Event) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	select {
	case b.ch <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events exposes the receive side of the bus.
func (b *MemoryBus) Events() <-chan Event {
	return b.ch
}

// Close stops the bus. Publish must not be called afterwards.
func (b *MemoryBus) Close() {
	close(b.ch)
}
