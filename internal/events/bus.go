package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus is an in-process pub/sub hub. Delivery never blocks the publisher:
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event // eventType -> channels
	allSubs     []chan Event
	log         *EventLog // nil disables persistence
	logger      *slog.Logger
	closed      bool
}

// NewBus creates a bus. log may be nil.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		log:         log,
		logger:      logger.With("component", "events"),
	}
}

// Publish persists e (unless it is Ephemeral) and delivers it to
// subscribers. Persistence failures are logged, not returned. Delivery
// holds the read lock so Unsubscribe and Close cannot close a channel
// mid-send.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return nil
	}

	if b.log != nil && !isEphemeral(e) {
		if _, err := b.log.Append(ctx, e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, ch := range b.subscribers[e.EventType()] {
		b.deliver(ch, e)
	}
	for _, ch := range b.allSubs {
		b.deliver(ch, e)
	}
	return nil
}

func (b *Bus) deliver(ch chan Event, e Event) {
	select {
	case ch <- e:
	default:
		if !isEphemeral(e) {
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}
}

func isEphemeral(e Event) bool {
	eph, ok := e.(Ephemeral)
	return ok && eph.Ephemeral()
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.allSubs = append(b.allSubs, ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				close(sub)
				return
			}
		}
	}
	for i, sub := range b.allSubs {
		if sub == ch {
			b.allSubs = append(b.allSubs[:i], b.allSubs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = nil
	for _, ch := range b.allSubs {
		close(ch)
	}
	b.allSubs = nil
	return nil
}
