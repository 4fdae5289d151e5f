package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for decoding persisted events.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal decodes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}
	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}
	return event, nil
}

// Describe returns a one-line description of raw, falling back to its type
// when it cannot be decoded.
func (r *Registry) Describe(raw RawEvent) string {
	e, err := r.Unmarshal(raw)
	if err != nil {
		return raw.EventType
	}
	if s, ok := e.(Summarizer); ok {
		return s.Summary()
	}
	return raw.EventType
}

// DefaultRegistry returns a registry with every import event registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventImportStarted, func() Event { return &ImportStarted{} })
	r.Register(EventImportProgressed, func() Event { return &ImportProgressed{} })
	r.Register(EventImportItemCommitted, func() Event { return &ImportItemCommitted{} })
	r.Register(EventImportItemSkipped, func() Event { return &ImportItemSkipped{} })
	r.Register(EventImportCompleted, func() Event { return &ImportCompleted{} })
	r.Register(EventImportFailed, func() Event { return &ImportFailed{} })
	r.Register(EventImportCancelled, func() Event { return &ImportCancelled{} })
	return r
}
