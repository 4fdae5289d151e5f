// Package events carries import lifecycle notifications between the importer
// and its observers, and keeps a persistent history of them.
package events

import "time"

// Entity types.
const (
	EntityMovie = "movie"
	EntityShow  = "show"
)

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityType() string // EntityMovie or EntityShow
	EntityID() int64    // 0 until the entity has been committed
	OccurredAt() time.Time
}

// Ephemeral events are delivered to subscribers but never persisted.
type Ephemeral interface {
	Ephemeral() bool
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent stamped with the current UTC time.
func NewBaseEvent(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now().UTC(),
	}
}
