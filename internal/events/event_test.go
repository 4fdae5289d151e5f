package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseEvent_ImplementsEvent(t *testing.T) {
	now := time.Now()
	e := BaseEvent{
		Type:      "test.event",
		Entity:    EntityMovie,
		ID:        42,
		Timestamp: now,
	}

	assert.Equal(t, "test.event", e.EventType())
	assert.Equal(t, EntityMovie, e.EntityType())
	assert.Equal(t, int64(42), e.EntityID())
	assert.Equal(t, now, e.OccurredAt())
}

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent(EventImportStarted, EntityShow, 123)

	assert.Equal(t, EventImportStarted, e.EventType())
	assert.Equal(t, EntityShow, e.EntityType())
	assert.Equal(t, int64(123), e.EntityID())
	assert.False(t, e.OccurredAt().IsZero())
	assert.Equal(t, time.UTC, e.OccurredAt().Location())
}
