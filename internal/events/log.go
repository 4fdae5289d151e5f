package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventLog persists events to the catalog's events table.
type EventLog struct {
	db  *sql.DB
	now func() time.Time
}

// NewEventLog creates an event log over an open catalog database.
func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db, now: time.Now}
}

// Append persists an event and returns its row ID.
func (l *EventLog) Append(ctx context.Context, e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	result, err := l.db.ExecContext(ctx, `
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return result.LastInsertId()
}

// RawEvent is a persisted event with its JSON payload.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   int64
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

const rawEventColumns = `id, event_type, entity_type, entity_id, payload, occurred_at, created_at`

// Since returns all events at or after t, oldest first.
func (l *EventLog) Since(ctx context.Context, t time.Time) ([]RawEvent, error) {
	return l.query(ctx, `SELECT `+rawEventColumns+` FROM events
		WHERE occurred_at >= ? ORDER BY id ASC`, t.UTC())
}

// Recent returns the newest limit events, newest first.
func (l *EventLog) Recent(ctx context.Context, limit int) ([]RawEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.query(ctx, `SELECT `+rawEventColumns+` FROM events
		ORDER BY id DESC LIMIT ?`, limit)
}

// ForEntity returns all events for one movie or show, oldest first.
func (l *EventLog) ForEntity(ctx context.Context, entityType string, entityID int64) ([]RawEvent, error) {
	return l.query(ctx, `SELECT `+rawEventColumns+` FROM events
		WHERE entity_type = ? AND entity_id = ? ORDER BY id ASC`, entityType, entityID)
}

// ForOperation returns every event of one import run, oldest first.
func (l *EventLog) ForOperation(ctx context.Context, operationID string) ([]RawEvent, error) {
	return l.query(ctx, `SELECT `+rawEventColumns+` FROM events
		WHERE json_extract(payload, '$.operation_id') = ? ORDER BY id ASC`, operationID)
}

// Prune removes events older than the given duration.
func (l *EventLog) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := l.now().Add(-olderThan).UTC()
	result, err := l.db.ExecContext(ctx, `DELETE FROM events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}

func (l *EventLog) query(ctx context.Context, query string, args ...any) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
