package store

import (
	"database/sql"
	"time"
)

// Event is one journal line: a fired gesture or a side activity.
type Event struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Label     string    `json:"label"`
	FiredAt   time.Time `json:"fired_at"`
}

// EventRepository provides access to session events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append inserts e and sets its ID.
func (r *EventRepository) Append(e *Event) error {
	result, err := r.db.Exec(
		`INSERT INTO session_events (session_id, kind, label, fired_at) VALUES (?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.Label, e.FiredAt.UnixMilli(),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession returns the events of a session in the order they were
// appended.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, label, fired_at FROM session_events
		 WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var fired int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Label, &fired); err != nil {
			return nil, err
		}
		e.FiredAt = time.UnixMilli(fired)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
