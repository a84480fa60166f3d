package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ayusman/mudra/internal/action"
)

// Event is a journaled action.
type Event struct {
	ID        int64
	SessionID string
	Kind      string
	Detail    string
	X, Y      int
	Button    string
	Delta     int
	Percent   int
	CreatedAt time.Time
}

// EventFromAction converts a dispatched action into a journal row for sessionID.
func EventFromAction(sessionID string, ev action.Event) *Event {
	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}
	return &Event{
		SessionID: sessionID,
		Kind:      string(ev.Kind),
		Detail:    ev.Detail(),
		X:         ev.X,
		Y:         ev.Y,
		Button:    string(ev.Button),
		Delta:     ev.Delta,
		Percent:   ev.Percent,
		CreatedAt: at.UTC(),
	}
}

// EventRepository provides operations on the action journal.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts e and sets its ID.
func (r *EventRepository) Record(ctx context.Context, e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO action_events (session_id, kind, detail, x, y, button, delta, percent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.Detail, e.X, e.Y, e.Button, e.Delta, e.Percent, e.CreatedAt,
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

// ListBySession returns the events of a session in the order they happened.
func (r *EventRepository) ListBySession(sessionID string) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, detail, x, y, button, delta, percent, created_at
		 FROM action_events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Detail, &e.X, &e.Y,
			&e.Button, &e.Delta, &e.Percent, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByKind returns how many events of each kind a session recorded.
func (r *EventRepository) CountByKind(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM action_events WHERE session_id = ? GROUP BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Journal writes discrete action events of one session to the store.
type Journal struct {
	events    *EventRepository
	sessionID string
}

var _ action.Journal = (*Journal)(nil)

// Journal returns an action.Journal bound to sessionID.
func (s *Store) Journal(sessionID string) *Journal {
	return &Journal{events: s.Events(), sessionID: sessionID}
}

// Record implements action.Journal.
func (j *Journal) Record(ctx context.Context, ev action.Event) error {
	return j.events.Record(ctx, EventFromAction(j.sessionID, ev))
}
