package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of an application loop.
type Session struct {
	ID        string
	Mode      string
	Frames    int
	StartedAt time.Time
	EndedAt   *time.Time
}

// Active reports whether the session has not been ended yet.
func (s *Session) Active() bool {
	return s.EndedAt == nil
}

// SessionRepository provides operations on sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start records a new session for mode and returns it.
func (r *SessionRepository) Start(mode string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, mode, frames, started_at) VALUES (?, ?, 0, ?)`,
		sess.ID, sess.Mode, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// End marks the session finished with the number of frames it processed.
func (r *SessionRepository) End(id string, frames int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET frames = ?, ended_at = ? WHERE id = ?`,
		frames, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a session by its ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, mode, frames, started_at, ended_at FROM sessions WHERE id = ?`,
		id,
	)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, mode, frames, started_at, ended_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime
	if err := sc.Scan(&sess.ID, &sess.Mode, &sess.Frames, &sess.StartedAt, &ended); err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		sess.EndedAt = &t
	}
	return sess, nil
}
