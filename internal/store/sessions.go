package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/yashwanthk/focusflow/internal/models"
)

// SessionStore handles Session CRUD on SQLite. It is shared by the sync
// engine (as the local cache) and the remote-store server (as its backing
// collection); both sides see the same row shape.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new session store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

const sessionColumns = "id, user_id, date, start_time, end_time, task, duration_minutes, created_at, updated_at"

// Upsert inserts or fully replaces the session with the same id, CreatedAt
// included: it is the merge tie-break field, and a merge that adopts a remote
// record must adopt its tie-break value too or the row stays permanently
// "older" than the server copy. Callers that edit an existing session are
// responsible for carrying the stored CreatedAt forward. UpdatedAt is stamped
// here.
func (s *SessionStore) Upsert(sess models.Session) error {
	now := time.Now().UnixMilli()
	_, err := s.db.Exec(`
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			task = excluded.task,
			duration_minutes = excluded.duration_minutes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, sess.ID, sess.UserID, sess.Date, sess.StartTime, sess.EndTime,
		sess.Task, sess.DurationMinutes, sess.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// GetByID fetches a session by id, or nil when absent.
func (s *SessionStore) GetByID(id string) (*models.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// ListAll returns every session ordered by date desc then start time desc.
func (s *SessionStore) ListAll() ([]models.Session, error) {
	return s.list(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY date DESC, start_time DESC`)
}

// ListByUser returns one user's sessions ordered by date desc then start desc.
func (s *SessionStore) ListByUser(userID models.User) ([]models.Session, error) {
	return s.list(`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? ORDER BY date DESC, start_time DESC`, userID)
}

// ListByDate returns sessions for one date ordered by start time asc,
// optionally filtered to one user.
func (s *SessionStore) ListByDate(date string, userID models.User) ([]models.Session, error) {
	if userID != "" {
		return s.list(`SELECT `+sessionColumns+` FROM sessions WHERE date = ? AND user_id = ? ORDER BY start_time ASC`, date, userID)
	}
	return s.list(`SELECT `+sessionColumns+` FROM sessions WHERE date = ? ORDER BY start_time ASC`, date)
}

// Delete removes a session by id. Deleting an absent id is not an error.
func (s *SessionStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) list(query string, args ...any) ([]models.Session, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var sess models.Session
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Date, &sess.StartTime,
		&sess.EndTime, &sess.Task, &sess.DurationMinutes, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
