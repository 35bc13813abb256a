package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one run of the game.
type Session struct {
	ID        string    `db:"id"`
	NeutralX  float64   `db:"neutral_x"`
	StartedAt time.Time `db:"started_at"`
}

const (
	queryCreateSession = `INSERT INTO sessions (id, neutral_x, started_at)
		VALUES (:id, :neutral_x, :started_at)`
	queryGetSession = `SELECT id, neutral_x, started_at FROM sessions WHERE id = ?`
	querySetNeutral = `UPDATE sessions SET neutral_x = ? WHERE id = ?`
)

// SessionRepository provides operations for sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session.
func (r *SessionRepository) Create(session *Session) error {
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}

	_, err := r.db.NamedExec(queryCreateSession, session)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	session := &Session{}
	if err := r.db.Get(session, queryGetSession, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return session, nil
}

// SetNeutral records the calibrated neutral head position of a session.
func (r *SessionRepository) SetNeutral(id string, neutralX float64) error {
	result, err := r.db.Exec(querySetNeutral, neutralX, id)
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
