package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Round represents a finished round.
type Round struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Number    int       `db:"number"`
	Score     int       `db:"score"`
	Ticks     int       `db:"ticks"`
	Shots     int       `db:"shots"`
	StartedAt time.Time `db:"started_at"`
	EndedAt   time.Time `db:"ended_at"`
}

const (
	queryCreateRound = `INSERT INTO rounds (id, session_id, number, score, ticks, shots, started_at, ended_at)
		VALUES (:id, :session_id, :number, :score, :ticks, :shots, :started_at, :ended_at)`
	querySelectRound = `SELECT id, session_id, number, score, ticks, shots, started_at, ended_at FROM rounds`
	queryGetRound    = querySelectRound + ` WHERE id = ?`
	queryListRounds  = querySelectRound + ` WHERE session_id = ? ORDER BY number`
	queryBestScore   = `SELECT COALESCE(MAX(score), 0) FROM rounds WHERE session_id = ?`
	queryCountRounds = `SELECT COUNT(*) FROM rounds WHERE session_id = ?`
)

// RoundRepository provides operations for rounds.
type RoundRepository struct {
	db *sqlx.DB
}

// Rounds returns the round repository for this store.
func (s *Store) Rounds() *RoundRepository {
	return &RoundRepository{db: s.db}
}

// Create inserts a finished round.
func (r *RoundRepository) Create(round *Round) error {
	if round.EndedAt.IsZero() {
		round.EndedAt = time.Now()
	}
	if round.StartedAt.IsZero() {
		round.StartedAt = round.EndedAt
	}

	_, err := r.db.NamedExec(queryCreateRound, round)
	return err
}

// GetByID retrieves a round by its ID.
func (r *RoundRepository) GetByID(id string) (*Round, error) {
	round := &Round{}
	if err := r.db.Get(round, queryGetRound, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return round, nil
}

// ListBySession retrieves the rounds of a session in play order.
func (r *RoundRepository) ListBySession(sessionID string) ([]*Round, error) {
	var rounds []*Round
	if err := r.db.Select(&rounds, queryListRounds, sessionID); err != nil {
		return nil, err
	}
	return rounds, nil
}

// Best returns the highest score recorded in a session, or 0 without rounds.
func (r *RoundRepository) Best(sessionID string) (int, error) {
	var best int
	err := r.db.Get(&best, queryBestScore, sessionID)
	return best, err
}

// Count returns the number of rounds recorded in a session.
func (r *RoundRepository) Count(sessionID string) (int, error) {
	var n int
	err := r.db.Get(&n, queryCountRounds, sessionID)
	return n, err
}
