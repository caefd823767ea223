// Package store provides SQLite-backed history for workbench calls. The
// analysis core never touches it; a dispatcher may record one row per
// simulation call and one per property analysis to audit long sessions.
// The reachability graph itself is never persisted.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store handles SQLite database operations for run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded simulation call.
type Run struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Kind       string    `json:"kind"` // "start", "step", "continue"
	Steps      int       `json:"steps"`
	Deadlocked bool      `json:"deadlocked"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Analysis is one recorded property check.
type Analysis struct {
	ID         string    `json:"id"`
	States     int       `json:"states"`
	Edges      int       `json:"edges"`
	Bounded    int       `json:"bounded"`
	Liveness   bool      `json:"liveness"`
	Reversible bool      `json:"reversible"`
	Deadlock   bool      `json:"deadlock"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// New creates a Store with the given database path. Use ":memory:" for
// an ephemeral store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		steps INTEGER NOT NULL DEFAULT 0,
		deadlocked INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		states INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		bounded INTEGER NOT NULL,
		liveness INTEGER NOT NULL DEFAULT 0,
		reversible INTEGER NOT NULL DEFAULT 0,
		deadlock INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session_id);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a run row and returns its generated id.
func (s *Store) RecordRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, session_id, kind, steps, deadlocked, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SessionID, run.Kind, run.Steps, run.Deadlocked, run.DurationMs, run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// RecordAnalysis inserts an analysis row and returns its generated id.
func (s *Store) RecordAnalysis(a Analysis) (string, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO analyses (id, states, edges, bounded, liveness, reversible, deadlock, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.States, a.Edges, a.Bounded, a.Liveness, a.Reversible, a.Deadlock, a.DurationMs, a.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return a.ID, nil
}

// SessionRuns returns the runs of one session, oldest first.
func (s *Store) SessionRuns(sessionID string) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, kind, steps, deadlocked, duration_ms, created_at
		 FROM runs WHERE session_id = ? ORDER BY rowid`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Kind, &r.Steps,
			&r.Deadlocked, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RecentAnalyses returns the newest analyses up to limit.
func (s *Store) RecentAnalyses(limit int) ([]Analysis, error) {
	rows, err := s.db.Query(
		`SELECT id, states, edges, bounded, liveness, reversible, deadlock, duration_ms, created_at
		 FROM analyses ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.States, &a.Edges, &a.Bounded,
			&a.Liveness, &a.Reversible, &a.Deadlock, &a.DurationMs, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}
