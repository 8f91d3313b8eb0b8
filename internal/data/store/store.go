// Package store persists per-run activity statistics to SQLite so sessions
// can be compared after the fact.
package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"spikeplay/internal/core/model"
)

// Run is one recorded playback or export session.
type Run struct {
	ID               string
	Base             string // reference file the sequence was loaded from
	Layout           string
	Frames           int
	StartedAt        int64 // unix seconds
	FinishedAt       int64
	TotalActivations int
}

// EdgeTotal is an edge's activation count, per run or summed across runs.
type EdgeTotal struct {
	Source int
	Target int
	Count  int
}

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening run store %s: %w", path, err)
	}

	// WAL keeps concurrent readers cheap; the writer is always single.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			base TEXT NOT NULL,
			layout TEXT NOT NULL,
			frames INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			total_activations INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS edge_counts (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			source INTEGER NOT NULL,
			target INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, source, target)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating run store schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RecordRun inserts one run with its edge counts in a single transaction.
// A run id collision replaces the previous record.
func (s *Store) RecordRun(run Run, counts map[model.EdgeKey]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, base, layout, frames, started_at, finished_at, total_activations)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			base = excluded.base,
			layout = excluded.layout,
			frames = excluded.frames,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			total_activations = excluded.total_activations
	`, run.ID, run.Base, run.Layout, run.Frames, run.StartedAt, run.FinishedAt, run.TotalActivations)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM edge_counts WHERE run_id = ?`, run.ID); err != nil {
		return err
	}

	// Deterministic insert order keeps the write path reproducible.
	keys := make([]model.EdgeKey, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})

	stmt, err := tx.Prepare(`INSERT INTO edge_counts (run_id, source, target, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, key := range keys {
		if _, err := stmt.Exec(run.ID, key.From, key.To, counts[key]); err != nil {
			return fmt.Errorf("recording edge %s of run %s: %w", key, run.ID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns all recorded runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, base, layout, frames, started_at, finished_at, total_activations
		FROM runs ORDER BY started_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Base, &r.Layout, &r.Frames,
			&r.StartedAt, &r.FinishedAt, &r.TotalActivations); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// TopEdges returns the most active edges summed across every recorded run.
// limit <= 0 returns all edges.
func (s *Store) TopEdges(limit int) ([]EdgeTotal, error) {
	query := `
		SELECT source, target, SUM(count) AS total
		FROM edge_counts
		GROUP BY source, target
		ORDER BY total DESC, source, target
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []EdgeTotal
	for rows.Next() {
		var e EdgeTotal
		if err := rows.Scan(&e.Source, &e.Target, &e.Count); err != nil {
			return nil, err
		}
		totals = append(totals, e)
	}
	return totals, rows.Err()
}

// RunEdges returns one run's edge counts, most active first.
func (s *Store) RunEdges(runID string) ([]EdgeTotal, error) {
	rows, err := s.db.Query(`
		SELECT source, target, count FROM edge_counts
		WHERE run_id = ? ORDER BY count DESC, source, target
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []EdgeTotal
	for rows.Next() {
		var e EdgeTotal
		if err := rows.Scan(&e.Source, &e.Target, &e.Count); err != nil {
			return nil, err
		}
		totals = append(totals, e)
	}
	return totals, rows.Err()
}
