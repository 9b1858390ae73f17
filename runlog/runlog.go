// Package runlog persists one record per composition run to a local
// SQLite file, so that skipped items and output changes can be
// inspected after the fact. The log is strictly an observer: nothing
// in the composition path depends on it.
package runlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Schema for the run history tables. Applied by Open.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	duration_us INTEGER NOT NULL,
	items INTEGER NOT NULL,
	failures INTEGER NOT NULL,
	output_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_warnings (
	run_id TEXT NOT NULL REFERENCES runs(id),
	item_url TEXT NOT NULL,
	message TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Run is one composition run.
type Run struct {
	ID         string
	StartedAt  int64 // unix microseconds
	DurationUs int64
	Items      int
	Failures   int
	OutputHash string // SHA-256 of the final text
}

// Warning is one item-tagged diagnostic attached to a run.
type Warning struct {
	ItemURL string
	Message string
}

// NewRun allocates a run record with a fresh id and start time.
func NewRun() Run {
	return Run{ID: uuid.NewString(), StartedAt: time.Now().UnixMicro()}
}

// Store is the SQLite-backed history.
type Store struct {
	db *sql.DB
}

// Open opens (creating directories and tables as needed) the history
// database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one run and its warnings atomically.
func (s *Store) Record(run Run, warnings []Warning) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, duration_us, items, failures, output_hash) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.DurationUs, run.Items, run.Failures, run.OutputHash,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, w := range warnings {
		if _, err := tx.Exec(
			`INSERT INTO run_warnings (run_id, item_url, message) VALUES (?, ?, ?)`,
			run.ID, w.ItemURL, w.Message,
		); err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns the latest n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, duration_us, items, failures, output_hash FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.DurationUs, &r.Items, &r.Failures, &r.OutputHash); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Warnings returns the diagnostics recorded for one run.
func (s *Store) Warnings(runID string) ([]Warning, error) {
	rows, err := s.db.Query(`SELECT item_url, message FROM run_warnings WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.ItemURL, &w.Message); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
