// Package runhistory persists a ledger of completed reorganization runs
// backed by SQLite.
package runhistory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/report"
)

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded reorganization run.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	MetadataPath string
	SourceDir    string
	OutputDir    string
	Strategy     string
	Workers      int
	Summary      report.Summary
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts one completed run into the ledger.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, metadata_path, source_dir, output_dir,
            strategy, workers, records, malformed, resolved, skipped,
            collisions, completed, failed, dirs_created, elapsed_ms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.MetadataPath,
		run.SourceDir,
		run.OutputDir,
		run.Strategy,
		run.Workers,
		run.Summary.Records,
		run.Summary.Malformed,
		run.Summary.Resolved,
		run.Summary.Skipped,
		run.Summary.Collisions,
		run.Summary.Completed,
		run.Summary.Failed,
		run.Summary.DirsMade,
		run.Summary.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, metadata_path, source_dir, output_dir,
            strategy, workers, records, malformed, resolved, skipped,
            collisions, completed, failed, dirs_created, elapsed_ms
        FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			started   string
			finished  string
			elapsedMS int64
		)
		if err := rows.Scan(
			&run.ID,
			&started,
			&finished,
			&run.MetadataPath,
			&run.SourceDir,
			&run.OutputDir,
			&run.Strategy,
			&run.Workers,
			&run.Summary.Records,
			&run.Summary.Malformed,
			&run.Summary.Resolved,
			&run.Summary.Skipped,
			&run.Summary.Collisions,
			&run.Summary.Completed,
			&run.Summary.Failed,
			&run.Summary.DirsMade,
			&elapsedMS,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.Summary.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		run.Summary.RunID = run.ID
		run.Summary.Strategy = run.Strategy
		run.Summary.Workers = run.Workers
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
