package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and migrates) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		config_path TEXT NOT NULL,
		error TEXT
	);
	CREATE TABLE IF NOT EXISTS platform_runs (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		platform TEXT NOT NULL,
		version TEXT NOT NULL,
		sdk_commit TEXT,
		script_ran INTEGER NOT NULL,
		exit_code INTEGER NOT NULL,
		files_copied INTEGER NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a run and its platform rows in one transaction.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, finished_at, outcome, config_path, error) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.Outcome, run.ConfigPath, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, p := range run.Platforms {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO platform_runs (run_id, position, platform, version, sdk_commit, script_ran, exit_code, files_copied, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, p.Platform, p.Version, p.Commit, p.ScriptRan, p.ExitCode, p.FilesCopied, p.Status,
		)
		if err != nil {
			return fmt.Errorf("insert platform run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, outcome, config_path, COALESCE(error, '') FROM runs ORDER BY started_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &started, &finished, &r.Outcome, &r.ConfigPath, &r.Error); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	_ = rows.Close()

	for i := range runs {
		platforms, err := s.platforms(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Platforms = platforms
	}
	return runs, nil
}

func (s *SQLiteStore) platforms(ctx context.Context, runID string) ([]PlatformRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, version, COALESCE(sdk_commit, ''), script_ran, exit_code, files_copied, status
		 FROM platform_runs WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query platform runs: %w", err)
	}
	defer rows.Close()

	var out []PlatformRun
	for rows.Next() {
		var p PlatformRun
		if err := rows.Scan(&p.Platform, &p.Version, &p.Commit, &p.ScriptRan, &p.ExitCode, &p.FilesCopied, &p.Status); err != nil {
			return nil, fmt.Errorf("scan platform run: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate platform runs: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
