// Package history persists a record of every pipeline run.
package history

import (
	"context"
	"time"
)

// PlatformRun is the per-platform part of a run record.
type PlatformRun struct {
	Platform    string `json:"platform"`
	Version     string `json:"version"`
	Commit      string `json:"commit,omitempty"`
	ScriptRan   bool   `json:"script_ran"`
	ExitCode    int    `json:"exit_code"`
	FilesCopied int    `json:"files_copied"`
	Status      string `json:"status"`
}

// Run is one pipeline invocation.
type Run struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Outcome    string        `json:"outcome"`
	ConfigPath string        `json:"config_path"`
	Error      string        `json:"error,omitempty"`
	Platforms  []PlatformRun `json:"platforms"`
}

// Store records and lists runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// NoopStore discards runs; used when no history database is configured.
type NoopStore struct{}

func (NoopStore) Record(context.Context, Run) error { return nil }
func (NoopStore) Recent(context.Context, int) ([]Run, error) { return nil, nil }
func (NoopStore) Close() error { return nil }
