// Package store records batch run history: one row per batch run, one row per
// file processed in it. Used by the summary reporting, not by the pipeline
// stages themselves.
package store

import (
	"context"
	"time"
)

// Run is one batch invocation.
type Run struct {
	ID        string
	Language  string
	InputDir  string
	Status    RunStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RunStatus is the lifecycle state of a batch run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// FileResult is the outcome of one file within a run.
type FileResult struct {
	ID         string
	RunID      string
	File       string
	Succeeded  bool
	Error      string
	AssetRows  int
	CheckCount int64
	FinishedAt time.Time
}

// Store persists batch run history.
type Store interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, language, inputDir string) (*Run, error)
	FinishRun(ctx context.Context, runID string, status RunStatus) error
	RecordFileResult(ctx context.Context, result FileResult) error
	ListFileResults(ctx context.Context, runID string) ([]FileResult, error)
	Close() error
}
