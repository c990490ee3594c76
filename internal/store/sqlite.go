package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	language   TEXT NOT NULL,
	input_dir  TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS file_results (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	file        TEXT NOT NULL,
	succeeded   INTEGER NOT NULL,
	error       TEXT,
	asset_rows  INTEGER NOT NULL DEFAULT 0,
	check_count INTEGER NOT NULL DEFAULT 0,
	finished_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_file_results_run_id ON file_results(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, language, inputDir string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, language, input_dir, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, language, inputDir, string(RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &Run{
		ID:        id,
		Language:  language,
		InputDir:  inputDir,
		Status:    RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, status RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

func (s *SQLiteStore) RecordFileResult(ctx context.Context, result FileResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now().UTC()
	}

	succeeded := 0
	if result.Succeeded {
		succeeded = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO file_results (id, run_id, file, succeeded, error, asset_rows, check_count, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.RunID, result.File, succeeded, result.Error,
		result.AssetRows, result.CheckCount, result.FinishedAt,
	)
	return eris.Wrap(err, "sqlite: insert file result")
}

func (s *SQLiteStore) ListFileResults(ctx context.Context, runID string) ([]FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, file, succeeded, error, asset_rows, check_count, finished_at
		 FROM file_results WHERE run_id = ? ORDER BY finished_at`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list file results %s", runID)
	}
	defer rows.Close()

	var results []FileResult
	for rows.Next() {
		var r FileResult
		var succeeded int
		if err := rows.Scan(&r.ID, &r.RunID, &r.File, &succeeded, &r.Error, &r.AssetRows, &r.CheckCount, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan file result")
		}
		r.Succeeded = succeeded == 1
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: iterate file results")
}
