// Package db provides PostgreSQL storage for the user record cache and run history.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied by EnsureSchema; every statement is idempotent
const schema = `
CREATE TABLE IF NOT EXISTS record_caches (
	name       TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS pipeline_runs (
	id           UUID PRIMARY KEY,
	input_path   TEXT NOT NULL,
	store        TEXT NOT NULL,
	status       TEXT NOT NULL,
	requested    INT NOT NULL DEFAULT 0,
	resolved     INT NOT NULL DEFAULT 0,
	generated    INT NOT NULL DEFAULT 0,
	error        TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS run_steps (
	id         BIGSERIAL PRIMARY KEY,
	run_id     UUID NOT NULL REFERENCES pipeline_runs(id) ON DELETE CASCADE,
	step       TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_run_steps_run_id ON run_steps(run_id);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables this package uses if they are missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// StartRun records the beginning of a pipeline run
func (db *DB) StartRun(ctx context.Context, runID uuid.UUID, inputPath, store string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO pipeline_runs (id, input_path, store, status)
		 VALUES ($1, $2, $3, $4)`,
		runID, inputPath, store, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun stores the final status and counters of a pipeline run
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, summary RunSummary) error {
	var errText *string
	if summary.Error != "" {
		errText = &summary.Error
	}

	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs
		 SET status = $1, requested = $2, resolved = $3, generated = $4, error = $5, completed_at = NOW()
		 WHERE id = $6`,
		summary.Status, summary.Requested, summary.Resolved, summary.Generated, errText, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a pipeline run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, input_path, store, status, requested, resolved, generated, error, created_at, completed_at
		 FROM pipeline_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.InputPath, &run.Store, &run.Status, &run.Requested, &run.Resolved,
		&run.Generated, &run.Error, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent pipeline runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, input_path, store, status, requested, resolved, generated, error, created_at, completed_at
		 FROM pipeline_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.InputPath, &run.Store, &run.Status, &run.Requested, &run.Resolved,
			&run.Generated, &run.Error, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
