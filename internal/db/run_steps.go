package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStep is one progress event recorded during a run
type RunStep struct {
	ID        int64     `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Step      string    `json:"step"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordStep appends a progress event to a run
func (db *DB) RecordStep(ctx context.Context, runID uuid.UUID, step, message string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_steps (run_id, step, message) VALUES ($1, $2, $3)`,
		runID, step, message,
	)
	if err != nil {
		return fmt.Errorf("failed to record run step: %w", err)
	}
	return nil
}

// ListRunSteps returns the events of a run in the order they happened
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, message, created_at
		 FROM run_steps WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var step RunStep
		if err := rows.Scan(&step.ID, &step.RunID, &step.Step, &step.Message, &step.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}
