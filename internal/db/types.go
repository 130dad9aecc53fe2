package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// DefaultCacheName is the record_caches row used when none is given
const DefaultCacheName = "users"

// Run represents a pipeline run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	InputPath   string     `json:"input_path"`
	Store       string     `json:"store"`
	Status      string     `json:"status"`
	Requested   int        `json:"requested"`
	Resolved    int        `json:"resolved"`
	Generated   int        `json:"generated"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunSummary is what CompleteRun writes back
type RunSummary struct {
	Status    string
	Requested int
	Resolved  int
	Generated int
	Error     string
}
