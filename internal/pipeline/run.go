// Package pipeline provides the high-level orchestration for the news ETL run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/user-news-etl/internal/db"
	"github.com/jonathan/user-news-etl/internal/ingestion"
	"github.com/jonathan/user-news-etl/internal/metrics"
	"github.com/jonathan/user-news-etl/internal/observability"
	"github.com/jonathan/user-news-etl/internal/records"
	"github.com/jonathan/user-news-etl/internal/types"
)

// Step names used in progress events and log fields
const (
	StepSeedCache       = "seed_cache"
	StepReadIdentifiers = "read_identifiers"
	StepLoadRecords     = "load_records"
	StepResolveUsers    = "resolve_users"
	StepGenerateNews    = "generate_news"
	StepCheckpoint      = "checkpoint"
	StepPersistRecords  = "persist_records"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// MessageGenerator produces the news text for one user
type MessageGenerator interface {
	Generate(ctx context.Context, user *types.User) (string, error)
}

// RunRecorder keeps run history; *db.DB implements it
type RunRecorder interface {
	StartRun(ctx context.Context, runID uuid.UUID, inputPath, store string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, summary db.RunSummary) error
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	InputPath string
	Column    string

	Store     records.Store
	Seeder    records.Seeder
	Generator MessageGenerator // Not needed for dry runs

	Icon            string
	MissingPolicy   records.MissingPolicy
	CheckpointEvery int // Save after every N generated messages; 0 saves once at the end
	DryRun          bool
	Verbose         bool

	Logger     logrus.FieldLogger
	Out        io.Writer // Verbose output, defaults to stdout
	Metrics    *metrics.Metrics
	Recorder   RunRecorder
	OnProgress ProgressCallback
}

// Result summarizes a pipeline run
type Result struct {
	RunID     uuid.UUID
	Seeded    bool
	Requested int
	Resolved  int
	Missing   []types.Identifier
	Generated int
	Duration  time.Duration
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID uuid.UUID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID.String(),
			Content: content,
		})
	}
}

// Run executes one linear pass: populate the cache if needed, read the
// identifiers, resolve them, generate and append one message per resolved
// user, and save every cached record. Generation is sequential; the first
// error aborts the run.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("a record store is required")
	}
	if opts.Seeder == nil {
		return nil, fmt.Errorf("a seeder is required")
	}
	if opts.Generator == nil && !opts.DryRun {
		return nil, fmt.Errorf("a message generator is required unless dry-running")
	}
	if opts.MissingPolicy == "" {
		opts.MissingPolicy = records.MissingSkip
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	start := time.Now()
	result := &Result{RunID: uuid.New()}
	log := opts.Logger.WithFields(logrus.Fields{
		"run_id": result.RunID.String(),
		"store":  opts.Store.Name(),
	})
	printer := observability.NewPrinter(opts.Out)

	if opts.Recorder != nil {
		if err := opts.Recorder.StartRun(ctx, result.RunID, opts.InputPath, opts.Store.Name()); err != nil {
			log.Warnf("Failed to record run start: %v", err)
		}
	}

	runErr := run(ctx, &opts, result, log, printer)
	result.Duration = time.Since(start)
	opts.Metrics.ObserveRun(start, runErr == nil)

	if opts.Recorder != nil {
		summary := db.RunSummary{
			Status:    db.RunStatusCompleted,
			Requested: result.Requested,
			Resolved:  result.Resolved,
			Generated: result.Generated,
		}
		if runErr != nil {
			summary.Status = db.RunStatusFailed
			summary.Error = runErr.Error()
		}
		// The run context may already be canceled; history is still worth writing.
		if err := opts.Recorder.CompleteRun(context.WithoutCancel(ctx), result.RunID, summary); err != nil {
			log.Warnf("Failed to record run completion: %v", err)
		}
	}

	if runErr != nil {
		log.WithError(runErr).Error("Run failed")
		return result, runErr
	}

	if opts.Verbose {
		printer.PrintRunSummary(&observability.RunSummary{
			RunID:     result.RunID.String(),
			Store:     opts.Store.Name(),
			Seeded:    result.Seeded,
			Requested: result.Requested,
			Resolved:  result.Resolved,
			Missing:   result.Missing,
			Generated: result.Generated,
			DryRun:    opts.DryRun,
			Duration:  result.Duration,
		})
	}
	log.WithFields(logrus.Fields{
		"requested": result.Requested,
		"resolved":  result.Resolved,
		"generated": result.Generated,
		"duration":  result.Duration.String(),
	}).Info("Run completed")
	return result, nil
}

func run(ctx context.Context, opts *RunOptions, result *Result, log *logrus.Entry, printer *observability.Printer) error {
	// Step 1: Make sure the cache exists
	log.WithField("step", StepSeedCache).Info("Step 1/6: Checking record cache...")
	seeded, err := records.EnsurePopulated(ctx, opts.Store, opts.Seeder)
	if err != nil {
		return fmt.Errorf("cache population failed: %w", err)
	}
	result.Seeded = seeded
	if seeded {
		opts.Metrics.CacheSeeded.Set(1)
		log.WithField("source", opts.Seeder.Source()).Info("Cache not found, seeded from remote")
	} else {
		log.Info("Cache found, keeping local data")
	}
	emitProgress(opts, result.RunID, StepSeedCache, fmt.Sprintf("Cache ready (seeded: %t)", seeded), nil)

	// Step 2: Read identifiers
	log.WithField("step", StepReadIdentifiers).Infof("Step 2/6: Reading identifiers from %s...", opts.InputPath)
	ids, err := ingestion.ReadIdentifiers(opts.InputPath, opts.Column)
	if err != nil {
		return fmt.Errorf("reading identifiers failed: %w", err)
	}
	result.Requested = len(ids)
	opts.Metrics.IdentifiersRead.Add(float64(len(ids)))
	emitProgress(opts, result.RunID, StepReadIdentifiers, fmt.Sprintf("Read %d identifiers", len(ids)), ids)

	// Step 3: Load cached records
	log.WithField("step", StepLoadRecords).Info("Step 3/6: Loading cached records...")
	users, err := opts.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading records failed: %w", err)
	}
	emitProgress(opts, result.RunID, StepLoadRecords, fmt.Sprintf("Loaded %d cached records", len(users)), nil)

	// Step 4: Resolve identifiers
	log.WithField("step", StepResolveUsers).Info("Step 4/6: Resolving users...")
	resolution, err := records.Resolve(ids, users, opts.MissingPolicy)
	if resolution != nil {
		result.Resolved = len(resolution.Resolved)
		result.Missing = resolution.Missing
		opts.Metrics.UsersResolved.Add(float64(len(resolution.Resolved)))
		opts.Metrics.UsersMissing.Add(float64(len(resolution.Missing)))
	}
	if err != nil {
		return fmt.Errorf("resolving users failed: %w", err)
	}
	if opts.MissingPolicy == records.MissingReport {
		for _, id := range resolution.Missing {
			log.WithField("user_id", id.String()).Warn("Identifier not found in cache")
		}
	}
	if opts.Verbose {
		printer.PrintResolvedUsers(resolution.Resolved, resolution.Missing)
	}
	emitProgress(opts, result.RunID, StepResolveUsers,
		fmt.Sprintf("Resolved %d of %d identifiers", len(resolution.Resolved), len(ids)), resolution)

	if opts.DryRun {
		log.Info("Dry run: skipping generation and persistence")
		return nil
	}

	// Step 5: Generate and append one message per resolved user
	log.WithField("step", StepGenerateNews).Infof("Step 5/6: Generating news for %d users...", len(resolution.Resolved))
	for _, user := range resolution.Resolved {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled: %w", err)
		}

		userLog := log.WithFields(logrus.Fields{"user_id": user.ID.String(), "step": StepGenerateNews})
		text, err := opts.Generator.Generate(ctx, user)
		if err != nil {
			opts.Metrics.GenerationFailures.Inc()
			return fmt.Errorf("message generation failed: %w", err)
		}
		if err := records.Augment(user, text, opts.Icon); err != nil {
			return fmt.Errorf("augmenting user %s failed: %w", user.ID, err)
		}

		result.Generated++
		opts.Metrics.MessagesGenerated.Inc()
		userLog.WithField("message", text).Debug("Generated message")
		if opts.Verbose {
			printer.PrintMessage(user, text)
		}
		emitProgress(opts, result.RunID, StepGenerateNews, fmt.Sprintf("Generated news for %s", user.Name), text)

		if opts.CheckpointEvery > 0 && result.Generated%opts.CheckpointEvery == 0 {
			if err := opts.Store.Save(ctx, users); err != nil {
				return fmt.Errorf("checkpoint failed: %w", err)
			}
			log.WithField("step", StepCheckpoint).Debugf("Checkpoint saved after %d messages", result.Generated)
			emitProgress(opts, result.RunID, StepCheckpoint, fmt.Sprintf("Saved after %d messages", result.Generated), nil)
		}
	}

	// Step 6: Persist every cached record in one write
	log.WithField("step", StepPersistRecords).Infof("Step 6/6: Saving %d records...", len(users))
	if err := opts.Store.Save(ctx, users); err != nil {
		return fmt.Errorf("persisting records failed: %w", err)
	}
	emitProgress(opts, result.RunID, StepPersistRecords, fmt.Sprintf("Saved %d records", len(users)), nil)

	return nil
}
