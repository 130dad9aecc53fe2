package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/user-news-etl/internal/config"
	"github.com/jonathan/user-news-etl/internal/fetch"
	"github.com/jonathan/user-news-etl/internal/llm"
	"github.com/jonathan/user-news-etl/internal/logger"
	"github.com/jonathan/user-news-etl/internal/marketing"
	"github.com/jonathan/user-news-etl/internal/metrics"
	"github.com/jonathan/user-news-etl/internal/pipeline"
	"github.com/jonathan/user-news-etl/internal/records"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Generate and append investment news for every listed user",
	Long: `Runs the whole ETL once: makes sure the record cache exists (seeding it from
the remote mock API when absent), reads the identifiers, generates one message
per known user, and writes every cached record back.

Configuration can be loaded from a JSON or YAML file using --config. Command-line
arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath      string
	runInput           string
	runColumn          string
	runStore           string
	runSeedURL         string
	runIcon            string
	runTimeout         int
	runTier            string
	runModel           string
	runLanguage        string
	runMaxChars        int
	runAPIKey          string
	runMissing         string
	runCheckpointEvery int
	runDryRun          bool
	runDatabaseURL     string
	runMetricsFile     string
	runLogLevel        string
	runLogJSON         bool
	runVerbose         bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runInput, "input", "i", "", "CSV file listing user identifiers (default USERS.csv)")
	runCommand.Flags().StringVar(&runColumn, "column", "", "Header of the identifier column (default UserID)")
	runCommand.Flags().StringVarP(&runStore, "store", "s", "", "Record cache: file path, postgres:// or redis:// URL (default mock_users.json)")
	runCommand.Flags().StringVar(&runSeedURL, "seed-url", "", "URL of the seed record fetched when the cache is absent")
	runCommand.Flags().StringVar(&runIcon, "icon", "", "Icon URL attached to generated news entries")
	runCommand.Flags().IntVar(&runTimeout, "timeout", 0, "Seed fetch timeout in seconds")
	runCommand.Flags().StringVar(&runTier, "tier", "", "Model tier: lite (default) or standard")
	runCommand.Flags().StringVar(&runModel, "model", "", "Gemini model for the selected tier")
	runCommand.Flags().StringVar(&runLanguage, "language", "", "Message language: en or pt")
	runCommand.Flags().IntVar(&runMaxChars, "max-chars", 0, "Length hint given to the model")
	runCommand.Flags().StringVar(&runMissing, "missing", "", "Unknown identifier policy: skip, report or fail")
	runCommand.Flags().IntVar(&runCheckpointEvery, "checkpoint-every", 0, "Save the cache after every N generated messages (0 saves once at the end)")
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Resolve users without generating or saving anything")
	runCommand.Flags().StringVar(&runMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	runCommand.Flags().StringVar(&runLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	runCommand.Flags().BoolVar(&runLogJSON, "log-json", false, "Emit logs as JSON")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print resolved users and generated messages")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run history
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL URL for run history (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

// buildRunConfig merges the config file, explicitly set flags, environment
// fallbacks and defaults, then validates the result.
func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (only flags that were explicitly set)
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = runInput
	}
	if flags.Changed("column") {
		cfg.Column = runColumn
	}
	if flags.Changed("store") {
		cfg.Store = runStore
	}
	if flags.Changed("seed-url") {
		cfg.SeedURL = runSeedURL
	}
	if flags.Changed("icon") {
		cfg.Icon = runIcon
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = runTimeout
	}
	if flags.Changed("tier") {
		cfg.Tier = runTier
	}
	if flags.Changed("model") {
		cfg.Model = runModel
	}
	if flags.Changed("language") {
		cfg.Language = runLanguage
	}
	if flags.Changed("max-chars") {
		cfg.MaxChars = runMaxChars
	}
	if flags.Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if flags.Changed("missing") {
		cfg.MissingPolicy = runMissing
	}
	if flags.Changed("checkpoint-every") {
		cfg.CheckpointEvery = runCheckpointEvery
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = runDryRun
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = runMetricsFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = runLogJSON
	}
	if flags.Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Environment fallbacks for secrets and connection strings
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.LogLevel == "" && strings.EqualFold(os.Getenv("DEBUG"), "true") {
		cfg.LogLevel = "debug"
	}

	// Step 4: Apply defaults for unset values and validate
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" && !cfg.DryRun {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	return &cfg, nil
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON}); err != nil {
		return err
	}
	log := logger.Log
	if runConfigPath != "" {
		log.WithField("path", runConfigPath).Debug("Loaded config file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	seedOpts := fetch.DefaultOptions()
	seedOpts.Timeout = seedTimeout(cfg.TimeoutSeconds)
	seeder := fetch.NewHTTPSeeder(cfg.SeedURL, seedOpts)

	missing, err := records.ParseMissingPolicy(cfg.MissingPolicy)
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		InputPath:       cfg.Input,
		Column:          cfg.Column,
		Store:           store,
		Seeder:          seeder,
		Icon:            cfg.Icon,
		MissingPolicy:   missing,
		CheckpointEvery: cfg.CheckpointEvery,
		DryRun:          cfg.DryRun,
		Verbose:         cfg.Verbose,
		Logger:          log,
		Out:             os.Stdout,
		Metrics:         metrics.New(),
	}

	if !cfg.DryRun {
		tier, err := llm.ParseTier(cfg.Tier)
		if err != nil {
			return err
		}
		llmConfig := llm.DefaultConfig()
		if cfg.Model != "" {
			llmConfig = llmConfig.WithModel(tier, cfg.Model)
		}
		client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()

		opts.Generator = marketing.NewGenerator(client, marketing.Options{
			Tier:     tier,
			MaxChars: cfg.MaxChars,
			Language: marketing.Language(cfg.Language),
		})
		log.WithField("model", client.GetModel(tier)).Debug("LLM client ready")
	}

	recorder, err := openRecorder(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warnf("Run history disabled: %v", err)
	}
	if recorder != nil {
		defer recorder.Close()
		opts.Recorder = recorder
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			runID, err := uuid.Parse(event.RunID)
			if err != nil {
				return
			}
			if err := recorder.RecordStep(ctx, runID, event.Step, event.Message); err != nil {
				log.WithField("step", event.Step).Debugf("Failed to record step: %v", err)
			}
		}
	}

	_, runErr := pipeline.Run(ctx, opts)

	if cfg.MetricsFile != "" {
		if err := opts.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warnf("Failed to write metrics file: %v", err)
		}
	}
	return runErr
}
