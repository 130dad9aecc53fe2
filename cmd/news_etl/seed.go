package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/user-news-etl/internal/config"
	"github.com/jonathan/user-news-etl/internal/fetch"
	"github.com/jonathan/user-news-etl/internal/logger"
	"github.com/jonathan/user-news-etl/internal/records"
)

var seedCommand = &cobra.Command{
	Use:   "seed",
	Short: "Create the record cache from the remote mock API if it does not exist",
	Long: `Fetches the seed record and stores it as a one-element cache. An existing
cache is left untouched, so running this twice is harmless.`,
	RunE: runSeedCmd,
}

var (
	seedStore   string
	seedURL     string
	seedTimeoutSeconds int
)

// storeGrace is the time left after the fetch deadline for connecting to the
// store and writing the seed
const storeGrace = 5 * time.Second

// seedTimeout converts a --timeout value to the fetch timeout; zero or less
// means fetch.DefaultTimeout
func seedTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return fetch.DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}

func init() {
	seedCommand.Flags().StringVarP(&seedStore, "store", "s", records.DefaultCachePath, "Record cache: file path, postgres:// or redis:// URL")
	seedCommand.Flags().StringVar(&seedURL, "seed-url", fetch.DefaultSeedURL, "URL of the seed record")
	seedCommand.Flags().IntVar(&seedTimeoutSeconds, "timeout", int(fetch.DefaultTimeout.Seconds()), "Fetch timeout in seconds")

	rootCmd.AddCommand(seedCommand)
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{Store: seedStore, SeedURL: seedURL, TimeoutSeconds: seedTimeoutSeconds}
	if err := cfg.Validate(); err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	fetchTimeout := seedTimeout(seedTimeoutSeconds)
	ctx, cancel := context.WithTimeout(parent, fetchTimeout+storeGrace)
	defer cancel()

	store, closeStore, err := openStore(ctx, &cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := fetch.DefaultOptions()
	opts.Timeout = fetchTimeout

	seeded, err := records.EnsurePopulated(ctx, store, fetch.NewHTTPSeeder(cfg.SeedURL, opts))
	if err != nil {
		return err
	}

	logger.Log.WithField("store", store.Name()).WithField("seeded", seeded).Debug("Seed finished")
	if seeded {
		_, _ = fmt.Fprintf(os.Stdout, "Seeded %s from %s\n", store.Name(), cfg.SeedURL)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "%s already exists, nothing to do\n", store.Name())
	}
	return nil
}
