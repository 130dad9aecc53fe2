package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/user-news-etl/internal/db"
)

var runsCommand = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "Show run history recorded in PostgreSQL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsCmd,
}

var (
	runsDatabaseURL string
	runsLimit       int
	runsJSON        bool
)

func init() {
	runsCommand.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	runsCommand.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of recent runs to list")
	runsCommand.Flags().BoolVar(&runsJSON, "json", false, "Print runs as JSON")

	rootCmd.AddCommand(runsCommand)
}

func runRunsCmd(cmd *cobra.Command, args []string) error {
	dbURL := runsDatabaseURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if len(args) == 1 {
		runID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}
		run, err := database.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found", runID)
		}
		steps, err := database.ListRunSteps(ctx, runID)
		if err != nil {
			return err
		}
		if err := printRuns(os.Stdout, []db.Run{*run}, runsJSON); err != nil {
			return err
		}
		return printSteps(os.Stdout, steps, runsJSON)
	}

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	return printRuns(os.Stdout, runs, runsJSON)
}

func printRuns(w io.Writer, runs []db.Run, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if runs == nil {
			runs = []db.Run{}
		}
		return enc.Encode(runs)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tREQUESTED\tRESOLVED\tGENERATED\tSTORE")
	for _, run := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Status,
			run.Requested, run.Resolved, run.Generated, run.Store)
	}
	return tw.Flush()
}

func printSteps(w io.Writer, steps []db.RunStep, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if steps == nil {
			steps = []db.RunStep{}
		}
		return enc.Encode(steps)
	}

	_, _ = fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tSTEP\tMESSAGE")
	for _, step := range steps {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", step.CreatedAt.Format("15:04:05.000"), step.Step, step.Message)
	}
	return tw.Flush()
}
