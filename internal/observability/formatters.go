// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/user-news-etl/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// RunSummary is the data shown at the end of a run
type RunSummary struct {
	RunID     string
	Store     string
	Seeded    bool
	Requested int
	Resolved  int
	Missing   []types.Identifier
	Generated int
	DryRun    bool
	Duration  time.Duration
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// PrintResolvedUsers outputs which identifiers matched a cached record.
func (p *Printer) PrintResolvedUsers(resolved []*types.User, missing []types.Identifier) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Resolved: %d   Missing: %d\n", len(resolved), len(missing)))
	if len(resolved) > 0 {
		sb.WriteString("\n")
		count := min(len(resolved), maxItemsToShow)
		for i := 0; i < count; i++ {
			user := resolved[i]
			sb.WriteString(fmt.Sprintf("  • #%s  %s (%d news)\n", user.ID, user.Name, len(user.News)))
		}
		if len(resolved) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resolved)-maxItemsToShow))
		}
	}

	if len(missing) > 0 {
		ids := make([]string, len(missing))
		for i, id := range missing {
			ids[i] = id.String()
		}
		sb.WriteString(fmt.Sprintf("\nNot in cache: %s\n", strings.Join(ids, ", ")))
	}

	p.printBox("RESOLVED USERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMessage outputs one generated message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMessage(user *types.User, message string) {
	if user == nil {
		return
	}
	fmt.Fprintf(p.out, "  ✉ %s: %s\n", user.Name, message)
}

// PrintRunSummary outputs the counters of a finished run.
func (p *Printer) PrintRunSummary(summary *RunSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Store:      %s\n", summary.Store))
	if summary.Seeded {
		sb.WriteString("Cache:      seeded from remote\n")
	} else {
		sb.WriteString("Cache:      reused\n")
	}
	sb.WriteString(fmt.Sprintf("Requested:  %d\n", summary.Requested))
	sb.WriteString(fmt.Sprintf("Resolved:   %d\n", summary.Resolved))
	sb.WriteString(fmt.Sprintf("Missing:    %d\n", len(summary.Missing)))
	sb.WriteString(fmt.Sprintf("Generated:  %d\n", summary.Generated))
	if summary.DryRun {
		sb.WriteString("Mode:       dry run (nothing saved)\n")
	}
	sb.WriteString(fmt.Sprintf("Duration:   %s", summary.Duration.Round(time.Millisecond)))

	p.printBox("RUN SUMMARY", sb.String())
}
