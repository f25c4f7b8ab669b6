package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/check"
	"github.com/dotcommander/tscheck/internal/types"
	"github.com/dotcommander/tscheck/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check files as they change",
	Long: `Watch the project tree and run the enabled checks on each changed
source file. Save bursts are debounced; results print as they arrive.

The watch.report_level config setting controls which severities are shown
(error, warning, or info).`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatch(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	cfg := loadConfig(cmd, root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := check.New(cfg, root)
	minRank := severityRank(cfg.Watch.ReportLevel)

	handler := func(path string) {
		report, err := orch.CheckChanged(ctx, check.FileEvent{Path: path, Op: check.OpModify})
		if err != nil || report == nil {
			return
		}
		printWatchResult(path, report, minRank, cfg.Quiet)
	}

	w, err := watch.New(root, cfg, handler)
	if err != nil {
		return err
	}
	defer w.Stop()

	if !cfg.Quiet {
		fmt.Printf("Watching %s (ctrl-c to stop)\n", root)
	}

	go w.Run()
	<-ctx.Done()
	return nil
}

// printWatchResult prints one file's findings at or above the report level.
func printWatchResult(path string, report *check.Report, minRank int, quiet bool) {
	var shown []types.Issue
	for _, is := range report.Issues {
		if severityRank(is.Severity) >= minRank {
			shown = append(shown, is)
		}
	}

	if len(shown) == 0 {
		if !quiet {
			fmt.Printf("✓ %s\n", path)
		}
		return
	}

	fmt.Printf("✗ %s\n", path)
	for _, is := range shown {
		fmt.Printf("    %s\n", is.ShortString())
	}
}

// severityRank orders severities so a report level acts as a floor.
func severityRank(severity string) int {
	switch severity {
	case types.SeverityError:
		return 2
	case types.SeverityWarning:
		return 1
	default:
		return 0
	}
}
