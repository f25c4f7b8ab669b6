// Package cmd wires the tscheck CLI: flag parsing, config resolution, and
// dispatch into the check orchestrator.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/baseline"
	"github.com/dotcommander/tscheck/internal/check"
	"github.com/dotcommander/tscheck/internal/config"
	"github.com/dotcommander/tscheck/internal/git"
	"github.com/dotcommander/tscheck/internal/output"
	"github.com/dotcommander/tscheck/internal/project"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// exitFunc is indirected so tests can intercept exit codes.
var exitFunc = os.Exit

// stdin is indirected so tests can feed --stdin content.
var stdin io.Reader = os.Stdin

var (
	rootPath       string
	quiet          bool
	verbose        bool
	outputFormat   string
	outputFile     string
	failOnWarning  bool
	timeoutSecs    int
	noParallel     bool
	useBaseline    bool
	updateBaseline bool
	baselineFile   string
	changedOnly    bool
)

var (
	checksFlag []string
	fixFlag    bool
	stdinFlag  bool
	stdinName  string
)

var rootCmd = &cobra.Command{
	Use:   "tscheck [paths...]",
	Short: "Code quality checks for TypeScript and JavaScript projects",
	Long: `tscheck runs prettier, eslint, tsc, and a built-in stub scanner against
your project and reports every finding in one normalized format.

Paths default to the current directory. Missing tools are reported as
advisories, never as crashes: install hints tell you what to add.

USAGE MODES:

  Check everything:
    tscheck                       # all checks on the whole project
    tscheck src/                  # all checks on one directory
    tscheck src/app.ts            # all checks on one file

  Select checks:
    tscheck --checks format,lint  # subset of checks
    tscheck lint src/             # single-check subcommand

  Fix mode:
    tscheck --fix                 # apply prettier and eslint fixes
    tscheck fix src/              # same, as a subcommand

  Inline content:
    cat snippet.ts | tscheck --stdin --stdin-name snippet.ts

  Git integration:
    tscheck --changed             # only files modified since HEAD

  Baseline:
    tscheck --update-baseline     # accept current findings
    tscheck --baseline            # hide accepted findings

EXIT CODES:
  0  no issues
  1  warnings or info only
  2  errors (or any issue with --fail-on-warning)`,
	Args:    cobra.ArbitraryArgs,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		req := &check.Request{Checks: checksFlag, Fix: fixFlag}
		if err := runChecks(cmd, args, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootPath, "root", "r", "", "Project root directory (auto-detected if not specified)")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown)")
	pf.StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	pf.BoolVar(&failOnWarning, "fail-on-warning", false, "Exit 2 on any issue, not only errors")
	pf.IntVar(&timeoutSecs, "timeout", 0, "Per-tool timeout in seconds (default 120)")
	pf.BoolVar(&noParallel, "no-parallel", false, "Run checkers sequentially")
	pf.BoolVar(&useBaseline, "baseline", false, "Hide issues recorded in the baseline file")
	pf.BoolVar(&updateBaseline, "update-baseline", false, "Record current issues as the new baseline")
	pf.StringVar(&baselineFile, "baseline-file", "", "Baseline file path (default "+baseline.DefaultFile+" at the root)")
	pf.BoolVar(&changedOnly, "changed", false, "Check only files changed since HEAD (plus untracked)")

	rootCmd.Flags().StringSliceVar(&checksFlag, "checks", nil, "Comma-separated subset of checks (format,lint,types,stubs)")
	rootCmd.Flags().BoolVar(&fixFlag, "fix", false, "Apply prettier and eslint fixes before checking")
	rootCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Check content from standard input instead of files")
	rootCmd.Flags().StringVar(&stdinName, "stdin-name", "", "Virtual filename for --stdin content (default stdin.ts)")
}

// resolveRoot picks the project root: explicit --root wins, otherwise climb
// from the first target (or the working directory).
func resolveRoot(args []string) (string, error) {
	if rootPath != "" {
		return filepath.Abs(rootPath)
	}
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	return project.FindRoot(start)
}

// loadConfig resolves file/env configuration and applies explicitly set
// flags on top, completing the documented precedence chain.
func loadConfig(cmd *cobra.Command, root string) *config.Config {
	cfg := config.Load(root)

	if f := cmd.Flag("quiet"); f != nil && f.Changed {
		cfg.Quiet = quiet
	}
	if f := cmd.Flag("verbose"); f != nil && f.Changed {
		cfg.Verbose = verbose
	}
	if f := cmd.Flag("format"); f != nil && f.Changed {
		cfg.Format = outputFormat
	}
	if f := cmd.Flag("output"); f != nil && f.Changed {
		cfg.Output = outputFile
	}
	if f := cmd.Flag("fail-on-warning"); f != nil && f.Changed {
		cfg.FailOnWarning = failOnWarning
	}
	if f := cmd.Flag("timeout"); f != nil && f.Changed {
		cfg.TimeoutSeconds = timeoutSecs
	}
	if f := cmd.Flag("no-parallel"); f != nil && f.Changed {
		cfg.Concurrency = !noParallel
	}
	return cfg
}

// runChecks is the shared pipeline behind the root command and every
// single-check subcommand: resolve root and config, run the orchestrator,
// apply the baseline, render, exit.
func runChecks(cmd *cobra.Command, args []string, req *check.Request) error {
	root, err := resolveRoot(args)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	cfg := loadConfig(cmd, root)

	if stdinFlag {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		req.Content = string(content)
		req.ContentPath = stdinName
	} else {
		req.Paths = args
		if len(req.Paths) == 0 {
			req.Paths = []string{root}
		}
		if changedOnly {
			changed, err := git.ChangedFiles(root)
			if err != nil {
				return fmt.Errorf("listing changed files: %w", err)
			}
			if len(changed) == 0 {
				if !cfg.Quiet {
					fmt.Println("No changed source files")
				}
				exitFunc(0)
				return nil
			}
			req.Paths = changed
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := check.New(cfg, root).Check(ctx, req)
	if err != nil {
		return err
	}

	suppressed, err := applyBaseline(root, report, cfg)
	if err != nil {
		return err
	}
	if updateBaseline {
		return nil
	}

	opts := output.Options{
		Quiet:      cfg.Quiet,
		Verbose:    cfg.Verbose,
		Color:      true,
		Suppressed: suppressed,
	}
	if err := output.WriteTo(cfg.Output, report, cfg.Format, opts); err != nil {
		return err
	}

	exitFunc(report.ExitCode(cfg.FailOnWarning))
	return nil
}

// applyBaseline handles --update-baseline and --baseline. With
// --update-baseline the current findings are saved and the run exits clean;
// with --baseline known findings are filtered out of the report.
func applyBaseline(root string, report *check.Report, cfg *config.Config) (int, error) {
	path := baselineFile
	if path == "" {
		path = filepath.Join(root, baseline.DefaultFile)
	}

	if updateBaseline {
		b := baseline.Create(report.Issues)
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		if err := b.Save(path); err != nil {
			return 0, fmt.Errorf("writing baseline: %w", err)
		}
		if !cfg.Quiet {
			fmt.Printf("Baseline written to %s (%d issues)\n", path, len(b.Fingerprints))
		}
		exitFunc(0)
		return 0, nil
	}

	if !useBaseline {
		return 0, nil
	}

	b, err := baseline.Load(path)
	if err != nil {
		// A missing baseline means nothing to suppress.
		return 0, nil
	}
	kept, suppressed := b.Filter(report.Issues)
	report.Issues = kept
	return suppressed, nil
}
