// Package check orchestrates the external checkers (prettier, eslint, tsc)
// and the built-in stub scanner against a target, normalizing all outputs
// into one issue model. Checker-local failures degrade to advisory issues;
// only request validation fails a call outright.
package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/tscheck/internal/config"
	"github.com/dotcommander/tscheck/internal/discovery"
	"github.com/dotcommander/tscheck/internal/parse"
	"github.com/dotcommander/tscheck/internal/stubs"
	"github.com/dotcommander/tscheck/internal/toolchain"
	"github.com/dotcommander/tscheck/internal/types"
)

// parser converts one checker's raw (stdout, stderr) pair into issues.
type parser func(stdout, stderr string) ([]types.Issue, error)

func parserFor(check string) parser {
	switch check {
	case "format":
		return parse.Prettier
	case "lint":
		return parse.ESLint
	case "types":
		return parse.TSC
	default:
		return nil
	}
}

// Orchestrator runs the requested checks for one project root. Tool
// availability is resolved fresh on every Check call, never cached: the
// project environment can change between calls.
type Orchestrator struct {
	cfg     *config.Config
	root    string
	locator *toolchain.Locator
	run     runnerFunc
}

// New creates an Orchestrator for the project at root.
func New(cfg *config.Config, root string) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		root:    root,
		locator: toolchain.NewLocator(root),
		run:     runSubprocess,
	}
}

// WithLocator overrides tool resolution, for tests.
func (o *Orchestrator) WithLocator(l *toolchain.Locator) *Orchestrator {
	o.locator = l
	return o
}

// WithRunner overrides subprocess execution, for tests that replay recorded
// tool transcripts.
func (o *Orchestrator) WithRunner(fn runnerFunc) *Orchestrator {
	o.run = fn
	return o
}

// slotResult is one checker's contribution. Results land in per-checker
// slots so the aggregated sequence is deterministic regardless of which
// subprocess finishes first.
type slotResult struct {
	issues  []types.Issue
	ran     bool
	skipped string // reason when the checker did not produce usable results
	elapsed time.Duration
}

// Check runs the requested checks and aggregates their issues in fixed
// presentation order: format, lint, type, stub. The returned error is
// non-nil only for invalid requests or caller cancellation.
func (o *Orchestrator) Check(ctx context.Context, req *Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	effective := o.effectiveChecks(req)

	contentMode := req.Content != ""
	targets := req.Paths
	var tmpPath string
	if contentMode {
		var err error
		tmpPath, err = writeContentTemp(req.Content, req.contentName())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		defer os.Remove(tmpPath)
		targets = []string{tmpPath}
	}

	fd := discovery.NewFileDiscovery(o.root, o.cfg.ExcludePatterns)
	filesChecked := 1
	var sourceFiles []discovery.File
	if !contentMode {
		var err error
		sourceFiles, err = fd.DiscoverSources(targets)
		if err != nil {
			// Bad targets are rejected before any subprocess runs.
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		filesChecked = len(sourceFiles)
	}

	slots := make([]slotResult, len(effective))
	timeout := o.timeout()

	runOne := func(ctx context.Context, i int, name string) error {
		began := time.Now()
		slot, err := o.runCheck(ctx, name, req, targets, sourceFiles, contentMode, timeout)
		if err != nil {
			return err
		}
		slot.elapsed = time.Since(began)
		slots[i] = slot
		return nil
	}

	// Fix-capable checkers run serially first: they rewrite files, and no
	// check-mode subprocess may read a file mid-rewrite within one request.
	remaining := make([]int, 0, len(effective))
	if req.Fix {
		for i, name := range effective {
			if name == "format" || name == "lint" {
				if err := runOne(ctx, i, name); err != nil {
					return nil, err
				}
			} else {
				remaining = append(remaining, i)
			}
		}
	} else {
		for i := range effective {
			remaining = append(remaining, i)
		}
	}

	if o.cfg.Concurrency && len(remaining) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for _, i := range remaining {
			g.Go(func() error {
				return runOne(gctx, i, effective[i])
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, i := range remaining {
			if err := runOne(ctx, i, effective[i]); err != nil {
				return nil, err
			}
		}
	}

	report := &Report{
		ToolsSkipped: make(map[string]string),
		Timings:      make(map[string]time.Duration),
		FilesChecked: filesChecked,
	}
	for i, name := range effective {
		tool := types.ToolForCheck(name)
		report.Issues = append(report.Issues, slots[i].issues...)
		if slots[i].ran {
			report.ToolsRun = append(report.ToolsRun, tool)
			report.Timings[tool] = slots[i].elapsed
		} else {
			report.ToolsSkipped[tool] = slots[i].skipped
		}
	}

	if contentMode {
		remapContentPaths(report.Issues, tmpPath, req.contentName())
	}

	report.Duration = time.Since(start)
	return report, nil
}

// CheckChanged is the trigger-interface entry point: it checks the enabled
// subset relevant to one changed file. Non-source and excluded paths return
// a nil report, meaning nothing applied.
func (o *Orchestrator) CheckChanged(ctx context.Context, ev FileEvent) (*Report, error) {
	if !types.IsSourcePath(ev.Path) {
		return nil, nil
	}
	fd := discovery.NewFileDiscovery(o.root, o.cfg.ExcludePatterns)
	if fd.Excluded(ev.Path) {
		return nil, nil
	}
	return o.Check(ctx, &Request{Paths: []string{ev.Path}})
}

// effectiveChecks intersects the requested subset with the config-enabled
// set, preserving the fixed presentation order.
func (o *Orchestrator) effectiveChecks(req *Request) []string {
	var out []string
	for _, name := range KnownChecks {
		if req.wantsCheck(name) && o.cfg.Enabled(name) {
			out = append(out, name)
		}
	}
	return out
}

func (o *Orchestrator) timeout() time.Duration {
	secs := o.cfg.TimeoutSeconds
	if secs <= 0 {
		secs = 120
	}
	return time.Duration(secs) * time.Second
}

// runCheck dispatches one check. External checkers run as subprocesses; the
// stub scan runs in-process over the discovered files.
func (o *Orchestrator) runCheck(ctx context.Context, name string, req *Request, targets []string, sourceFiles []discovery.File, contentMode bool, timeout time.Duration) (slotResult, error) {
	if name == "stubs" {
		if contentMode {
			return slotResult{issues: stubs.ScanContent(req.contentName(), req.Content), ran: true}, nil
		}
		var issues []types.Issue
		for _, f := range sourceFiles {
			issues = append(issues, stubs.ScanFile(f.Path)...)
		}
		return slotResult{issues: issues, ran: true}, nil
	}

	tool := types.ToolForCheck(name)

	// The type checker needs whole-project context and cannot scope to a
	// temp file; reporting this keeps "no issues" distinguishable from
	// "could not check".
	if contentMode && name == "types" {
		return slotResult{
			issues: []types.Issue{advisory(tool, types.CodeToolNotFound,
				"tsc requires project context and cannot check inline content")},
			skipped: "requires project context",
		}, nil
	}

	return o.runExternal(ctx, name, tool, targets, req.Fix, timeout)
}

// runExternal resolves, executes, and parses one external checker. Every
// failure mode local to the checker comes back as an advisory slot; the
// only returned error is caller cancellation.
func (o *Orchestrator) runExternal(ctx context.Context, name, tool string, targets []string, fix bool, timeout time.Duration) (slotResult, error) {
	inv, avail := o.locator.Resolve(tool)
	if !avail.Found {
		return slotResult{
			issues: []types.Issue{advisory(tool, types.CodeToolNotFound,
				fmt.Sprintf("%s not found. %s", tool, avail.InstallHint))},
			skipped: "not installed",
		}, nil
	}

	args := inv.CheckArgs
	if fix && inv.FixArgs != nil {
		args = inv.FixArgs
	}
	if inv.AppendsPaths {
		args = append(append([]string(nil), args...), targets...)
	}

	res := o.run(ctx, inv.Path, args, o.root, timeout)

	if ctx.Err() != nil {
		// Caller cancellation: the subprocess was killed by CommandContext;
		// the whole request is abandoned.
		return slotResult{}, ctx.Err()
	}

	if res.timedOut {
		return slotResult{
			issues:  []types.Issue{advisory(tool, types.CodeTimeout, fmt.Sprintf("%s check timed out", tool))},
			skipped: "timed out",
		}, nil
	}

	if toolMissing(res.stderr) {
		return slotResult{
			issues: []types.Issue{advisory(tool, types.CodeToolNotFound,
				fmt.Sprintf("%s not found. %s", tool, toolchain.InstallHint(tool)))},
			skipped: "not installed",
		}, nil
	}

	if fix && inv.FixArgs != nil {
		// Fix mode reports nothing: fixes are applied silently and the
		// checker's category yields no issues in this invocation.
		return slotResult{ran: true}, nil
	}

	issues, perr := parserFor(name)(res.stdout, res.stderr)
	if perr != nil {
		toolErr := newToolError(tool, ErrParseOutput, res.stderr)
		return slotResult{
			issues: []types.Issue{advisory(tool, types.CodeParseError,
				fmt.Sprintf("%s output could not be parsed: %v", tool, toolErr))},
			skipped: "unparseable output",
		}, nil
	}

	// A failing exit with output but nothing parseable means the tool blew
	// up (config error, crash) rather than reporting findings.
	if len(issues) == 0 && res.exitErr != nil {
		toolErr := newToolError(tool, ErrToolFailed, res.stderr)
		return slotResult{
			issues: []types.Issue{advisory(tool, types.CodeToolFailed,
				fmt.Sprintf("%s failed: %v", tool, toolErr))},
			skipped: "failed",
		}, nil
	}

	return slotResult{issues: issues, ran: true}, nil
}

// advisory builds a tool-unavailable issue describing checker infrastructure
// trouble rather than a code defect.
func advisory(tool, code, message string) types.Issue {
	return types.Issue{
		Severity: types.SeverityError,
		Category: types.CategoryTool,
		Tool:     tool,
		Code:     code,
		Message:  message,
	}
}

// writeContentTemp materializes inline content for checkers that only read
// files, keeping the virtual filename's extension so tools pick the right
// syntax.
func writeContentTemp(content, virtualName string) (string, error) {
	ext := filepath.Ext(virtualName)
	if ext == "" {
		ext = ".ts"
	}
	f, err := os.CreateTemp("", "tscheck-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// remapContentPaths rewrites temp-file paths back to the virtual filename so
// content-check issues never leak temp locations.
func remapContentPaths(issues []types.Issue, tmpPath, virtualName string) {
	base := filepath.Base(tmpPath)
	for i := range issues {
		if issues[i].Path == tmpPath || filepath.Base(issues[i].Path) == base {
			issues[i].Path = virtualName
		}
	}
}
