package check

import (
	"fmt"
	"strings"
	"time"

	"github.com/dotcommander/tscheck/internal/types"
)

// Report is the aggregate outcome of one check invocation. Issues are in
// fixed presentation order (format, lint, type, stub), each checker's
// advisories in that checker's slot. ToolsSkipped distinguishes "no issues"
// from "could not run": a clean Issues slice with a non-empty ToolsSkipped
// map is not a clean bill of health.
type Report struct {
	Issues       []types.Issue            `json:"issues"`
	ToolsRun     []string                 `json:"tools_run"`
	ToolsSkipped map[string]string        `json:"tools_skipped"`
	FilesChecked int                      `json:"files_checked"`
	Duration     time.Duration            `json:"-"`
	Timings      map[string]time.Duration `json:"-"` // per-tool wall clock
}

// ErrorCount returns the number of error-severity issues.
func (r *Report) ErrorCount() int { return r.countSeverity(types.SeverityError) }

// WarningCount returns the number of warning-severity issues.
func (r *Report) WarningCount() int { return r.countSeverity(types.SeverityWarning) }

// InfoCount returns the number of info-severity issues.
func (r *Report) InfoCount() int { return r.countSeverity(types.SeverityInfo) }

func (r *Report) countSeverity(sev string) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

// Clean reports whether no issues at all were found.
func (r *Report) Clean() bool { return len(r.Issues) == 0 }

// Success reports whether no error-severity issues were found; warnings are
// acceptable.
func (r *Report) Success() bool { return r.ErrorCount() == 0 }

// ExitCode maps the report to a process exit code: 0 clean, 1 warnings
// only, 2 errors. failOnWarning promotes any issue to a failing exit.
func (r *Report) ExitCode(failOnWarning bool) int {
	switch {
	case r.ErrorCount() > 0:
		return 2
	case failOnWarning && !r.Clean():
		return 2
	case r.WarningCount() > 0 || r.InfoCount() > 0:
		return 1
	default:
		return 0
	}
}

// Summary returns a one-line human-readable outcome.
func (r *Report) Summary() string {
	if r.Clean() {
		return fmt.Sprintf("All checks passed (%d files)", r.FilesChecked)
	}

	var parts []string
	if n := r.ErrorCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, plural("error", n)))
	}
	if n := r.WarningCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, plural("warning", n)))
	}
	if n := r.InfoCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d info", n))
	}
	return fmt.Sprintf("Found %s in %d files", strings.Join(parts, ", "), r.FilesChecked)
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// IssuesInCategory returns the issues of one category, preserving order.
func (r *Report) IssuesInCategory(category string) []types.Issue {
	var out []types.Issue
	for _, is := range r.Issues {
		if is.Category == category {
			out = append(out, is)
		}
	}
	return out
}

// IssuesByFile groups issues per path, preserving first-seen path order.
func (r *Report) IssuesByFile() ([]string, map[string][]types.Issue) {
	var order []string
	grouped := make(map[string][]types.Issue)
	for _, is := range r.Issues {
		if _, seen := grouped[is.Path]; !seen {
			order = append(order, is.Path)
		}
		grouped[is.Path] = append(grouped[is.Path], is)
	}
	return order, grouped
}
