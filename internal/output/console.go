package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/tscheck/internal/check"
	"github.com/dotcommander/tscheck/internal/types"
)

// ConsoleFormatter renders a report for terminal display, grouped by file
// with severity-colored markers.
type ConsoleFormatter struct {
	w          io.Writer
	quiet      bool
	verbose    bool
	colorize   bool
	suppressed int
}

// NewConsoleFormatter creates a console formatter with the given options.
func NewConsoleFormatter(w io.Writer, opts Options) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:          w,
		quiet:      opts.Quiet,
		verbose:    opts.Verbose,
		colorize:   opts.Color,
		suppressed: opts.Suppressed,
	}
}

// Format writes the report. Quiet mode prints issues only, no summary or
// skipped-tools chrome.
func (f *ConsoleFormatter) Format(report *check.Report) error {
	f.printFileResults(report)
	if f.quiet {
		return nil
	}

	f.printSkippedTools(report)
	if f.verbose {
		f.printTimings(report)
	}
	f.printSummary(report)
	return nil
}

// printTimings lists per-tool wall clock, verbose mode only.
func (f *ConsoleFormatter) printTimings(report *check.Report) {
	if len(report.Timings) == 0 {
		return
	}
	fmt.Fprintln(f.w, "Timing:")
	for _, tool := range report.ToolsRun {
		if d, ok := report.Timings[tool]; ok {
			fmt.Fprintf(f.w, "    %s: %v\n", tool, d.Round(time.Millisecond))
		}
	}
	fmt.Fprintln(f.w)
}

// printFileResults prints each file's issues under a status header.
func (f *ConsoleFormatter) printFileResults(report *check.Report) {
	order, grouped := report.IssuesByFile()
	for _, path := range order {
		issues := grouped[path]

		status := "⚠"
		for _, is := range issues {
			if is.Severity == types.SeverityError {
				status = "✗"
				break
			}
		}
		fmt.Fprintf(f.w, "%s %s\n", f.style(statusSeverity(status)).Render(status), path)

		for _, is := range issues {
			f.printIssue(is)
		}
		fmt.Fprintln(f.w)
	}
}

func statusSeverity(status string) string {
	if status == "✗" {
		return types.SeverityError
	}
	return types.SeverityWarning
}

// printIssue prints one issue line, and its suggestion in verbose mode.
func (f *ConsoleFormatter) printIssue(is types.Issue) {
	marker := "ℹ"
	switch is.Severity {
	case types.SeverityError:
		marker = "✘"
	case types.SeverityWarning:
		marker = "⚠"
	}

	location := ""
	switch {
	case is.Line > 0 && is.Column > 0:
		location = fmt.Sprintf("%d:%d ", is.Line, is.Column)
	case is.Line > 0:
		location = fmt.Sprintf("%d ", is.Line)
	}

	tag := is.Tool
	if is.Code != "" {
		tag = fmt.Sprintf("%s %s", is.Tool, is.Code)
	}

	fmt.Fprintf(f.w, "    %s %s%s %s\n",
		f.style(is.Severity).Render(marker), location, is.Message, f.dim().Render("["+tag+"]"))

	if f.verbose && is.Suggestion != "" {
		fmt.Fprintf(f.w, "      ↳ %s\n", f.dim().Render(is.Suggestion))
	}
}

// printSkippedTools lists checkers that could not run and why.
func (f *ConsoleFormatter) printSkippedTools(report *check.Report) {
	if len(report.ToolsSkipped) == 0 {
		return
	}

	fmt.Fprintln(f.w, "Skipped:")
	for _, tool := range []string{types.ToolPrettier, types.ToolESLint, types.ToolTSC, types.ToolStubCheck} {
		if reason, ok := report.ToolsSkipped[tool]; ok {
			fmt.Fprintf(f.w, "    %s: %s\n", tool, reason)
		}
	}
	fmt.Fprintln(f.w)
}

// printSummary prints the one-line outcome, suppression note, and duration.
func (f *ConsoleFormatter) printSummary(report *check.Report) {
	if f.suppressed > 0 {
		fmt.Fprintf(f.w, "%d baselined %s hidden\n", f.suppressed, pluralIssue(f.suppressed))
	}

	line := report.Summary()
	if report.Duration > 0 {
		line = fmt.Sprintf("%s (%v)", line, report.Duration.Round(time.Millisecond))
	}

	if report.Clean() {
		style := lipgloss.NewStyle()
		if f.colorize {
			style = style.Bold(true).Foreground(lipgloss.Color("10"))
		}
		fmt.Fprintf(f.w, "%s\n", style.Render("✓ "+line))
		return
	}
	fmt.Fprintf(f.w, "%s\n", line)
}

func pluralIssue(n int) string {
	if n == 1 {
		return "issue"
	}
	return "issues"
}

// style returns the lipgloss style for a severity, or a no-op style when
// color is disabled.
func (f *ConsoleFormatter) style(severity string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	switch severity {
	case types.SeverityError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case types.SeverityWarning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func (f *ConsoleFormatter) dim() lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
}
