package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/tscheck/internal/check"
	"github.com/dotcommander/tscheck/internal/types"
)

// MarkdownFormatter renders a report as Markdown, suitable for CI job
// summaries and pull request comments.
type MarkdownFormatter struct {
	w          io.Writer
	verbose    bool
	suppressed int
}

// NewMarkdownFormatter creates a Markdown formatter.
func NewMarkdownFormatter(w io.Writer, opts Options) *MarkdownFormatter {
	return &MarkdownFormatter{w: w, verbose: opts.Verbose, suppressed: opts.Suppressed}
}

// Format writes the report as Markdown.
func (f *MarkdownFormatter) Format(report *check.Report) error {
	var b strings.Builder

	b.WriteString("# tscheck Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Files Checked | %d |\n", report.FilesChecked))
	b.WriteString(fmt.Sprintf("| Errors | %d |\n", report.ErrorCount()))
	b.WriteString(fmt.Sprintf("| Warnings | %d |\n", report.WarningCount()))
	b.WriteString(fmt.Sprintf("| Info | %d |\n", report.InfoCount()))
	if f.suppressed > 0 {
		b.WriteString(fmt.Sprintf("| Baselined | %d |\n", f.suppressed))
	}
	b.WriteString(fmt.Sprintf("| Tools Run | %s |\n", strings.Join(report.ToolsRun, ", ")))
	b.WriteString("\n")

	if len(report.ToolsSkipped) > 0 {
		b.WriteString("## Skipped Tools\n\n")
		for _, tool := range []string{types.ToolPrettier, types.ToolESLint, types.ToolTSC, types.ToolStubCheck} {
			if reason, ok := report.ToolsSkipped[tool]; ok {
				b.WriteString(fmt.Sprintf("- `%s`: %s\n", tool, reason))
			}
		}
		b.WriteString("\n")
	}

	f.writeIssues(&b, report)

	b.WriteString("## Conclusion\n\n")
	if report.Clean() {
		b.WriteString("✓ All checks passed\n")
	} else {
		b.WriteString(fmt.Sprintf("✗ %s\n", report.Summary()))
	}

	_, err := io.WriteString(f.w, b.String())
	return err
}

// writeIssues prints per-file sections with one bullet per issue.
func (f *MarkdownFormatter) writeIssues(b *strings.Builder, report *check.Report) {
	order, grouped := report.IssuesByFile()
	if len(order) == 0 {
		return
	}

	b.WriteString("## Issues\n\n")
	for _, path := range order {
		b.WriteString(fmt.Sprintf("### %s\n\n", path))
		for _, is := range grouped[path] {
			b.WriteString(fmt.Sprintf("- **%s** %s", is.Severity, is.Message))
			if is.Line > 0 {
				b.WriteString(fmt.Sprintf(" (line %d)", is.Line))
			}
			tag := is.Tool
			if is.Code != "" {
				tag = fmt.Sprintf("%s %s", is.Tool, is.Code)
			}
			b.WriteString(fmt.Sprintf(" `[%s]`\n", tag))
			if f.verbose && is.Suggestion != "" {
				b.WriteString(fmt.Sprintf("  - %s\n", is.Suggestion))
			}
		}
		b.WriteString("\n")
	}
}
