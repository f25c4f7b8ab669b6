// Package parse converts raw checker output into normalized issues. Each
// parser is a pure function over the subprocess's stdout and stderr; the two
// channels stay separate because tools disagree about where results go, and
// collapsing them is a common source of silently dropped reports.
package parse

import (
	"strings"

	"github.com/dotcommander/tscheck/internal/types"
)

const prettierSummaryPrefix = "[warn] Code style"

// Prettier parses `prettier --check` output. Prettier lists each file that
// would be reformatted as a "[warn] path" line; v3 routes these to stderr
// while earlier versions used stdout, so both channels are scanned. The
// trailing "[warn] Code style issues found..." summary line is skipped.
// One issue per listed file, file-granularity only: check mode does not
// report in-file positions.
func Prettier(stdout, stderr string) ([]types.Issue, error) {
	var issues []types.Issue

	for _, channel := range []string{stdout, stderr} {
		for _, line := range strings.Split(channel, "\n") {
			if !strings.HasPrefix(line, "[warn] ") || strings.HasPrefix(line, prettierSummaryPrefix) {
				continue
			}
			path := strings.TrimSpace(line[len("[warn] "):])
			if path == "" {
				continue
			}
			issues = append(issues, types.Issue{
				Path:       path,
				Severity:   types.SeverityWarning,
				Category:   types.CategoryFormat,
				Tool:       types.ToolPrettier,
				Code:       "FORMAT",
				Message:    "File is not formatted",
				Suggestion: "Run tscheck fix to auto-format",
				Fixable:    true,
			})
		}
	}

	return issues, nil
}
