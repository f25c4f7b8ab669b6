package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dotcommander/tscheck/internal/types"
)

// tscLine matches one diagnostic from `tsc --noEmit --pretty false`:
// file(line,col): error TS1234: message
var tscLine = regexp.MustCompile(`^(.+)\((\d+),(\d+)\):\s+(error|warning)\s+(TS\d+):\s+(.+)$`)

// TSC parses the type checker's diagnostic stream. Diagnostics go to stdout
// with --pretty false; stderr is the fallback when stdout is empty. The TS
// rule code is preserved verbatim. Non-matching lines (summaries, banner
// text) are skipped. tsc is project-wide, so diagnostics may name files
// outside the requested target; they are kept, and only the caller's
// filtering narrows scope.
func TSC(stdout, stderr string) ([]types.Issue, error) {
	output := stdout
	if strings.TrimSpace(output) == "" {
		output = stderr
	}

	var issues []types.Issue
	for _, line := range strings.Split(output, "\n") {
		m := tscLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		lineNum, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		severity := types.SeverityWarning
		if m[4] == "error" {
			severity = types.SeverityError
		}
		issues = append(issues, types.Issue{
			Path:     m[1],
			Line:     lineNum,
			Column:   col,
			Severity: severity,
			Category: types.CategoryType,
			Tool:     types.ToolTSC,
			Code:     m[5],
			Message:  m[6],
		})
	}

	return issues, nil
}
