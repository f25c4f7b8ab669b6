// Package stubs detects deliberately incomplete code by scanning source
// lines for a fixed set of lexical markers. The scan is line-by-line and
// grammar-unaware on purpose: a misparse must never take the check pipeline
// down with it. The cost is a known false-positive class — a marker inside
// a string literal still matches — which is a documented limitation.
package stubs

import (
	"os"
	"regexp"
	"strings"

	"github.com/dotcommander/tscheck/internal/types"
)

type marker struct {
	re          *regexp.Regexp
	description string
}

// Marker set. @ts-expect-error is end-anchored: a trailing explanation
// exempts the line, the one built-in legitimacy exemption. @ts-ignore is
// reported whether or not an explanation follows.
var markers = []marker{
	{regexp.MustCompile(`(?i)\bTODO\b`), "TODO comment"},
	{regexp.MustCompile(`(?i)\bFIXME\b`), "FIXME comment"},
	{regexp.MustCompile(`(?i)//\s*@ts-ignore\b`), "@ts-ignore suppression"},
	{regexp.MustCompile(`(?i)//\s*@ts-expect-error\s*$`), "@ts-expect-error without explanation"},
	{regexp.MustCompile(`(?i)throw\s+new\s+Error\(\s*["']not\s+implemented`), "Not implemented error"},
	{regexp.MustCompile(`(?i)\bas\s+any\b`), "Unchecked 'as any' cast"},
}

const messageExcerptLen = 60

// ScanContent scans source content attributed to path and returns one issue
// per marker match, in line order.
func ScanContent(path, content string) []types.Issue {
	var issues []types.Issue

	for lineNum, line := range strings.Split(content, "\n") {
		for _, m := range markers {
			if !m.re.MatchString(line) {
				continue
			}
			excerpt := strings.TrimSpace(line)
			if len(excerpt) > messageExcerptLen {
				excerpt = excerpt[:messageExcerptLen]
			}
			issues = append(issues, types.Issue{
				Path:       path,
				Line:       lineNum + 1,
				Column:     1,
				Severity:   types.SeverityWarning,
				Category:   types.CategoryStub,
				Tool:       types.ToolStubCheck,
				Code:       "STUB",
				Message:    m.description + ": " + excerpt,
				Suggestion: "Remove placeholder or implement functionality",
			})
		}
	}

	return issues
}

// ScanFile scans one file. Unreadable files are skipped, not errors: the
// scanner degrades to silence rather than failing a whole check run.
func ScanFile(path string) []types.Issue {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return ScanContent(path, string(data))
}
