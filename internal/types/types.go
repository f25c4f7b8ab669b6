// Package types provides shared types used across the tscheck codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Issue represents one normalized defect reported by a checker. Issues are
// immutable value records: a parser (or the stub scanner) creates them from
// raw tool output and nothing mutates them afterward.
type Issue struct {
	Path       string `json:"path"`
	Line       int    `json:"line"`   // 1-based; 0 means not reported
	Column     int    `json:"column"` // 1-based; 0 means not reported
	EndLine    int    `json:"end_line,omitempty"`
	EndColumn  int    `json:"end_column,omitempty"`
	Severity   string `json:"severity"` // error, warning, info
	Category   string `json:"category"` // format, lint, type, stub, tool-unavailable
	Tool       string `json:"tool"`     // prettier, eslint, tsc, stub-check
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Fixable    bool   `json:"fixable"`
}

// Severity level constants.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Issue category constants. Every issue has exactly one category, and the
// category identifies the checker that produced it; tool-unavailable marks
// advisory issues about checker infrastructure rather than code defects.
const (
	CategoryFormat = "format"
	CategoryLint   = "lint"
	CategoryType   = "type"
	CategoryStub   = "stub"
	CategoryTool   = "tool-unavailable"
)

// Checker tool name constants.
const (
	ToolPrettier  = "prettier"
	ToolESLint    = "eslint"
	ToolTSC       = "tsc"
	ToolStubCheck = "stub-check"
)

// Advisory issue codes.
const (
	CodeToolNotFound = "TOOL-NOT-FOUND"
	CodeTimeout      = "TIMEOUT"
	CodeToolFailed   = "TOOL-FAILED"
	CodeParseError   = "PARSE-ERROR"
)

// ContentPath is the default virtual path attributed to inline-content checks.
const ContentPath = "stdin.ts"

// tsExtensions are TypeScript source extensions; jsExtensions plain JavaScript.
var tsExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

var jsExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
}

// IsTypeScriptPath reports whether path has a TypeScript extension.
func IsTypeScriptPath(path string) bool {
	return tsExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsSourcePath reports whether path has any recognized TS/JS extension.
func IsSourcePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return tsExtensions[ext] || jsExtensions[ext]
}

// SourceExtensions returns the recognized TS/JS extensions in stable order.
func SourceExtensions() []string {
	return []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}
}

// Location formats the issue position as path:line:column, omitting the
// parts the checker did not report.
func (i Issue) Location() string {
	switch {
	case i.Line <= 0:
		return i.Path
	case i.Column <= 0:
		return fmt.Sprintf("%s:%d", i.Path, i.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", i.Path, i.Line, i.Column)
	}
}

// ShortString formats the issue as a one-liner suitable for logs and hook
// context injection.
func (i Issue) ShortString() string {
	if i.Code != "" {
		return fmt.Sprintf("%s: [%s] %s", i.Location(), i.Code, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Location(), i.Message)
}

// Advisory reports whether the issue describes checker infrastructure
// trouble (missing binary, timeout, unparseable output) rather than a
// code-quality defect.
func (i Issue) Advisory() bool {
	return i.Category == CategoryTool
}

// CategoryForCheck maps a check name (format, lint, types, stubs) to the
// issue category its checker produces.
func CategoryForCheck(check string) string {
	switch check {
	case "format":
		return CategoryFormat
	case "lint":
		return CategoryLint
	case "types":
		return CategoryType
	case "stubs":
		return CategoryStub
	default:
		return ""
	}
}

// ToolForCheck maps a check name to the external tool (or built-in scanner)
// that serves it.
func ToolForCheck(check string) string {
	switch check {
	case "format":
		return ToolPrettier
	case "lint":
		return ToolESLint
	case "types":
		return ToolTSC
	case "stubs":
		return ToolStubCheck
	default:
		return ""
	}
}
