package check

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks request-validation failures, the only error class
// that fails a Check call outright. Every checker-local failure (missing
// binary, timeout, crash, unparseable output) degrades to an advisory issue
// instead.
var ErrInvalidRequest = errors.New("invalid check request")

// Checker-local failure sentinels. These never propagate out of Check; the
// orchestrator converts them into tool-unavailable advisories.
var (
	ErrToolNotFound = errors.New("tool not found")
	ErrToolTimeout  = errors.New("tool timed out")
	ErrToolFailed   = errors.New("tool failed")
	ErrParseOutput  = errors.New("unparseable tool output")
)

// ToolError wraps a checker-local failure with the tool name and a stderr
// excerpt for the advisory message.
type ToolError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ToolError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// newToolError builds a ToolError, trimming the stderr excerpt to a single
// readable line.
func newToolError(tool string, err error, output string) *ToolError {
	const maxExcerpt = 200
	if len(output) > maxExcerpt {
		output = output[:maxExcerpt]
	}
	return &ToolError{Tool: tool, Err: err, Output: output}
}
