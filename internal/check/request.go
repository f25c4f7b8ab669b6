package check

import (
	"fmt"

	"github.com/dotcommander/tscheck/internal/types"
)

// KnownChecks is the closed set of requestable check names, in the fixed
// presentation order used for aggregation.
var KnownChecks = []string{"format", "lint", "types", "stubs"}

// Request describes one check invocation. Exactly one of Paths or Content
// must be set. An empty Checks slice means "all enabled checks". Requests
// are constructed per call and never reused.
type Request struct {
	Paths       []string
	Content     string
	ContentPath string // virtual filename for content checks, default stdin.ts
	Checks      []string
	Fix         bool
}

// Validate rejects malformed requests before any subprocess runs. This is
// the only hard-failure class of the check pipeline.
func (r *Request) Validate() error {
	hasPaths := len(r.Paths) > 0
	hasContent := r.Content != ""

	switch {
	case hasPaths && hasContent:
		return fmt.Errorf("%w: paths and content are mutually exclusive", ErrInvalidRequest)
	case !hasPaths && !hasContent:
		return fmt.Errorf("%w: either paths or content is required", ErrInvalidRequest)
	}

	if r.Fix && hasContent {
		return fmt.Errorf("%w: fix mode requires file paths, not inline content", ErrInvalidRequest)
	}

	for _, c := range r.Checks {
		if types.CategoryForCheck(c) == "" {
			return fmt.Errorf("%w: unknown check %q", ErrInvalidRequest, c)
		}
	}

	return nil
}

// contentName returns the virtual filename attributed to inline content.
func (r *Request) contentName() string {
	if r.ContentPath != "" {
		return r.ContentPath
	}
	return types.ContentPath
}

// wantsCheck reports whether the request asks for the named check, with an
// empty Checks slice meaning all.
func (r *Request) wantsCheck(name string) bool {
	if len(r.Checks) == 0 {
		return true
	}
	for _, c := range r.Checks {
		if c == name {
			return true
		}
	}
	return false
}

// File-change operations for the trigger interface.
const (
	OpCreate = "create"
	OpModify = "modify"
)

// FileEvent is an edit-completion notification from an external file-watch
// collaborator: one changed file and what happened to it. Debouncing and
// event-source wiring are the collaborator's responsibility.
type FileEvent struct {
	Path string
	Op   string
}
