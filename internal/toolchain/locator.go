// Package toolchain resolves how to invoke each external checker binary.
// Resolution is a pure filesystem/environment probe: the locator never
// executes anything, and a missing binary is a normal outcome, not an error.
package toolchain

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Checker tool names understood by the locator.
const (
	Prettier = "prettier"
	ESLint   = "eslint"
	TSC      = "tsc"
)

// Invocation describes how to run a checker: the resolved binary plus the
// base arguments for check mode and (when the tool can rewrite files) fix
// mode. AppendsPaths is false for tsc, which always runs project-wide.
type Invocation struct {
	Tool         string
	Path         string
	CheckArgs    []string
	FixArgs      []string // nil when the tool has no fix mode
	AppendsPaths bool
}

// Availability is the per-tool resolution outcome. InstallHint is only set
// when Found is false.
type Availability struct {
	Tool        string
	Found       bool
	Path        string
	InstallHint string
}

// toolSpec holds the static per-tool invocation shape.
type toolSpec struct {
	checkArgs    []string
	fixArgs      []string
	appendsPaths bool
	installHint  string
}

var toolSpecs = map[string]toolSpec{
	Prettier: {
		checkArgs:    []string{"--check"},
		fixArgs:      []string{"--write"},
		appendsPaths: true,
		installHint:  "Install with: npm install --save-dev prettier",
	},
	ESLint: {
		checkArgs:    []string{"--format=json"},
		fixArgs:      []string{"--format=json", "--fix"},
		appendsPaths: true,
		installHint:  "Install with: npm install --save-dev eslint",
	},
	TSC: {
		checkArgs:    []string{"--noEmit", "--pretty", "false"},
		appendsPaths: false,
		installHint:  "Install with: npm install --save-dev typescript",
	},
}

const nodeHint = "Install Node.js: https://nodejs.org/"

// InstallHint returns the installation instruction for a known tool, for
// callers that discover mid-run (via stderr signatures) that a resolved
// binary is not actually usable.
func InstallHint(tool string) string {
	if spec, ok := toolSpecs[tool]; ok {
		return spec.installHint
	}
	return ""
}

// Locator resolves checker binaries for one project root. Project-local
// installs (node_modules/.bin) take precedence over anything on PATH.
// Callers resolve fresh per invocation; the locator caches nothing, since
// an npm install can change the answer between calls.
type Locator struct {
	root     string
	lookPath func(string) (string, error)
}

// NewLocator creates a Locator for the given project root.
func NewLocator(root string) *Locator {
	return &Locator{
		root:     root,
		lookPath: exec.LookPath,
	}
}

// WithLookPath overrides PATH resolution, for tests.
func (l *Locator) WithLookPath(fn func(string) (string, error)) *Locator {
	l.lookPath = fn
	return l
}

// Resolve returns the invocation for tool, or an unavailable result with a
// human-readable install hint. Unknown tool names resolve as unavailable.
func (l *Locator) Resolve(tool string) (Invocation, Availability) {
	spec, ok := toolSpecs[tool]
	if !ok {
		return Invocation{}, Availability{Tool: tool, InstallHint: "unknown tool"}
	}

	binPath := l.localBinary(tool)
	if binPath == "" {
		if p, err := l.lookPath(tool); err == nil {
			binPath = p
		}
	}

	if binPath == "" {
		hint := spec.installHint
		// A missing node runtime dominates the per-tool hint: npm install
		// cannot help until node itself exists.
		if _, err := l.lookPath("node"); err != nil {
			hint = nodeHint
		}
		return Invocation{}, Availability{Tool: tool, InstallHint: hint}
	}

	inv := Invocation{
		Tool:         tool,
		Path:         binPath,
		CheckArgs:    spec.checkArgs,
		FixArgs:      spec.fixArgs,
		AppendsPaths: spec.appendsPaths,
	}
	return inv, Availability{Tool: tool, Found: true, Path: binPath}
}

// ResolveAll resolves every known checker tool, for doctor-style reports.
func (l *Locator) ResolveAll() []Availability {
	var out []Availability
	for _, tool := range []string{Prettier, ESLint, TSC} {
		_, avail := l.Resolve(tool)
		out = append(out, avail)
	}
	return out
}

// localBinary returns the project-local binary path if it exists.
func (l *Locator) localBinary(tool string) string {
	candidates := []string{filepath.Join(l.root, "node_modules", ".bin", tool)}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, filepath.Join(l.root, "node_modules", ".bin", tool+".cmd"))
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c
		}
	}
	return ""
}
