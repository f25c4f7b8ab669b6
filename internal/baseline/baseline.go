// Package baseline records accepted issues so established projects can
// adopt tscheck without first fixing every historical finding. An issue is
// identified by a content fingerprint rather than its line number, so
// unrelated edits that shift lines do not resurrect baselined issues.
package baseline

import (
	"crypto/sha256"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/tscheck/internal/types"
)

// DefaultFile is the baseline filename at the project root.
const DefaultFile = ".tscheck-baseline.yaml"

// Baseline is a snapshot of known issues to suppress from reports.
type Baseline struct {
	Version      string   `yaml:"version"`
	CreatedAt    string   `yaml:"created_at"`
	Fingerprints []string `yaml:"fingerprints"`

	index map[string]bool
}

// Create builds a baseline from the given issues. Advisory issues are never
// baselined: a missing tool should stay visible on every run.
func Create(issues []types.Issue) *Baseline {
	var fingerprints []string
	index := make(map[string]bool)

	for _, is := range issues {
		if is.Advisory() {
			continue
		}
		fp := fingerprint(is)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	sort.Strings(fingerprints)

	return &Baseline{
		Version:      "1.0",
		Fingerprints: fingerprints,
		index:        index,
	}
}

// Load reads a baseline file. A missing file is an error; callers treat
// that as "no baseline" rather than a failure.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading baseline: %w", err)
	}

	var b Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline: %w", err)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}
	return &b, nil
}

// Save writes the baseline as YAML, which stays hand-reviewable in diffs.
func (b *Baseline) Save(path string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling baseline: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	return nil
}

// IsKnown reports whether the issue is in the baseline.
func (b *Baseline) IsKnown(issue types.Issue) bool {
	if b == nil || b.index == nil {
		return false
	}
	return b.index[fingerprint(issue)]
}

// Filter splits issues into the ones to report and the count suppressed by
// the baseline. Advisory issues always pass through.
func (b *Baseline) Filter(issues []types.Issue) (kept []types.Issue, suppressed int) {
	for _, is := range issues {
		if !is.Advisory() && b.IsKnown(is) {
			suppressed++
			continue
		}
		kept = append(kept, is)
	}
	return kept, suppressed
}

// fingerprint hashes path + tool + code + normalized message. Line numbers
// are deliberately excluded: they shift with unrelated edits.
func fingerprint(issue types.Issue) string {
	data := fmt.Sprintf("%s|%s|%s|%s", issue.Path, issue.Tool, issue.Code, normalizeMessage(issue.Message))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

var (
	doubleQuoted = regexp.MustCompile(`"[^"]+"`)
	singleQuoted = regexp.MustCompile(`(^|\s)'([^']+)'(\s|$)`)
	numbers      = regexp.MustCompile(`\b\d+\b`)
)

// normalizeMessage replaces volatile message fragments (quoted identifiers,
// counts) with placeholders so near-identical diagnostics share a
// fingerprint.
func normalizeMessage(msg string) string {
	msg = doubleQuoted.ReplaceAllString(msg, `"*"`)
	msg = singleQuoted.ReplaceAllString(msg, `$1'*'$3`)
	msg = numbers.ReplaceAllString(msg, `N`)
	return strings.Join(strings.Fields(msg), " ")
}
