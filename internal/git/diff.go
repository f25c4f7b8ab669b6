// Package git lists changed TypeScript/JavaScript files so checks can be
// narrowed to what the working tree actually touched.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotcommander/tscheck/internal/types"
)

// IsRepo reports whether rootPath is inside a git repository.
func IsRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

// ChangedFiles returns absolute paths of uncommitted TS/JS changes: files
// modified since HEAD plus untracked source files. Outside a repository it
// returns an empty slice, so --changed degrades to "nothing to narrow to"
// rather than an error.
func ChangedFiles(rootPath string) ([]string, error) {
	if !IsRepo(rootPath) {
		return []string{}, nil
	}

	var lines []string

	// A repo with no commits has no HEAD to diff against; every tracked
	// file counts as changed.
	if !hasHead(rootPath) {
		tracked, err := gitLines(rootPath, "ls-files")
		if err != nil {
			return nil, err
		}
		lines = tracked
	} else {
		diffed, err := gitLines(rootPath, "diff", "--name-only", "HEAD")
		if err != nil {
			return nil, err
		}
		lines = diffed
	}

	untracked, err := gitLines(rootPath, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	lines = append(lines, untracked...)

	return filterSourceFiles(lines, rootPath), nil
}

func hasHead(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

// gitLines runs a git subcommand in rootPath and splits its output lines.
func gitLines(rootPath string, args ...string) ([]string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = rootPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, output)
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// filterSourceFiles keeps existing TS/JS files, deduplicated, as absolute
// paths. Git reports deletions too; those are skipped.
func filterSourceFiles(relPaths []string, rootPath string) []string {
	files := []string{}
	seen := make(map[string]bool)

	for _, rel := range relPaths {
		if !types.IsSourcePath(rel) {
			continue
		}
		abs := filepath.Join(rootPath, rel)
		if seen[abs] {
			continue
		}
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			continue
		}
		seen[abs] = true
		files = append(files, abs)
	}

	return files
}
