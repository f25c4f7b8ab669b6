// Package discovery locates TypeScript/JavaScript source files under the
// project root and applies the configured exclude globs. Checkers receive
// only paths that survive exclusion, so the glob semantics here are the
// single place exclusion is decided.
package discovery

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotcommander/tscheck/internal/types"
)

// File represents a discovered source file with its metadata
type File struct {
	Path    string // absolute
	RelPath string // relative to the discovery root, forward slashes
	Size    int64
}

// FileDiscovery manages source discovery for one project root.
type FileDiscovery struct {
	rootPath string
	excludes []string
}

// NewFileDiscovery creates a FileDiscovery rooted at rootPath with the given
// exclude glob patterns (doublestar syntax, e.g. "node_modules/**").
func NewFileDiscovery(rootPath string, excludePatterns []string) *FileDiscovery {
	return &FileDiscovery{
		rootPath: rootPath,
		excludes: excludePatterns,
	}
}

// Excluded reports whether the given path matches any exclude pattern.
// Patterns match against the root-relative path; each pattern also matches
// at any depth ("node_modules/**" excludes nested node_modules trees, the
// way npm workspaces lay them out).
func (fd *FileDiscovery) Excluded(path string) bool {
	rel := fd.relPath(path)
	for _, pattern := range fd.excludes {
		if matchesAtAnyDepth(pattern, rel) {
			return true
		}
	}
	return false
}

// excludedDir reports whether a directory should be pruned from the walk.
// A "dir/**" pattern excludes the directory itself, not only its children.
func (fd *FileDiscovery) excludedDir(rel string) bool {
	for _, pattern := range fd.excludes {
		dirPattern := strings.TrimSuffix(pattern, "/**")
		if matchesAtAnyDepth(dirPattern, rel) || matchesAtAnyDepth(pattern, rel) {
			return true
		}
	}
	return false
}

// matchesAtAnyDepth matches pattern against rel both anchored at the root
// and nested under any parent directory.
func matchesAtAnyDepth(pattern, rel string) bool {
	if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
		return true
	}
	if ok, err := doublestar.Match("**/"+pattern, rel); err == nil && ok {
		return true
	}
	return false
}

// relPath normalizes a possibly-absolute path to a root-relative slash path.
func (fd *FileDiscovery) relPath(path string) string {
	rel := path
	if filepath.IsAbs(path) {
		if r, err := filepath.Rel(fd.rootPath, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return filepath.ToSlash(rel)
}

// DiscoverSources expands the given targets (files or directories) into the
// TS/JS source files they contain, in deterministic order: targets in input
// order, directory contents in lexical walk order, duplicates dropped.
// Explicit file targets bypass extension filtering only for exclusion; a
// non-source explicit file is still rejected so callers get a clear error
// instead of a silently empty run.
func (fd *FileDiscovery) DiscoverSources(targets []string) ([]File, error) {
	if len(targets) == 0 {
		targets = []string{fd.rootPath}
	}

	var files []File
	seen := make(map[string]bool)

	add := func(absPath string, info fs.FileInfo) {
		if seen[absPath] {
			return
		}
		seen[absPath] = true
		files = append(files, File{
			Path:    absPath,
			RelPath: fd.relPath(absPath),
			Size:    info.Size(),
		})
	}

	for _, target := range targets {
		absTarget, err := filepath.Abs(target)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", target, err)
		}

		info, err := os.Stat(absTarget)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", target, err)
		}

		if !info.IsDir() {
			if !types.IsSourcePath(absTarget) {
				return nil, fmt.Errorf("not a TypeScript/JavaScript file: %s", target)
			}
			if !fd.Excluded(absTarget) {
				add(absTarget, info)
			}
			continue
		}

		walkErr := filepath.WalkDir(absTarget, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped, not fatal
			}
			rel := fd.relPath(path)
			if d.IsDir() {
				if path != absTarget && fd.excludedDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !types.IsSourcePath(path) || fd.Excluded(path) {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			add(path, fi)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walking %s: %w", target, walkErr)
		}
	}

	return files, nil
}

// CountSources returns how many TS/JS files the targets expand to, for
// report bookkeeping. Errors degrade to zero; the count is informational.
func (fd *FileDiscovery) CountSources(targets []string) int {
	files, err := fd.DiscoverSources(targets)
	if err != nil {
		return 0
	}
	return len(files)
}

// ValidateFilePath performs precondition checks for an explicitly named
// target file: it must exist, resolve through symlinks, and be a regular
// text file. Returns the resolved absolute path. Empty files pass; an empty
// source file is checkable, it just yields no issues.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	if info.Size() == 0 {
		return absPath, nil
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}

	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}
