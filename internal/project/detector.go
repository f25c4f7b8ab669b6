package project

import (
	"os"
	"path/filepath"
)

// Info contains information about the detected project.
// Named 'Info' instead of 'ProjectInfo' to avoid stuttering (project.Info vs project.ProjectInfo).
type Info struct {
	Root           string
	HasPackageJSON bool
	HasTSConfig    bool
	HasGit         bool
	HasNodeModules bool
}

// FindRoot searches for the project root starting from the given path and
// climbing up the directory tree. A directory qualifies as a root when it
// holds package.json, tsconfig.json, or a .git directory. Falls back to the
// start path when nothing qualifies, so checks on loose files still work.
func FindRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	// A file argument anchors the search at its directory
	if fi, err := os.Stat(absPath); err == nil && !fi.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parent
	}

	return absPath, nil
}

// isProjectRoot determines if a directory is a project root
func isProjectRoot(path string) bool {
	if _, err := os.Stat(filepath.Join(path, "package.json")); err == nil {
		return true
	}

	if _, err := os.Stat(filepath.Join(path, "tsconfig.json")); err == nil {
		return true
	}

	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		return true
	}

	return false
}

// Detect collects project markers at the given root.
// Named 'Detect' instead of 'DetectProjectInfo' to avoid stuttering.
func Detect(rootPath string) (*Info, error) {
	info := &Info{Root: rootPath}

	if _, err := os.Stat(filepath.Join(rootPath, "package.json")); err == nil {
		info.HasPackageJSON = true
	}

	if _, err := os.Stat(filepath.Join(rootPath, "tsconfig.json")); err == nil {
		info.HasTSConfig = true
	}

	if _, err := os.Stat(filepath.Join(rootPath, ".git")); err == nil {
		info.HasGit = true
	}

	if _, err := os.Stat(filepath.Join(rootPath, "node_modules")); err == nil {
		info.HasNodeModules = true
	}

	return info, nil
}

// PackageJSONPath returns the path of the package.json governing startPath,
// or an empty string when no enclosing directory has one. Mirrors the root
// climb in FindRoot but only accepts the package.json marker.
func PackageJSONPath(startPath string) string {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return ""
	}

	if fi, err := os.Stat(absPath); err == nil && !fi.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	currentDir := absPath
	for {
		candidate := filepath.Join(currentDir, "package.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return ""
		}
		currentDir = parent
	}
}
