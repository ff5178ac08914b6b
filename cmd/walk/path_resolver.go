package walk

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathResolver resolves user paths relative to the project root.
type PathResolver struct {
	baseDir      string
	allowOutside bool
}

func NewPathResolver(baseDir string, allowOutside bool) (PathResolver, error) {
	if baseDir == "" {
		baseDir = "."
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return PathResolver{}, fmt.Errorf("failed to resolve base path: %w", err)
	}

	return PathResolver{
		baseDir:      filepath.Clean(absBaseDir),
		allowOutside: allowOutside,
	}, nil
}

// BaseDir is the absolute project root.
func (r PathResolver) BaseDir() string {
	return r.baseDir
}

func (r PathResolver) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	absPath := filepath.Clean(path)
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(r.baseDir, path)
	}
	if !r.allowOutside {
		within, err := isWithinBase(r.baseDir, absPath)
		if err != nil {
			return "", err
		}
		if !within {
			return "", fmt.Errorf("path must be within root: %q", path)
		}
	}
	return absPath, nil
}

// Display returns path relative to the root when it lies inside it.
func (r PathResolver) Display(path string) string {
	if within, err := isWithinBase(r.baseDir, path); err != nil || !within {
		return path
	}
	rel, err := filepath.Rel(r.baseDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func isWithinBase(baseDir, targetPath string) (bool, error) {
	rel, err := filepath.Rel(filepath.Clean(baseDir), filepath.Clean(targetPath))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate path %q: %w", targetPath, err)
	}
	if rel == "." {
		return true, nil
	}
	if rel == ".." {
		return false, nil
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return !filepath.IsAbs(rel), nil
}
