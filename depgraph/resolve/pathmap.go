package resolve

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathPattern maps one key (optionally containing a single '*') to an
// ordered list of replacement targets.
type PathPattern struct {
	Key     string
	Targets []string
}

// PathMapping is the tsconfig "paths" equivalent. Patterns keep their
// configured order: among wildcard keys the first match wins.
type PathMapping struct {
	// BaseDir is the directory targets are resolved against.
	BaseDir string
	// BaseURL, when set, is also tried as a root for bare specifiers after
	// every pattern has missed.
	BaseURL  string
	Patterns []PathPattern
}

// Validate reports a malformed mapping table.
func (m *PathMapping) Validate() error {
	if m == nil {
		return nil
	}
	for _, pattern := range m.Patterns {
		if pattern.Key == "" {
			return fmt.Errorf("%w: empty pattern key", ErrInvalidPathMapping)
		}
		if strings.Count(pattern.Key, "*") > 1 {
			return fmt.Errorf("%w: pattern %q has more than one '*'", ErrInvalidPathMapping, pattern.Key)
		}
		if len(pattern.Targets) == 0 {
			return fmt.Errorf("%w: pattern %q has no targets", ErrInvalidPathMapping, pattern.Key)
		}
		for _, target := range pattern.Targets {
			if target == "" {
				return fmt.Errorf("%w: pattern %q has an empty target", ErrInvalidPathMapping, pattern.Key)
			}
			if strings.Count(target, "*") > 1 {
				return fmt.Errorf("%w: target %q of %q has more than one '*'", ErrInvalidPathMapping, target, pattern.Key)
			}
		}
	}
	if len(m.Patterns) > 0 && m.BaseDir == "" {
		return fmt.Errorf("%w: patterns require a base directory", ErrInvalidPathMapping)
	}
	return nil
}

// Candidates returns the absolute paths spec maps to, in probe order. Exact
// keys are checked before wildcard keys, and only the first matching
// wildcard key contributes.
func (m *PathMapping) Candidates(spec string) []string {
	if m == nil {
		return nil
	}

	for _, pattern := range m.Patterns {
		if !strings.Contains(pattern.Key, "*") && pattern.Key == spec {
			return m.substitute(pattern.Targets, "")
		}
	}

	for _, pattern := range m.Patterns {
		star := strings.IndexByte(pattern.Key, '*')
		if star < 0 {
			continue
		}
		prefix, suffix := pattern.Key[:star], pattern.Key[star+1:]
		if len(spec) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(spec, prefix) &&
			strings.HasSuffix(spec, suffix) {
			return m.substitute(pattern.Targets, spec[len(prefix):len(spec)-len(suffix)])
		}
	}
	return nil
}

// BaseURLCandidate returns the baseUrl-rooted path for spec, if configured.
func (m *PathMapping) BaseURLCandidate(spec string) (string, bool) {
	if m == nil || m.BaseURL == "" {
		return "", false
	}
	return filepath.Join(m.BaseURL, filepath.FromSlash(spec)), true
}

func (m *PathMapping) substitute(targets []string, capture string) []string {
	candidates := make([]string, 0, len(targets))
	for _, target := range targets {
		replaced := strings.Replace(target, "*", capture, 1)
		replaced = filepath.FromSlash(replaced)
		if !filepath.IsAbs(replaced) {
			replaced = filepath.Join(m.BaseDir, replaced)
		}
		candidates = append(candidates, replaced)
	}
	return candidates
}
