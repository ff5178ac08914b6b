package resolve

import (
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

type targetStatus int

const (
	// targetUndefined means no condition or entry applied; callers keep looking.
	targetUndefined targetStatus = iota
	// targetExcluded is an explicit null: the subpath is deliberately unavailable.
	targetExcluded
	targetFound
)

type subpathMatch struct {
	target  gjson.Result
	capture string
	pattern bool
	folder  bool
}

// resolveExports resolves subpath ("." or "./x") through a package's
// "exports" field.
func (r *Resolver) resolveExports(pkgDir string, exports gjson.Result, subpath string, p profile) (string, bool) {
	if !exportsHasSubpathKeys(exports) {
		if subpath != "." {
			return "", false
		}
		path, status := r.resolveTarget(pkgDir, exports, subpathMatch{}, false, p)
		return path, status == targetFound
	}

	match, ok := matchSubpath(exports, subpath)
	if !ok {
		return "", false
	}
	path, status := r.resolveTarget(pkgDir, match.target, match, false, p)
	return path, status == targetFound
}

// resolveImports resolves a "#key" specifier through a manifest's "imports" field.
func (r *Resolver) resolveImports(m *manifest, spec string, p profile) (string, bool) {
	imports := m.field("imports")
	if !imports.IsObject() || spec == "#" || strings.HasPrefix(spec, "#/") {
		return "", false
	}
	match, ok := matchSubpath(imports, spec)
	if !ok {
		return "", false
	}
	path, status := r.resolveTarget(m.dir, match.target, match, true, p)
	return path, status == targetFound
}

// exportsHasSubpathKeys reports whether exports is a subpath map rather than
// the sugar form (a string, an array, or a bare conditions object).
func exportsHasSubpathKeys(exports gjson.Result) bool {
	if !exports.IsObject() {
		return false
	}
	subpaths := false
	exports.ForEach(func(key, _ gjson.Result) bool {
		subpaths = strings.HasPrefix(key.String(), ".")
		return false
	})
	return subpaths
}

// matchSubpath finds the entry for key in an exports or imports map. Exact
// keys win, then the most specific "*" pattern, then legacy folder keys
// ending in "/".
func matchSubpath(mapping gjson.Result, key string) (subpathMatch, bool) {
	var (
		exact      subpathMatch
		foundExact bool
		best       subpathMatch
		bestKey    string
		foundBest  bool
		folder     subpathMatch
		folderKey  string
	)

	mapping.ForEach(func(k, value gjson.Result) bool {
		candidate := k.String()
		if candidate == key && !strings.Contains(candidate, "*") {
			exact = subpathMatch{target: value}
			foundExact = true
			return false
		}

		if star := strings.IndexByte(candidate, '*'); star >= 0 && strings.Count(candidate, "*") == 1 {
			prefix, suffix := candidate[:star], candidate[star+1:]
			if strings.HasPrefix(key, prefix) && key != prefix &&
				len(key) >= len(candidate) && strings.HasSuffix(key, suffix) {
				if !foundBest || patternKeyLess(bestKey, candidate) {
					best = subpathMatch{
						target:  value,
						capture: key[len(prefix) : len(key)-len(suffix)],
						pattern: true,
					}
					bestKey = candidate
					foundBest = true
				}
			}
			return true
		}

		if strings.HasSuffix(candidate, "/") && strings.HasPrefix(key, candidate) && len(candidate) > len(folderKey) {
			folder = subpathMatch{target: value, capture: key[len(candidate):], folder: true}
			folderKey = candidate
		}
		return true
	})

	switch {
	case foundExact:
		return exact, true
	case foundBest:
		return best, true
	case folderKey != "":
		return folder, true
	default:
		return subpathMatch{}, false
	}
}

// patternKeyLess reports whether candidate is more specific than current:
// a longer prefix before the '*' wins, then a longer key.
func patternKeyLess(current, candidate string) bool {
	currentBase := strings.IndexByte(current, '*')
	candidateBase := strings.IndexByte(candidate, '*')
	if candidateBase != currentBase {
		return candidateBase > currentBase
	}
	return len(candidate) > len(current)
}

// resolveTarget walks a target value: strings are substituted and probed,
// arrays are fallbacks, objects are condition maps in key order.
func (r *Resolver) resolveTarget(pkgDir string, target gjson.Result, match subpathMatch, isImports bool, p profile) (string, targetStatus) {
	switch {
	case target.Type == gjson.String:
		return r.resolveStringTarget(pkgDir, target.String(), match, isImports, p)

	case target.IsArray():
		for _, item := range target.Array() {
			path, status := r.resolveTarget(pkgDir, item, match, isImports, p)
			if status != targetUndefined {
				return path, status
			}
		}
		return "", targetUndefined

	case target.IsObject():
		path, status := "", targetUndefined
		target.ForEach(func(key, value gjson.Result) bool {
			if !p.matchesCondition(key.String()) {
				return true
			}
			path, status = r.resolveTarget(pkgDir, value, match, isImports, p)
			return status == targetUndefined
		})
		return path, status

	case target.Type == gjson.Null:
		return "", targetExcluded

	default:
		return "", targetUndefined
	}
}

func (r *Resolver) resolveStringTarget(pkgDir, target string, match subpathMatch, isImports bool, p profile) (string, targetStatus) {
	switch {
	case match.pattern:
		target = strings.ReplaceAll(target, "*", match.capture)
	case match.folder:
		if !strings.HasSuffix(target, "/") {
			return "", targetUndefined
		}
		target += match.capture
	}

	if !strings.HasPrefix(target, "./") {
		// Only "imports" may point into another package.
		if isImports && !strings.HasPrefix(target, "../") && !strings.HasPrefix(target, "/") {
			if path, ok := r.resolveBare(target, pkgDir, p); ok {
				return path, targetFound
			}
		}
		return "", targetUndefined
	}

	resolved := filepath.Join(pkgDir, filepath.FromSlash(target))
	if !withinDir(pkgDir, resolved) {
		return "", targetUndefined
	}
	if path, ok := p.probe(resolved); ok {
		return path, targetFound
	}
	return "", targetUndefined
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
