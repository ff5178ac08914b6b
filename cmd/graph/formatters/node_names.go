package formatters

import (
	"path/filepath"
	"strings"
)

// BuildNodeNames returns distinct display names for file paths: the base
// name, widened one parent directory at a time while names collide.
func BuildNodeNames(paths []string) map[string]string {
	names := make(map[string]string, len(paths))
	pending := append([]string(nil), paths...)
	for depth := 1; len(pending) > 0; depth++ {
		counts := make(map[string]int, len(pending))
		for _, path := range pending {
			counts[pathSuffix(path, depth)]++
		}

		var collided []string
		for _, path := range pending {
			name := pathSuffix(path, depth)
			if counts[name] == 1 || depth >= len(pathSegments(path)) {
				names[path] = name
				continue
			}
			collided = append(collided, path)
		}
		pending = collided
	}
	return names
}

func pathSuffix(path string, depth int) string {
	parts := pathSegments(path)
	if depth > len(parts) {
		depth = len(parts)
	}
	return strings.Join(parts[len(parts)-depth:], "/")
}

func pathSegments(path string) []string {
	normalized := filepath.ToSlash(filepath.Clean(path))
	return strings.Split(strings.TrimPrefix(normalized, "/"), "/")
}
