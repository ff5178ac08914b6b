package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

type tsconfigData struct {
	baseURL  string
	pathsDir string
	paths    []PathPattern
	hasPaths bool
}

// LoadTSConfig reads a tsconfig/jsconfig file (JSON with comments and
// trailing commas), follows its "extends" chain and returns the effective
// path mapping. Pattern order follows the file.
func LoadTSConfig(fsys FileSystem, path string) (*PathMapping, error) {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTSConfig, path, err)
	}

	data, err := loadTSConfigFile(fsys, absPath, map[string]bool{})
	if err != nil {
		return nil, err
	}

	mapping := &PathMapping{BaseURL: data.baseURL, Patterns: data.paths}
	switch {
	case data.baseURL != "":
		mapping.BaseDir = data.baseURL
	case data.pathsDir != "":
		mapping.BaseDir = data.pathsDir
	default:
		mapping.BaseDir = filepath.Dir(absPath)
	}

	if err := mapping.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mapping, nil
}

func loadTSConfigFile(fsys FileSystem, path string, visiting map[string]bool) (tsconfigData, error) {
	if visiting[path] {
		return tsconfigData{}, fmt.Errorf("%w: extends cycle through %s", ErrInvalidTSConfig, path)
	}
	visiting[path] = true
	defer delete(visiting, path)

	raw, err := fsys.ReadFile(path)
	if err != nil {
		return tsconfigData{}, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidTSConfig, path, err)
	}
	standard, err := hujson.Standardize(raw)
	if err != nil {
		return tsconfigData{}, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidTSConfig, path, err)
	}
	if !gjson.ValidBytes(standard) {
		return tsconfigData{}, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidTSConfig, path)
	}

	doc := gjson.ParseBytes(standard)
	dir := filepath.Dir(path)

	var data tsconfigData
	for _, extends := range extendsList(doc.Get("extends")) {
		basePath, ok := findExtendedConfig(fsys, dir, extends)
		if !ok {
			return tsconfigData{}, fmt.Errorf("%w: %s extends %q which was not found", ErrInvalidTSConfig, path, extends)
		}
		base, err := loadTSConfigFile(fsys, basePath, visiting)
		if err != nil {
			return tsconfigData{}, err
		}
		data = overlay(data, base)
	}

	options := doc.Get("compilerOptions")
	if baseURL := options.Get("baseUrl"); baseURL.Exists() {
		if baseURL.Type != gjson.String {
			return tsconfigData{}, fmt.Errorf("%w: %s: compilerOptions.baseUrl must be a string", ErrInvalidPathMapping, path)
		}
		data.baseURL = filepath.Join(dir, filepath.FromSlash(baseURL.String()))
	}

	if paths := options.Get("paths"); paths.Exists() {
		patterns, err := parsePaths(paths)
		if err != nil {
			return tsconfigData{}, fmt.Errorf("%s: %w", path, err)
		}
		data.paths = patterns
		data.pathsDir = dir
		data.hasPaths = true
	}
	return data, nil
}

func overlay(current, base tsconfigData) tsconfigData {
	if base.baseURL != "" {
		current.baseURL = base.baseURL
	}
	if base.hasPaths {
		current.paths = base.paths
		current.pathsDir = base.pathsDir
		current.hasPaths = true
	}
	return current
}

func extendsList(value gjson.Result) []string {
	switch {
	case value.Type == gjson.String:
		return []string{value.String()}
	case value.IsArray():
		var list []string
		for _, item := range value.Array() {
			if item.Type == gjson.String {
				list = append(list, item.String())
			}
		}
		return list
	default:
		return nil
	}
}

// parsePaths reads compilerOptions.paths in document order.
func parsePaths(paths gjson.Result) ([]PathPattern, error) {
	if !paths.IsObject() {
		return nil, fmt.Errorf("%w: compilerOptions.paths must be an object", ErrInvalidPathMapping)
	}

	var patterns []PathPattern
	var parseErr error
	paths.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			parseErr = fmt.Errorf("%w: paths[%q] must be an array of strings", ErrInvalidPathMapping, key.String())
			return false
		}
		pattern := PathPattern{Key: key.String()}
		for _, target := range value.Array() {
			if target.Type != gjson.String {
				parseErr = fmt.Errorf("%w: paths[%q] must be an array of strings", ErrInvalidPathMapping, key.String())
				return false
			}
			pattern.Targets = append(pattern.Targets, target.String())
		}
		patterns = append(patterns, pattern)
		return true
	})
	return patterns, parseErr
}

// findExtendedConfig locates the target of an "extends" entry: a path
// relative to dir, or a config shipped in a package under node_modules.
func findExtendedConfig(fsys FileSystem, dir, extends string) (string, bool) {
	isFile := func(path string) bool {
		info, err := fsys.Stat(path)
		return err == nil && !info.IsDir()
	}
	try := func(base string) (string, bool) {
		candidates := []string{base}
		if !strings.HasSuffix(base, ".json") {
			candidates = append(candidates, base+".json")
		}
		candidates = append(candidates, filepath.Join(base, "tsconfig.json"))
		for _, candidate := range candidates {
			if isFile(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	native := filepath.FromSlash(extends)
	if filepath.IsAbs(native) {
		return try(native)
	}
	if strings.HasPrefix(extends, "./") || strings.HasPrefix(extends, "../") || extends == "." || extends == ".." {
		return try(filepath.Join(dir, native))
	}

	for current := dir; ; current = filepath.Dir(current) {
		if found, ok := try(filepath.Join(current, "node_modules", native)); ok {
			return found, true
		}
		if filepath.Dir(current) == current {
			return "", false
		}
	}
}
