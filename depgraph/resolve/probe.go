package resolve

import (
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// extensionAliases lists the sources a compiled-output extension may have
// been written from, in probe order.
var extensionAliases = map[string][]string{
	".js":  {".ts", ".tsx", ".mjs", ".cjs"},
	".jsx": {".tsx"},
	".mjs": {".mts"},
	".cjs": {".cts"},
}

// profile bundles the conventions of one importer family: which export
// conditions and manifest fields apply, and how a candidate path becomes a file.
type profile struct {
	namespace  string
	conditions []string
	mainFields []string
	probe      func(path string) (string, bool)
}

func (p profile) matchesCondition(name string) bool {
	if name == "default" {
		return true
	}
	for _, condition := range p.conditions {
		if condition == name {
			return true
		}
	}
	return false
}

// loadAsFile tries path as written, then with each candidate extension, then
// the extension aliases of a compiled-output extension.
func (r *Resolver) loadAsFile(path string) (string, bool) {
	if r.stats.isFile(path) {
		return filepath.Clean(path), true
	}
	for _, ext := range r.ctx.ExtensionOrder {
		if candidate := path + ext; r.stats.isFile(candidate) {
			return filepath.Clean(candidate), true
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if aliases, ok := extensionAliases[ext]; ok {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		for _, alias := range aliases {
			if candidate := base + alias; r.stats.isFile(candidate) {
				return filepath.Clean(candidate), true
			}
		}
	}
	return "", false
}

// loadAsDirectory tries the manifest entry fields of dir, then index files.
func (r *Resolver) loadAsDirectory(dir string, mainFields []string) (string, bool) {
	if !r.stats.isDir(dir) {
		return "", false
	}
	if path, ok := r.loadMainFields(dir, mainFields, r.loadAsFileOrIndex); ok {
		return path, true
	}
	return r.loadIndex(dir)
}

func (r *Resolver) loadAsFileOrIndex(path string) (string, bool) {
	if resolved, ok := r.loadAsFile(path); ok {
		return resolved, true
	}
	return r.loadIndex(path)
}

func (r *Resolver) loadIndex(dir string) (string, bool) {
	if !r.stats.isDir(dir) {
		return "", false
	}
	for _, ext := range r.ctx.ExtensionOrder {
		if candidate := filepath.Join(dir, "index"+ext); r.stats.isFile(candidate) {
			return filepath.Clean(candidate), true
		}
	}
	return "", false
}

// loadMainFields resolves the first usable entry field of dir's manifest.
func (r *Resolver) loadMainFields(dir string, mainFields []string, load func(string) (string, bool)) (string, bool) {
	m := r.manifests.load(dir)
	if m == nil {
		return "", false
	}
	for _, field := range mainFields {
		value := m.field(field)
		if value.Type != gjson.String || value.String() == "" {
			continue
		}
		candidate := filepath.Join(dir, filepath.FromSlash(value.String()))
		if !withinDir(dir, candidate) || candidate == filepath.Clean(dir) {
			continue
		}
		if path, ok := load(candidate); ok {
			return path, true
		}
	}
	return "", false
}

// scriptProbe is the generic candidate probe: file, then directory.
func (r *Resolver) scriptProbe(path string) (string, bool) {
	if resolved, ok := r.loadAsFile(path); ok {
		return resolved, true
	}
	return r.loadAsDirectory(path, r.ctx.MainFields)
}

// assertedStyleProbe is scriptProbe restricted to style extensions: the file
// as written, then each style extension, then the directory's style entry
// field or a style index file.
func (r *Resolver) assertedStyleProbe(path string) (string, bool) {
	if r.stats.isFile(path) {
		return filepath.Clean(path), true
	}
	for _, ext := range r.ctx.StyleExtensions {
		if candidate := path + ext; r.stats.isFile(candidate) {
			return filepath.Clean(candidate), true
		}
	}
	if !r.stats.isDir(path) {
		return "", false
	}
	if resolved, ok := r.loadMainFields(path, styleMainFields, r.assertedStyleProbe); ok {
		return resolved, true
	}
	for _, ext := range r.ctx.StyleExtensions {
		if candidate := filepath.Join(path, "index"+ext); r.stats.isFile(candidate) {
			return filepath.Clean(candidate), true
		}
	}
	return "", false
}
