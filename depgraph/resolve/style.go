package resolve

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

var (
	sassExtensions = []string{".scss", ".sass", ".css"}
	lessExtensions = []string{".less", ".css"}
)

// StyleResolver resolves specifiers written inside stylesheets. It layers
// each dialect's conventions over the generic Resolver.
type StyleResolver struct {
	generic *Resolver
	sass    profile
	less    profile
	css     profile
}

// NewStyleResolver shares generic's caches and context.
func NewStyleResolver(generic *Resolver) *StyleResolver {
	conditions := append(append([]string(nil), sassConditions...), generic.ctx.Conditions...)
	s := &StyleResolver{generic: generic}
	s.sass = profile{
		namespace:  "sass",
		conditions: conditions,
		mainFields: sassMainFields,
		probe:      func(path string) (string, bool) { return s.sassProbe(path, "") },
	}
	s.less = profile{
		namespace:  "less",
		conditions: generic.ctx.Conditions,
		mainFields: styleMainFields,
		probe:      s.lessProbe,
	}
	s.css = profile{
		namespace:  "css",
		conditions: generic.ctx.Conditions,
		mainFields: styleMainFields,
		probe:      generic.scriptProbe,
	}
	return s
}

// Resolve maps a style-level specifier to a file using dialect's rules.
func (s *StyleResolver) Resolve(ctx context.Context, spec, importer string, dialect langsupport.Dialect) (string, bool) {
	switch dialect {
	case langsupport.DialectSass:
		return s.generic.cached(s.sass.namespace, spec, importer, func() (string, bool) {
			return s.resolveSass(ctx, spec, importer)
		})
	case langsupport.DialectLess:
		return s.generic.cached(s.less.namespace, spec, importer, func() (string, bool) {
			return s.resolveRelativeFirst(ctx, spec, importer, s.less)
		})
	case langsupport.DialectCSS:
		return s.generic.cached(s.css.namespace, spec, importer, func() (string, bool) {
			return s.resolveRelativeFirst(ctx, spec, importer, s.css)
		})
	default:
		return "", false
	}
}

// resolveSass: custom hook, pkg: imports, importer-relative, load paths,
// then the generic layers, all through the Sass probe.
func (s *StyleResolver) resolveSass(ctx context.Context, spec, importer string) (string, bool) {
	if path, ok := s.generic.resolveCustom(ctx, spec, importer); ok {
		return path, true
	}

	if rest, ok := strings.CutPrefix(spec, "pkg:"); ok {
		return s.resolveSassPackage(rest, importer)
	}

	importerExt := strings.ToLower(filepath.Ext(importer))
	probe := func(path string) (string, bool) { return s.sassProbe(path, importerExt) }

	if path, ok := fileURL(spec); ok {
		return probe(path)
	}

	spec = strings.TrimPrefix(spec, "~")
	if !isAbsolute(spec) && !strings.HasPrefix(spec, "#") {
		if path, ok := probe(filepath.Join(filepath.Dir(importer), filepath.FromSlash(spec))); ok {
			return path, true
		}
		for _, loadPath := range s.generic.ctx.SassLoadPaths {
			if path, ok := probe(filepath.Join(loadPath, filepath.FromSlash(spec))); ok {
				return path, true
			}
		}
	}

	p := s.sass
	p.probe = probe
	return s.generic.resolveWith(spec, importer, p)
}

// resolveSassPackage handles pkg:#key through the imports map of the
// closest ancestor manifest that declares the key, and pkg:name/path through
// package resolution. "#" keys have no further fallback.
func (s *StyleResolver) resolveSassPackage(rest, importer string) (string, bool) {
	if strings.HasPrefix(rest, "#") {
		for dir := filepath.Dir(importer); ; dir = filepath.Dir(dir) {
			if m := s.generic.manifests.load(dir); m != nil {
				if imports := m.field("imports"); imports.IsObject() {
					if _, ok := matchSubpath(imports, rest); ok {
						return s.generic.resolveImports(m, rest, s.sass)
					}
				}
			}
			if filepath.Dir(dir) == dir {
				return "", false
			}
		}
	}

	if !specifier.IsBare(rest) {
		return "", false
	}
	return s.generic.resolveBare(rest, filepath.Dir(importer), s.sass)
}

// resolveRelativeFirst is the Less and CSS order: custom hook, then the
// specifier as a path relative to the importer (url semantics), then the
// generic layers.
func (s *StyleResolver) resolveRelativeFirst(ctx context.Context, spec, importer string, p profile) (string, bool) {
	if path, ok := s.generic.resolveCustom(ctx, spec, importer); ok {
		return path, true
	}

	spec = strings.TrimPrefix(spec, "~")
	if !specifier.IsRelative(spec) && !isAbsolute(spec) && !specifier.HasScheme(spec) && !strings.HasPrefix(spec, "#") {
		if path, ok := p.probe(filepath.Join(filepath.Dir(importer), filepath.FromSlash(spec))); ok {
			return path, true
		}
	}
	return s.generic.resolveWith(spec, importer, p)
}

// sassProbe applies Sass's candidate rules to path:
//
//	path.ext          (explicit extension: path, then _path)
//	path{.scss,.sass,.css}
//	_path{.scss,.sass,.css}
//	path/index{.scss,.sass,.css}
//	path/_index{.scss,.sass,.css}
//
// The importer's own extension is tried first among the candidates.
func (s *StyleResolver) sassProbe(path, importerExt string) (string, bool) {
	stats := s.generic.stats
	dir, base := filepath.Split(path)

	if ext := strings.ToLower(filepath.Ext(base)); containsString(sassExtensions, ext) {
		for _, candidate := range []string{path, filepath.Join(dir, "_"+base)} {
			if stats.isFile(candidate) {
				return filepath.Clean(candidate), true
			}
		}
		return "", false
	}

	exts := orderedExtensions(sassExtensions, importerExt)
	var candidates []string
	for _, ext := range exts {
		candidates = append(candidates, path+ext)
	}
	for _, ext := range exts {
		candidates = append(candidates, filepath.Join(dir, "_"+base+ext))
	}
	for _, ext := range exts {
		candidates = append(candidates, filepath.Join(path, "index"+ext))
	}
	for _, ext := range exts {
		candidates = append(candidates, filepath.Join(path, "_index"+ext))
	}

	for _, candidate := range candidates {
		if stats.isFile(candidate) {
			return filepath.Clean(candidate), true
		}
	}

	if stats.isDir(path) {
		return s.generic.loadMainFields(path, sassMainFields, func(candidate string) (string, bool) {
			return s.sassProbe(candidate, importerExt)
		})
	}
	return "", false
}

// lessProbe tries path as written, then with .less and .css appended.
func (s *StyleResolver) lessProbe(path string) (string, bool) {
	stats := s.generic.stats
	if stats.isFile(path) {
		return filepath.Clean(path), true
	}
	for _, ext := range lessExtensions {
		if candidate := path + ext; stats.isFile(candidate) {
			return filepath.Clean(candidate), true
		}
	}
	if stats.isDir(path) {
		return s.generic.loadMainFields(path, styleMainFields, s.lessProbe)
	}
	return "", false
}

func orderedExtensions(exts []string, first string) []string {
	if !containsString(exts, first) {
		return exts
	}
	ordered := []string{first}
	for _, ext := range exts {
		if ext != first {
			ordered = append(ordered, ext)
		}
	}
	return ordered
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
