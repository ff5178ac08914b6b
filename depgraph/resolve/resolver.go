package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

// Resolver maps script specifiers to files:
//
//  1. custom hook
//  2. path mapping (exact keys, then the first matching wildcard key)
//  3. relative or rooted paths probed on disk
//  4. bare specifiers: baseUrl, "#" imports, then node_modules packages
//
// Builtin modules never reach the filesystem.
type Resolver struct {
	ctx       Context
	stats     *statCache
	manifests *manifestCache
	script    profile
	asserted  profile
}

// New validates rc and returns a resolver for one walk.
func New(rc Context) (*Resolver, error) {
	rc = rc.withDefaults()
	if rc.Cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		rc.Cwd = cwd
		if rc.Root == "" {
			rc.Root = cwd
		}
	}
	if abs, err := filepath.Abs(rc.Cwd); err == nil {
		rc.Cwd = abs
	}
	if abs, err := filepath.Abs(rc.Root); err == nil {
		rc.Root = abs
	}
	if err := rc.PathMapping.Validate(); err != nil {
		return nil, err
	}

	r := &Resolver{ctx: rc}
	r.stats = newStatCache(rc.FS)
	r.manifests = newManifestCache(rc.FS, r.stats, rc.Logger)
	r.script = profile{
		namespace:  "script",
		conditions: rc.Conditions,
		mainFields: rc.MainFields,
		probe:      r.scriptProbe,
	}
	r.asserted = profile{
		namespace:  "asserted-style",
		conditions: rc.Conditions,
		mainFields: styleMainFields,
		probe:      r.assertedStyleProbe,
	}
	return r, nil
}

// Context returns the effective resolution context, defaults applied.
func (r *Resolver) Context() Context {
	return r.ctx
}

// Resolve maps spec, imported from importer, to an absolute file path.
func (r *Resolver) Resolve(ctx context.Context, spec, importer string) (string, bool) {
	if specifier.IsBuiltin(spec) {
		return "", false
	}
	return r.cached(r.script.namespace, spec, importer, func() (string, bool) {
		if path, ok := r.resolveCustom(ctx, spec, importer); ok {
			return path, true
		}
		return r.resolveWith(spec, importer, r.script)
	})
}

// ResolveAssertedStyle resolves a script import carrying a CSS type
// attribute. Extensionless candidates only try style extensions, so the
// result is never a script sibling of the intended stylesheet.
func (r *Resolver) ResolveAssertedStyle(ctx context.Context, spec, importer string) (string, bool) {
	if specifier.IsBuiltin(spec) {
		return "", false
	}
	return r.cached(r.asserted.namespace, spec, importer, func() (string, bool) {
		if path, ok := r.resolveCustom(ctx, spec, importer); ok {
			return path, true
		}
		return r.resolveWith(spec, importer, r.asserted)
	})
}

// resolveWith runs every built-in layer after the custom hook.
func (r *Resolver) resolveWith(spec, importer string, p profile) (string, bool) {
	if path, ok := fileURL(spec); ok {
		return p.probe(path)
	}

	if !specifier.IsRelative(spec) && !isAbsolute(spec) {
		if path, ok := r.resolveMapped(spec, p); ok {
			return path, true
		}
	}

	if specifier.IsRelative(spec) || isAbsolute(spec) {
		return r.resolveDirect(spec, importer, p)
	}

	if specifier.IsBare(spec) {
		// "#" keys belong to the manifest imports table, never to baseUrl.
		if !strings.HasPrefix(spec, "#") {
			if candidate, ok := r.ctx.PathMapping.BaseURLCandidate(spec); ok {
				if path, ok := p.probe(candidate); ok {
					return path, true
				}
			}
		}
		return r.resolveBare(spec, filepath.Dir(importer), p)
	}
	return "", false
}

func (r *Resolver) cached(namespace, spec, importer string, resolve func() (string, bool)) (string, bool) {
	key := CacheKey{Namespace: namespace, Specifier: spec, Importer: importer}
	if outcome, ok := r.ctx.Cache.Get(key); ok {
		return outcome.Path, outcome.Resolved
	}

	path, ok := resolve()
	r.ctx.Cache.Add(key, Outcome{Path: path, Resolved: ok})

	entry := r.ctx.Logger.WithFields(logrus.Fields{"specifier": spec, "importer": importer})
	if ok {
		entry.WithField("resolved", path).Debug("resolved specifier")
	} else {
		entry.Debug("unresolved specifier")
	}
	return path, ok
}

// resolveCustom consults the host hook. A result that is not an existing
// file counts as no result.
func (r *Resolver) resolveCustom(ctx context.Context, spec, importer string) (string, bool) {
	if r.ctx.Custom == nil {
		return "", false
	}

	result, err := r.ctx.Custom(ctx, spec, Request{Cwd: r.ctx.Cwd, Importer: importer})
	if err != nil {
		r.ctx.Logger.WithError(err).WithFields(logrus.Fields{
			"specifier": spec,
			"importer":  importer,
		}).Warn("custom resolver failed")
		return "", false
	}
	if result == "" {
		return "", false
	}

	path := result
	if p, ok := fileURL(result); ok {
		path = p
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.ctx.Cwd, path)
	}
	if !r.stats.isFile(path) {
		r.ctx.Logger.WithFields(logrus.Fields{"specifier": spec, "result": result}).Debug("custom resolver returned a missing file")
		return "", false
	}
	return filepath.Clean(path), true
}

func (r *Resolver) resolveMapped(spec string, p profile) (string, bool) {
	for _, candidate := range r.ctx.PathMapping.Candidates(spec) {
		if path, ok := p.probe(candidate); ok {
			return path, true
		}
	}
	return "", false
}

// resolveDirect probes relative specifiers from the importer's directory and
// rooted specifiers from the project root, then as literal absolute paths.
func (r *Resolver) resolveDirect(spec, importer string, p profile) (string, bool) {
	native := filepath.FromSlash(spec)
	if specifier.IsRelative(spec) {
		return p.probe(filepath.Join(filepath.Dir(importer), native))
	}

	if strings.HasPrefix(spec, "/") && r.ctx.Root != "" {
		if path, ok := p.probe(filepath.Join(r.ctx.Root, native)); ok {
			return path, true
		}
	}
	return p.probe(native)
}

// resolveBare resolves "#" imports against the nearest manifest and package
// specifiers against self-references and ancestor node_modules directories.
func (r *Resolver) resolveBare(spec, fromDir string, p profile) (string, bool) {
	if strings.HasPrefix(spec, "#") {
		m := r.manifests.nearest(fromDir)
		if m == nil {
			return "", false
		}
		return r.resolveImports(m, spec, p)
	}

	name, subpath, ok := parsePackageSpecifier(spec)
	if !ok {
		return "", false
	}

	if m := r.manifests.nearest(fromDir); m != nil && m.name() == name {
		if exports := m.field("exports"); exports.Exists() {
			return r.resolveExports(m.dir, exports, subpath, p)
		}
	}

	for current := filepath.Clean(fromDir); ; current = filepath.Dir(current) {
		if filepath.Base(current) != "node_modules" {
			pkgDir := filepath.Join(current, "node_modules", filepath.FromSlash(name))
			if r.stats.isDir(pkgDir) {
				if path, ok, final := r.loadPackage(pkgDir, subpath, p); ok || final {
					return path, ok
				}
			}
		}
		if filepath.Dir(current) == current {
			return "", false
		}
	}
}

// loadPackage resolves subpath inside an installed package. final is true
// when the package declares "exports", which makes its answer authoritative.
func (r *Resolver) loadPackage(pkgDir, subpath string, p profile) (path string, ok bool, final bool) {
	m := r.manifests.load(pkgDir)
	if m != nil {
		if exports := m.field("exports"); exports.Exists() {
			path, ok := r.resolveExports(pkgDir, exports, subpath, p)
			return path, ok, true
		}
	}

	if subpath == "." {
		if path, ok := r.loadMainFields(pkgDir, p.mainFields, p.probe); ok {
			return path, true, false
		}
		path, ok := p.probe(pkgDir)
		return path, ok, false
	}
	path, ok = p.probe(filepath.Join(pkgDir, filepath.FromSlash(strings.TrimPrefix(subpath, "./"))))
	return path, ok, false
}

// parsePackageSpecifier splits "@scope/name/sub/path" into the package name
// and a "./sub/path" subpath.
func parsePackageSpecifier(spec string) (name, subpath string, ok bool) {
	parts := strings.Split(spec, "/")
	count := 1
	if strings.HasPrefix(spec, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return "", "", false
		}
		count = 2
	}
	if parts[0] == "" || parts[0] == "@" {
		return "", "", false
	}

	name = strings.Join(parts[:count], "/")
	rest := strings.Join(parts[count:], "/")
	if rest == "" {
		return name, ".", true
	}
	return name, "./" + rest, true
}

func fileURL(spec string) (string, bool) {
	if specifier.Scheme(spec) != "file" {
		return "", false
	}
	return specifier.FileURLToPath(spec)
}

func isAbsolute(spec string) bool {
	return strings.HasPrefix(spec, "/") || filepath.IsAbs(spec)
}
