package resolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newTestResolver(t *testing.T, root string, configure func(*Context)) *Resolver {
	t.Helper()
	rc := Context{Cwd: root, Root: root}
	if configure != nil {
		configure(&rc)
	}
	r, err := New(rc)
	require.NoError(t, err)
	return r
}

func TestResolve_RelativeWithExtensionCandidates(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/entry.ts":         "",
		"src/button.tsx":       "",
		"src/theme.css":        "",
		"src/widgets/index.ts": "",
	})
	r := newTestResolver(t, root, nil)
	importer := filepath.Join(root, "src/entry.ts")

	path, ok := r.Resolve(context.Background(), "./button", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/button.tsx"), path)

	path, ok = r.Resolve(context.Background(), "./theme.css", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/theme.css"), path)

	path, ok = r.Resolve(context.Background(), "./widgets", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/widgets/index.ts"), path)

	_, ok = r.Resolve(context.Background(), "./missing", importer)
	assert.False(t, ok)
}

func TestResolve_ExtensionAliasing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"entry.ts": "",
		"util.ts":  "",
		"view.tsx": "",
		"esm.mts":  "",
		"plain.js": "",
		"plain.ts": "",
	})
	r := newTestResolver(t, root, nil)
	importer := filepath.Join(root, "entry.ts")

	cases := map[string]string{
		"./util.js":  "util.ts",
		"./view.jsx": "view.tsx",
		"./esm.mjs":  "esm.mts",
		"./plain.js": "plain.js",
	}
	for spec, want := range cases {
		path, ok := r.Resolve(context.Background(), spec, importer)
		require.True(t, ok, spec)
		assert.Equal(t, filepath.Join(root, want), path, spec)
	}
}

func TestResolve_DirectoryManifestMainField(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"entry.js":         "",
		"lib/package.json": `{"main": "./dist/lib.js"}`,
		"lib/dist/lib.js":  "",
		"lib/index.js":     "",
	})
	r := newTestResolver(t, root, nil)

	path, ok := r.Resolve(context.Background(), "./lib", filepath.Join(root, "entry.js"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "lib/dist/lib.js"), path)
}

func TestResolve_RootedSpecifierUsesProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/deep/entry.ts": "",
		"styles/app.css":    "",
	})
	r := newTestResolver(t, root, nil)

	path, ok := r.Resolve(context.Background(), "/styles/app.css", filepath.Join(root, "src/deep/entry.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "styles/app.css"), path)

	abs := filepath.ToSlash(filepath.Join(root, "styles/app.css"))
	path, ok = r.Resolve(context.Background(), abs, filepath.Join(root, "src/deep/entry.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "styles/app.css"), path)
}

func TestResolve_BuiltinsNeverProbed(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"entry.js":                   "",
		"node_modules/fs/index.js":   "",
		"node_modules/path/index.js": "",
	})
	called := false
	r := newTestResolver(t, root, func(c *Context) {
		c.Custom = func(context.Context, string, Request) (string, error) {
			called = true
			return "", nil
		}
	})

	for _, spec := range []string{"fs", "node:fs", "fs/promises", "path"} {
		_, ok := r.Resolve(context.Background(), spec, filepath.Join(root, "entry.js"))
		assert.False(t, ok, spec)
	}
	assert.False(t, called)
}

func TestResolve_FileURL(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.css": ""})
	r := newTestResolver(t, root, nil)

	url := "file://" + filepath.ToSlash(filepath.Join(root, "a.css"))
	path, ok := r.Resolve(context.Background(), url, filepath.Join(root, "entry.js"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a.css"), path)
}

func TestResolve_CustomResolver(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"entry.js":           "",
		"virtual/theme.css":  "",
		"fallback/theme.css": "",
		"local.css":          "",
	})

	var seen []Request
	r := newTestResolver(t, root, func(c *Context) {
		c.Custom = func(_ context.Context, spec string, req Request) (string, error) {
			seen = append(seen, req)
			switch spec {
			case "virtual:theme":
				return "virtual/theme.css", nil
			case "url:theme":
				return "file://" + filepath.ToSlash(filepath.Join(root, "fallback/theme.css")), nil
			case "broken":
				return "", errors.New("boom")
			case "./local.css":
				return "does/not/exist.css", nil
			}
			return "", nil
		}
	})
	importer := filepath.Join(root, "entry.js")

	path, ok := r.Resolve(context.Background(), "virtual:theme", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "virtual/theme.css"), path)

	path, ok = r.Resolve(context.Background(), "url:theme", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "fallback/theme.css"), path)

	_, ok = r.Resolve(context.Background(), "broken", importer)
	assert.False(t, ok)

	path, ok = r.Resolve(context.Background(), "./local.css", importer)
	require.True(t, ok, "a missing hook result falls through to the built-in layers")
	assert.Equal(t, filepath.Join(root, "local.css"), path)

	require.NotEmpty(t, seen)
	assert.Equal(t, root, seen[0].Cwd)
	assert.Equal(t, importer, seen[0].Importer)
}

func TestResolve_PathMapping(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/entry.ts":         "",
		"src/exact/theme.css":  "",
		"src/first/button.ts":  "",
		"src/second/button.ts": "",
		"src/ui/card/index.ts": "",
		"src/base/tokens.ts":   "",
	})
	r := newTestResolver(t, root, func(c *Context) {
		c.PathMapping = &PathMapping{
			BaseDir: filepath.Join(root, "src"),
			BaseURL: filepath.Join(root, "src/base"),
			Patterns: []PathPattern{
				{Key: "@app/*", Targets: []string{"first/*"}},
				{Key: "@app/theme", Targets: []string{"exact/theme.css"}},
				{Key: "@app/*", Targets: []string{"second/*"}},
				{Key: "@ui/*", Targets: []string{"missing/*", "ui/*"}},
			},
		}
	})
	importer := filepath.Join(root, "src/entry.ts")

	path, ok := r.Resolve(context.Background(), "@app/theme", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/exact/theme.css"), path, "exact key beats wildcard")

	path, ok = r.Resolve(context.Background(), "@app/button", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/first/button.ts"), path, "first configured wildcard wins")

	path, ok = r.Resolve(context.Background(), "@ui/card", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/ui/card/index.ts"), path, "targets are tried in order with index fallback")

	path, ok = r.Resolve(context.Background(), "tokens", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/base/tokens.ts"), path, "baseUrl lookup for bare specifiers")
}

func TestNew_RejectsMalformedPathMapping(t *testing.T) {
	_, err := New(Context{Cwd: t.TempDir(), PathMapping: &PathMapping{
		BaseDir:  "/tmp",
		Patterns: []PathPattern{{Key: "@a/*/*", Targets: []string{"a/*"}}},
	}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPathMapping)
}

func TestResolve_PackageExportsConditions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"app/entry.ts": "",
		"node_modules/ui/package.json": `{
			"name": "ui",
			"exports": {
				".": {"style": "./dist/ui.css", "import": "./dist/ui.mjs", "default": "./dist/ui.js"},
				"./button": [{"browser": "./dist/button.browser.js"}, "./dist/button.js"],
				"./themes/*.css": "./dist/themes/*.css",
				"./themes/internal/*.css": null,
				"./package.json": "./package.json"
			}
		}`,
		"node_modules/ui/dist/ui.css":                "",
		"node_modules/ui/dist/ui.mjs":                "",
		"node_modules/ui/dist/ui.js":                 "",
		"node_modules/ui/dist/button.js":             "",
		"node_modules/ui/dist/themes/dark.css":       "",
		"node_modules/ui/dist/themes/internal/x.css": "",
		"node_modules/ui/dist/hidden.js":             "",
	})
	importer := filepath.Join(root, "app/entry.ts")

	r := newTestResolver(t, root, nil)
	path, ok := r.Resolve(context.Background(), "ui", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/ui/dist/ui.css"), path)

	path, ok = r.Resolve(context.Background(), "ui/button", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/ui/dist/button.js"), path, "array falls back to the next entry")

	path, ok = r.Resolve(context.Background(), "ui/themes/dark.css", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/ui/dist/themes/dark.css"), path)

	_, ok = r.Resolve(context.Background(), "ui/themes/internal/x.css", importer)
	assert.False(t, ok, "more specific null pattern excludes the subpath")

	_, ok = r.Resolve(context.Background(), "ui/dist/hidden.js", importer)
	assert.False(t, ok, "exports encapsulates unlisted files")

	scriptOnly := newTestResolver(t, root, func(c *Context) { c.Conditions = []string{"import"} })
	path, ok = scriptOnly.Resolve(context.Background(), "ui", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/ui/dist/ui.mjs"), path)
}

func TestResolve_PackageExportsSugar(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"entry.js":                        "",
		"node_modules/plain/package.json": `{"exports": "./main.css"}`,
		"node_modules/plain/main.css":     "",
		"node_modules/cond/package.json":  `{"exports": {"require": "./c.cjs", "default": "./c.js"}}`,
		"node_modules/cond/c.js":          "",
		"node_modules/cond/c.cjs":         "",
	})
	r := newTestResolver(t, root, func(c *Context) { c.Conditions = []string{"import"} })
	importer := filepath.Join(root, "entry.js")

	path, ok := r.Resolve(context.Background(), "plain", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/plain/main.css"), path)

	path, ok = r.Resolve(context.Background(), "cond", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/cond/c.js"), path)

	_, ok = r.Resolve(context.Background(), "plain/other", importer)
	assert.False(t, ok)
}

func TestResolve_PackageWithoutExports(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"packages/app/src/entry.js":                "",
		"node_modules/@scope/kit/package.json":     `{"module": "./esm/index.js", "main": "./cjs/index.js"}`,
		"node_modules/@scope/kit/esm/index.js":     "",
		"node_modules/@scope/kit/cjs/index.js":     "",
		"node_modules/@scope/kit/styles/reset.css": "",
		"node_modules/bare/index.js":               "",
	})
	r := newTestResolver(t, root, nil)
	importer := filepath.Join(root, "packages/app/src/entry.js")

	path, ok := r.Resolve(context.Background(), "@scope/kit", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/@scope/kit/esm/index.js"), path)

	path, ok = r.Resolve(context.Background(), "@scope/kit/styles/reset.css", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/@scope/kit/styles/reset.css"), path)

	path, ok = r.Resolve(context.Background(), "bare", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/bare/index.js"), path)
}

func TestResolve_NearestNodeModulesWins(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"packages/app/entry.js":                   "",
		"packages/app/node_modules/dep/index.css": "",
		"node_modules/dep/index.css":              "",
		"node_modules/other/index.css":            "",
	})
	r := newTestResolver(t, root, nil)
	importer := filepath.Join(root, "packages/app/entry.js")

	path, ok := r.Resolve(context.Background(), "dep", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "packages/app/node_modules/dep/index.css"), path)

	path, ok = r.Resolve(context.Background(), "other", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/other/index.css"), path)
}

func TestResolve_SubpathImports(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json": `{
			"name": "app",
			"imports": {
				"#ui/*": "./src/ui/*",
				"#theme": {"style": "./src/theme.css", "default": "./src/theme.js"},
				"#dep": "dep"
			},
			"exports": {"./tokens": "./src/tokens.css"}
		}`,
		"src/entry.js":               "",
		"src/ui/button.js":           "",
		"src/theme.css":              "",
		"src/theme.js":               "",
		"src/tokens.css":             "",
		"node_modules/dep/index.css": "",
	})
	r := newTestResolver(t, root, nil)
	importer := filepath.Join(root, "src/entry.js")

	path, ok := r.Resolve(context.Background(), "#ui/button.js", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/ui/button.js"), path)

	path, ok = r.Resolve(context.Background(), "#theme", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/theme.css"), path)

	path, ok = r.Resolve(context.Background(), "#dep", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/dep/index.css"), path)

	path, ok = r.Resolve(context.Background(), "app/tokens", importer)
	require.True(t, ok, "self-reference through exports")
	assert.Equal(t, filepath.Join(root, "src/tokens.css"), path)

	_, ok = r.Resolve(context.Background(), "#missing", importer)
	assert.False(t, ok)
}

func TestResolve_SubpathImportsSkipBaseURL(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":     `{"name": "app", "imports": {"#ui/*": "./src/ui/*"}}`,
		"src/entry.js":     "",
		"src/ui/button.js": "",
		"#ui/button.js":    "",
	})
	r := newTestResolver(t, root, func(rc *Context) {
		rc.PathMapping = &PathMapping{BaseDir: root, BaseURL: root}
	})

	path, ok := r.Resolve(context.Background(), "#ui/button.js", filepath.Join(root, "src/entry.js"))

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/ui/button.js"), path)
}

func TestResolveAssertedStyle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/entry.ts":                  "",
		"src/theme.ts":                  "",
		"src/theme.css":                 "",
		"src/button.tsx":                "",
		"src/panel/index.ts":            "",
		"src/panel/index.scss":          "",
		"node_modules/kit/package.json": `{"main": "index.js", "style": "dist/kit.css"}`,
		"node_modules/kit/index.js":     "",
		"node_modules/kit/dist/kit.css": "",
	})
	r := newTestResolver(t, root, nil)
	importer := filepath.Join(root, "src/entry.ts")

	path, ok := r.ResolveAssertedStyle(context.Background(), "./theme", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/theme.css"), path)

	path, ok = r.ResolveAssertedStyle(context.Background(), "./panel", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src/panel/index.scss"), path)

	path, ok = r.ResolveAssertedStyle(context.Background(), "kit", importer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/kit/dist/kit.css"), path)

	_, ok = r.ResolveAssertedStyle(context.Background(), "./button", importer)
	assert.False(t, ok)

	path, ok = r.Resolve(context.Background(), "./theme", importer)
	require.True(t, ok, "plain imports keep script-first probing")
	assert.Equal(t, filepath.Join(root, "src/theme.ts"), path)
}

func TestResolve_MalformedManifestIsIgnored(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"entry.js":                      "",
		"node_modules/odd/package.json": `{ not json`,
		"node_modules/odd/index.css":    "",
	})
	r := newTestResolver(t, root, nil)

	path, ok := r.Resolve(context.Background(), "odd", filepath.Join(root, "entry.js"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules/odd/index.css"), path)
}

func TestResolve_CachesOutcomes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"entry.js": "", "a.css": ""})

	calls := 0
	session, err := NewSession(16)
	require.NoError(t, err)
	configure := func(c *Context) {
		c.Cache = session
		c.Custom = func(context.Context, string, Request) (string, error) {
			calls++
			return "", nil
		}
	}
	importer := filepath.Join(root, "entry.js")

	first := newTestResolver(t, root, configure)
	_, ok := first.Resolve(context.Background(), "./a.css", importer)
	require.True(t, ok)
	_, _ = first.Resolve(context.Background(), "./a.css", importer)
	assert.Equal(t, 1, calls)

	second := newTestResolver(t, root, configure)
	_, ok = second.Resolve(context.Background(), "./a.css", importer)
	require.True(t, ok)
	assert.Equal(t, 1, calls, "session outcomes survive across resolvers")

	session.Invalidate()
	assert.Equal(t, 0, session.Len())
	_, _ = second.Resolve(context.Background(), "./a.css", importer)
	assert.Equal(t, 2, calls)
}

func TestParsePackageSpecifier(t *testing.T) {
	tests := []struct {
		spec    string
		name    string
		subpath string
		ok      bool
	}{
		{spec: "react", name: "react", subpath: ".", ok: true},
		{spec: "react/jsx-runtime", name: "react", subpath: "./jsx-runtime", ok: true},
		{spec: "@scope/pkg", name: "@scope/pkg", subpath: ".", ok: true},
		{spec: "@scope/pkg/a/b.css", name: "@scope/pkg", subpath: "./a/b.css", ok: true},
		{spec: "@scope", ok: false},
	}
	for _, tt := range tests {
		name, subpath, ok := parsePackageSpecifier(tt.spec)
		assert.Equal(t, tt.ok, ok, tt.spec)
		if tt.ok {
			assert.Equal(t, tt.name, name, tt.spec)
			assert.Equal(t, tt.subpath, subpath, tt.spec)
		}
	}
}
