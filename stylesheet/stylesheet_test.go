package stylesheet_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/resolve"
	"github.com/LegacyCodeHQ/stylegraph/stylesheet"
)

func TestBuild_ConcatenatesInOrderWithBanners(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base.css")
	theme := filepath.Join(root, "theme", "dark.css")
	require.NoError(t, os.MkdirAll(filepath.Dir(theme), 0o755))
	require.NoError(t, os.WriteFile(base, []byte("body { margin: 0; }\n"), 0o644))
	require.NoError(t, os.WriteFile(theme, []byte(":root { --bg: #000; }"), 0o644))

	builder := stylesheet.Builder{
		Compilers:  stylesheet.DefaultCompilers(resolve.OSFileSystem{}),
		BannerRoot: root,
	}
	css, err := builder.Build(context.Background(), []string{base, theme})
	require.NoError(t, err)

	want := "/* base.css */\nbody { margin: 0; }\n" +
		"\n/* theme/dark.css */\n:root { --bg: #000; }\n"
	assert.Equal(t, want, css)
}

func TestBuild_ConcurrentCompilationKeepsOrder(t *testing.T) {
	var paths []string
	for _, name := range []string{"/s/a.scss", "/s/b.scss", "/s/c.scss", "/s/d.scss"} {
		paths = append(paths, filepath.FromSlash(name))
	}
	delays := map[string]time.Duration{paths[0]: 30 * time.Millisecond, paths[1]: 0, paths[2]: 10 * time.Millisecond, paths[3]: 0}

	builder := stylesheet.Builder{
		Compilers: stylesheet.Compilers{
			langsupport.DialectSass: func(_ context.Context, path string) (string, error) {
				time.Sleep(delays[path])
				return "." + strings.TrimSuffix(filepath.Base(path), ".scss") + " {}", nil
			},
		},
		Concurrency: 4,
	}

	css, err := builder.Build(context.Background(), paths)
	require.NoError(t, err)

	var rules []string
	for _, line := range strings.Split(css, "\n") {
		if strings.HasPrefix(line, ".") {
			rules = append(rules, line)
		}
	}
	assert.Equal(t, []string{".a {}", ".b {}", ".c {}", ".d {}"}, rules)
}

func TestBuild_MissingCompilerNamesDialect(t *testing.T) {
	_, err := stylesheet.Build(context.Background(), []string{"/s/a.css", "/s/b.less"}, stylesheet.DefaultCompilers(nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, stylesheet.ErrNoCompiler)
	assert.Contains(t, err.Error(), "less")
}

func TestBuild_CompilerErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	_, err := stylesheet.Build(context.Background(), []string{"/s/a.css"}, stylesheet.Compilers{
		langsupport.DialectCSS: func(context.Context, string) (string, error) { return "", boom },
	})

	assert.ErrorIs(t, err, boom)
}

func TestReadCompiler_MissingFile(t *testing.T) {
	_, err := stylesheet.ReadCompiler(nil)(context.Background(), filepath.Join(t.TempDir(), "nope.css"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCommandCompiler(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat is not available")
	}
	path := filepath.Join(t.TempDir(), "a.css")
	require.NoError(t, os.WriteFile(path, []byte("a { color: red; }"), 0o644))

	appended, err := stylesheet.CommandCompiler("cat")(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "a { color: red; }", appended)

	parsed, err := stylesheet.ParseCommand("cat {path}")
	require.NoError(t, err)
	substituted, err := parsed(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "a { color: red; }", substituted)
}

func TestParseCommand_Empty(t *testing.T) {
	_, err := stylesheet.ParseCommand("   ")

	assert.Error(t, err)
}
