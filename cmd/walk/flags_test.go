package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/stylegraph/config"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

func loadFlags(t *testing.T, args ...string) (Setup, error) {
	t.Helper()
	var flags Flags
	cmd := &cobra.Command{Use: "test"}
	flags.Register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return flags.Load(cmd)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFlagsLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	setup, err := loadFlags(t, "--root", root)
	require.NoError(t, err)

	assert.Equal(t, root, setup.Root())
	assert.Equal(t, root, setup.Options.Cwd)
	assert.Nil(t, setup.Config)
	assert.NotNil(t, setup.Options.Logger)
	assert.Empty(t, setup.Options.StyleExtensions)
}

func TestFlagsLoad_DiscoveredConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stylegraph.yaml"), "conditions: [style]\nsassLoadPaths: [shared]\nconcurrency: 3\n")

	setup, err := loadFlags(t, "--root", root)
	require.NoError(t, err)

	require.NotNil(t, setup.Config)
	assert.Equal(t, []string{"style"}, setup.Options.Conditions)
	assert.Equal(t, []string{filepath.Join(root, "shared")}, setup.Options.SassLoadPaths)
	assert.Equal(t, 3, setup.Options.Concurrency)
}

func TestFlagsLoad_ExplicitFlagsOverrideConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stylegraph.toml"), "conditions = [\"style\"]\nconcurrency = 3\nincludeNodeModules = true\n")

	setup, err := loadFlags(t, "--root", root, "--condition", "sass,import", "-j", "8", "--include-node-modules=false", "--load-path", "vendor")
	require.NoError(t, err)

	assert.Equal(t, []string{"sass", "import"}, setup.Options.Conditions)
	assert.Equal(t, 8, setup.Options.Concurrency)
	assert.False(t, setup.Options.Filter("/project/node_modules/pkg/a.css"))
	assert.Equal(t, []string{filepath.Join(root, "vendor")}, setup.Options.SassLoadPaths)
}

func TestFlagsLoad_ExplicitConfigPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "configs", "styles.yml"), "styleExtensions: [.pcss]\n")

	setup, err := loadFlags(t, "--root", root, "--config", "configs/styles.yml")
	require.NoError(t, err)

	assert.Equal(t, []string{".pcss"}, setup.Options.StyleExtensions)
	assert.Equal(t, filepath.Join(root, "configs"), setup.Config.Dir)
}

func TestFlagsLoad_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stylegraph.toml"), "concurrency = 0\n")

	_, err := loadFlags(t, "--root", root)

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestFlagsLoad_InvalidFlagValues(t *testing.T) {
	_, err := loadFlags(t, "--root", t.TempDir(), "--concurrency=-1")

	assert.ErrorIs(t, err, depgraph.ErrInvalidOptions)
}

func TestSetupWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.ts"), "import './main.scss';\n")
	writeFile(t, filepath.Join(root, "src", "main.scss"), "@use 'tokens';\n")
	writeFile(t, filepath.Join(root, "src", "_tokens.scss"), "")

	setup, err := loadFlags(t, "--root", root)
	require.NoError(t, err)

	entry, err := setup.Entry("src/main.ts")
	require.NoError(t, err)
	scriptWalk, err := setup.Walk(context.Background(), entry, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src", "main.scss")}, scriptWalk.Styles)

	styleEntry, err := setup.Entry("src/main.scss")
	require.NoError(t, err)
	styleWalk, err := setup.Walk(context.Background(), styleEntry, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "main.scss"),
		filepath.Join(root, "src", "_tokens.scss"),
	}, styleWalk.Styles)
}

func TestSetupEntry_OutsideRoot(t *testing.T) {
	setup, err := loadFlags(t, "--root", t.TempDir())
	require.NoError(t, err)

	_, err = setup.Entry(filepath.Join(t.TempDir(), "main.ts"))

	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(LogLevelFlag, "debug", "")

	logger, err := NewLogger(cmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", logger.GetLevel().String())

	require.NoError(t, cmd.Flags().Set(LogLevelFlag, "chatty"))
	_, err = NewLogger(cmd)
	assert.Error(t, err)
}
