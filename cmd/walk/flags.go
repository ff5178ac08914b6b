package walk

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/config"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

// Flags are the walk settings shared by every command that takes an entry.
type Flags struct {
	Root               string
	ConfigPath         string
	TSConfig           string
	StyleExtensions    []string
	ScriptExtensions   []string
	Conditions         []string
	SassLoadPaths      []string
	IncludeNodeModules bool
	Concurrency        int
	AllowOutside       bool
}

// Register adds the walk flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Root, "root", "r", "", "Project root (default: current directory)")
	cmd.Flags().StringVar(&f.ConfigPath, "config", "", "Config file (default: stylegraph.toml or stylegraph.yaml in the root)")
	cmd.Flags().StringVar(&f.TSConfig, "tsconfig", "", "tsconfig.json or jsconfig.json providing path mappings")
	cmd.Flags().StringSliceVar(&f.StyleExtensions, "style-ext", nil, "Style file extensions (comma-separated, e.g. .css,.scss)")
	cmd.Flags().StringSliceVar(&f.ScriptExtensions, "script-ext", nil, "Script file extensions (comma-separated)")
	cmd.Flags().StringSliceVar(&f.Conditions, "condition", nil, "Package export conditions in preference order (comma-separated)")
	cmd.Flags().StringSliceVar(&f.SassLoadPaths, "load-path", nil, "Sass load paths (comma-separated)")
	cmd.Flags().BoolVar(&f.IncludeNodeModules, "include-node-modules", false, "Follow files inside node_modules")
	cmd.Flags().IntVarP(&f.Concurrency, "concurrency", "j", 0, "Parallel resolutions per file (default 1)")
	cmd.Flags().BoolVar(&f.AllowOutside, "allow-outside-root", false, "Allow an entry outside the project root")
}

// Setup is everything a command needs to run a walk.
type Setup struct {
	Options  depgraph.Options
	Config   *config.Config
	Resolver PathResolver
}

// Entry resolves a user-supplied entry against the root.
func (s Setup) Entry(arg string) (string, error) {
	entry, err := s.Resolver.Resolve(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve entry %q: %w", arg, err)
	}
	return entry, nil
}

// Root is the absolute project root.
func (s Setup) Root() string {
	return s.Resolver.BaseDir()
}

// Walk runs the script walk from entry, or the style-level walk when
// styleDeps is set.
func (s Setup) Walk(ctx context.Context, entry string, styleDeps bool) (*depgraph.Result, error) {
	if styleDeps {
		return depgraph.CollectStyleDependencies(ctx, entry, s.Options)
	}
	return depgraph.CollectStyles(ctx, entry, s.Options)
}

// Load builds walk options: defaults, then the config file, then any flag
// set explicitly on cmd.
func (f *Flags) Load(cmd *cobra.Command) (Setup, error) {
	resolver, err := NewPathResolver(f.Root, f.AllowOutside)
	if err != nil {
		return Setup{}, err
	}
	root := resolver.BaseDir()

	logger, err := NewLogger(cmd)
	if err != nil {
		return Setup{}, err
	}

	opts := depgraph.Options{Cwd: root, Logger: logger}

	cfg, err := f.loadConfig(root)
	if err != nil {
		return Setup{}, err
	}
	if cfg != nil {
		cfg.Apply(&opts)
	}

	flags := cmd.Flags()
	if flags.Changed("tsconfig") {
		opts.TSConfig = absolute(root, f.TSConfig)
		opts.PathMapping = nil
	}
	if flags.Changed("style-ext") {
		opts.StyleExtensions = f.StyleExtensions
	}
	if flags.Changed("script-ext") {
		opts.ScriptExtensions = f.ScriptExtensions
	}
	if flags.Changed("condition") {
		opts.Conditions = f.Conditions
	}
	if flags.Changed("load-path") {
		opts.SassLoadPaths = nil
		for _, path := range f.SassLoadPaths {
			opts.SassLoadPaths = append(opts.SassLoadPaths, absolute(root, path))
		}
	}
	if flags.Changed("include-node-modules") {
		if f.IncludeNodeModules {
			opts.Filter = depgraph.IncludeAll
		} else {
			opts.Filter = depgraph.DefaultFilter
		}
	}
	if flags.Changed("concurrency") {
		opts.Concurrency = f.Concurrency
	}

	if err := opts.Validate(); err != nil {
		return Setup{}, err
	}
	return Setup{Options: opts, Config: cfg, Resolver: resolver}, nil
}

func (f *Flags) loadConfig(root string) (*config.Config, error) {
	path := f.ConfigPath
	if path == "" {
		discovered, ok := config.Discover(root)
		if !ok {
			return nil, nil
		}
		path = discovered
	} else {
		path = absolute(root, path)
	}
	return config.Load(path)
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
