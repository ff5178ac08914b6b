package depgraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/resolve"
)

// ErrInvalidOptions marks options that make a walk impossible.
var ErrInvalidOptions = errors.New("invalid options")

// FilterFunc decides whether a resolved absolute path takes part in a walk.
type FilterFunc func(path string) bool

// DefaultFilter rejects any path with a node_modules segment.
func DefaultFilter(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == "node_modules" {
			return false
		}
	}
	return true
}

// IncludeAll accepts every path.
func IncludeAll(string) bool {
	return true
}

// Options configures one walk.
type Options struct {
	// Cwd is the directory relative entries and custom resolver results are
	// resolved against. Defaults to the process working directory.
	Cwd string
	// Root anchors specifiers starting with "/". Defaults to Cwd.
	Root string
	// StyleExtensions are the suffixes collected as styles, compared
	// case-insensitively with the longest match winning.
	StyleExtensions []string
	// ScriptExtensions are the suffixes traversed as scripts.
	ScriptExtensions []string
	// Conditions are the package export conditions, in preference order.
	Conditions []string
	// Filter defaults to DefaultFilter.
	Filter FilterFunc
	Custom resolve.CustomResolver
	// PathMapping takes precedence over TSConfig.
	PathMapping *resolve.PathMapping
	// TSConfig is a tsconfig.json or jsconfig.json whose paths are loaded
	// before the walk.
	TSConfig      string
	SassLoadPaths []string
	// Concurrency bounds parallel resolution of one file's specifiers.
	// Results are always committed in declaration order. Defaults to 1.
	Concurrency int
	FS          resolve.FileSystem
	Logger      logrus.FieldLogger
	// OnUnresolved is called, in discovery order, for every specifier that
	// could not be resolved.
	OnUnresolved func(Unresolved)
	// Session shares resolution outcomes across walks. Nil means a fresh
	// per-walk cache.
	Session *resolve.Session
}

// Validate reports configuration errors. It never touches the filesystem.
func (o Options) Validate() error {
	if o.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative, got %d", ErrInvalidOptions, o.Concurrency)
	}
	for _, ext := range append(append([]string(nil), o.StyleExtensions...), o.ScriptExtensions...) {
		if strings.Trim(strings.TrimSpace(ext), ".") == "" {
			return fmt.Errorf("%w: empty extension", ErrInvalidOptions)
		}
	}
	if err := o.PathMapping.Validate(); err != nil {
		return err
	}
	return nil
}

// withDefaults validates o, fills defaults and loads the tsconfig mapping.
func (o Options) withDefaults() (Options, error) {
	if err := o.Validate(); err != nil {
		return o, err
	}

	if o.Cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("failed to determine working directory: %w", err)
		}
		o.Cwd = cwd
	}
	cwd, err := filepath.Abs(o.Cwd)
	if err != nil {
		return o, fmt.Errorf("failed to resolve working directory %s: %w", o.Cwd, err)
	}
	o.Cwd = cwd
	if o.Root == "" {
		o.Root = o.Cwd
	} else if !filepath.IsAbs(o.Root) {
		o.Root = filepath.Join(o.Cwd, o.Root)
	}

	if len(o.StyleExtensions) == 0 {
		o.StyleExtensions = langsupport.StyleExtensions()
	} else {
		o.StyleExtensions = langsupport.NormalizeExtensions(o.StyleExtensions)
	}
	if len(o.ScriptExtensions) == 0 {
		o.ScriptExtensions = langsupport.ScriptExtensions()
	} else {
		o.ScriptExtensions = langsupport.NormalizeExtensions(o.ScriptExtensions)
	}

	if o.Filter == nil {
		o.Filter = DefaultFilter
	}
	if o.Concurrency == 0 {
		o.Concurrency = 1
	}
	if o.FS == nil {
		o.FS = resolve.OSFileSystem{}
	}
	if o.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		o.Logger = logger
	}

	loadPaths := make([]string, 0, len(o.SassLoadPaths))
	for _, path := range o.SassLoadPaths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(o.Cwd, path)
		}
		loadPaths = append(loadPaths, path)
	}
	o.SassLoadPaths = loadPaths

	if o.PathMapping == nil && o.TSConfig != "" {
		path := o.TSConfig
		if !filepath.IsAbs(path) {
			path = filepath.Join(o.Cwd, path)
		}
		mapping, err := resolve.LoadTSConfig(o.FS, path)
		if err != nil {
			return o, err
		}
		o.PathMapping = mapping
	}
	return o, nil
}

// resolveContext derives the resolution context shared by both walkers.
func (o Options) resolveContext() resolve.Context {
	rc := resolve.Context{
		Cwd:              o.Cwd,
		Root:             o.Root,
		StyleExtensions:  o.StyleExtensions,
		ScriptExtensions: o.ScriptExtensions,
		Conditions:       o.Conditions,
		Custom:           o.Custom,
		PathMapping:      o.PathMapping,
		SassLoadPaths:    o.SassLoadPaths,
		FS:               o.FS,
		Logger:           o.Logger,
	}
	if o.Session != nil {
		rc.Cache = o.Session
	}
	return rc
}
