package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/stylegraph/depgraph"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/resolve"
	"github.com/LegacyCodeHQ/stylegraph/stylesheet"
)

// ErrInvalidConfig marks a config file that cannot be decoded or fails
// schema validation.
var ErrInvalidConfig = errors.New("invalid config")

// FileNames are the config files Discover looks for, in order.
var FileNames = []string{"stylegraph.toml", "stylegraph.yaml", "stylegraph.yml"}

// Config is the project configuration file.
type Config struct {
	Root               string            `toml:"root" yaml:"root"`
	StyleExtensions    []string          `toml:"styleExtensions" yaml:"styleExtensions"`
	ScriptExtensions   []string          `toml:"scriptExtensions" yaml:"scriptExtensions"`
	Conditions         []string          `toml:"conditions" yaml:"conditions"`
	TSConfig           string            `toml:"tsconfig" yaml:"tsconfig"`
	IncludeNodeModules *bool             `toml:"includeNodeModules" yaml:"includeNodeModules"`
	SassLoadPaths      []string          `toml:"sassLoadPaths" yaml:"sassLoadPaths"`
	Concurrency        int               `toml:"concurrency" yaml:"concurrency"`
	Paths              *Paths            `toml:"paths" yaml:"paths"`
	Compilers          map[string]string `toml:"compilers" yaml:"compilers"`

	// Dir is the directory of the loaded file. Relative paths in the file
	// are resolved against it.
	Dir string `toml:"-" yaml:"-"`
}

// Paths is an inline path mapping. Pattern order is significant.
type Paths struct {
	BaseURL  string    `toml:"baseUrl" yaml:"baseUrl"`
	Patterns []Pattern `toml:"patterns" yaml:"patterns"`
}

// Pattern maps one key to its ordered targets.
type Pattern struct {
	Key     string   `toml:"key" yaml:"key"`
	Targets []string `toml:"targets" yaml:"targets"`
}

// Discover returns the first config file present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads, validates and decodes the config file at path. The format is
// chosen by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var (
		document map[string]any
		cfg      Config
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &document); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %s", ErrInvalidConfig, path)
	}

	if document == nil {
		document = map[string]any{}
	}
	if err := validate(document); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(absPath)
	return &cfg, nil
}

func validate(document map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !result.Valid() {
		var errs strings.Builder
		for _, desc := range result.Errors() {
			fmt.Fprintf(&errs, "\n- %s", desc)
		}
		return fmt.Errorf("%w:%s", ErrInvalidConfig, errs.String())
	}
	return nil
}

// Apply copies every value set in c into opts. Values already present in
// opts are overwritten, so flags should be applied afterwards.
func (c *Config) Apply(opts *depgraph.Options) {
	if c.Root != "" {
		opts.Root = c.path(c.Root)
	}
	if len(c.StyleExtensions) > 0 {
		opts.StyleExtensions = append([]string(nil), c.StyleExtensions...)
	}
	if len(c.ScriptExtensions) > 0 {
		opts.ScriptExtensions = append([]string(nil), c.ScriptExtensions...)
	}
	if len(c.Conditions) > 0 {
		opts.Conditions = append([]string(nil), c.Conditions...)
	}
	if c.TSConfig != "" {
		opts.TSConfig = c.path(c.TSConfig)
	}
	if c.IncludeNodeModules != nil {
		if *c.IncludeNodeModules {
			opts.Filter = depgraph.IncludeAll
		} else {
			opts.Filter = depgraph.DefaultFilter
		}
	}
	for _, loadPath := range c.SassLoadPaths {
		opts.SassLoadPaths = append(opts.SassLoadPaths, c.path(loadPath))
	}
	if c.Concurrency > 0 {
		opts.Concurrency = c.Concurrency
	}
	if c.Paths != nil {
		opts.PathMapping = c.pathMapping()
	}
}

func (c *Config) pathMapping() *resolve.PathMapping {
	mapping := &resolve.PathMapping{BaseDir: c.Dir}
	if c.Paths.BaseURL != "" {
		mapping.BaseDir = c.path(c.Paths.BaseURL)
		mapping.BaseURL = mapping.BaseDir
	}
	for _, pattern := range c.Paths.Patterns {
		mapping.Patterns = append(mapping.Patterns, resolve.PathPattern{
			Key:     pattern.Key,
			Targets: append([]string(nil), pattern.Targets...),
		})
	}
	return mapping
}

// StyleCompilers returns the default compilers overlaid with the configured
// per-dialect commands.
func (c *Config) StyleCompilers(fsys resolve.FileSystem) (stylesheet.Compilers, error) {
	compilers := stylesheet.DefaultCompilers(fsys)
	for name, command := range c.Compilers {
		dialect, ok := dialectByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown compiler dialect %q", ErrInvalidConfig, name)
		}
		compiler, err := stylesheet.ParseCommand(command)
		if err != nil {
			return nil, fmt.Errorf("%w: compiler %q: %v", ErrInvalidConfig, name, err)
		}
		compilers[dialect] = compiler
	}
	return compilers, nil
}

func dialectByName(name string) (langsupport.Dialect, bool) {
	for _, dialect := range []langsupport.Dialect{langsupport.DialectCSS, langsupport.DialectSass, langsupport.DialectLess} {
		if dialect.String() == name {
			return dialect, true
		}
	}
	return langsupport.DialectNone, false
}

func (c *Config) path(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
