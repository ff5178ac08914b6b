package resolve

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
)

var (
	// DefaultConditions are the export conditions matched, in order of
	// preference, when the caller supplies none. "default" always matches.
	DefaultConditions = []string{"style", "import", "require", "browser", "module"}
	// DefaultMainFields are the package.json entry fields for script imports.
	DefaultMainFields = []string{"browser", "module", "main"}

	styleMainFields = []string{"style", "main"}
	sassMainFields  = []string{"sass", "style", "main"}
	sassConditions  = []string{"sass", "style"}
)

// Request carries the caller context handed to a CustomResolver.
type Request struct {
	Cwd      string
	Importer string
}

// CustomResolver is a host-supplied resolution hook consulted before every
// built-in layer. It returns an absolute or cwd-relative path, a file:// URL,
// or "" for no result. It may block. Errors are logged and treated as no result.
type CustomResolver func(ctx context.Context, spec string, req Request) (string, error)

// Context holds everything resolution depends on. It is immutable for the
// duration of one walk.
type Context struct {
	Cwd              string
	Root             string
	StyleExtensions  []string
	ScriptExtensions []string
	// ExtensionOrder is the candidate list appended to extensionless paths.
	// Defaults to ScriptExtensions followed by StyleExtensions.
	ExtensionOrder []string
	Conditions     []string
	MainFields     []string
	Custom         CustomResolver
	PathMapping    *PathMapping
	SassLoadPaths  []string
	FS             FileSystem
	Logger         logrus.FieldLogger
	// Cache stores outcomes keyed by (specifier, importer). A fresh Cache is
	// used when nil; pass a Session to share outcomes across walks.
	Cache ResultCache
}

func (c Context) withDefaults() Context {
	if len(c.StyleExtensions) == 0 {
		c.StyleExtensions = langsupport.StyleExtensions()
	}
	if len(c.ScriptExtensions) == 0 {
		c.ScriptExtensions = langsupport.ScriptExtensions()
	}
	if len(c.ExtensionOrder) == 0 {
		c.ExtensionOrder = append(append([]string(nil), c.ScriptExtensions...), c.StyleExtensions...)
	}
	if len(c.Conditions) == 0 {
		c.Conditions = DefaultConditions
	}
	if len(c.MainFields) == 0 {
		c.MainFields = DefaultMainFields
	}
	if c.Root == "" {
		c.Root = c.Cwd
	}
	if c.FS == nil {
		c.FS = OSFileSystem{}
	}
	if c.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		c.Logger = logger
	}
	if c.Cache == nil {
		c.Cache = NewCache()
	}
	return c
}
