package formatters

import (
	"strconv"

	"github.com/LegacyCodeHQ/stylegraph/depgraph"
	"github.com/LegacyCodeHQ/stylegraph/report"
)

// RenderOptions contains optional parameters for rendering dependency graphs.
type RenderOptions struct {
	// Label is an optional title or label for the graph
	Label string
	// Root makes rendered paths relative when they lie inside it.
	Root string
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts a dependency graph to a formatted string representation.
	Format(g depgraph.FileDependencyGraph, opts RenderOptions) (string, error)
	// GenerateURL returns a shareable visualization URL for output, if the
	// format has one.
	GenerateURL(output string) (string, bool)
}

// DisplayPath returns path relative to root, slash-separated, when it lies
// inside root.
func DisplayPath(path, root string) string {
	return report.DisplayPath(path, root)
}

// NodeLabel is the visible label of a node: styles carry their 1-based
// position in the collected output.
func NodeLabel(name string, meta depgraph.FileMetadata) string {
	if meta.IsStyle && meta.Order > 0 {
		return strconv.Itoa(meta.Order) + ". " + name
	}
	return name
}
