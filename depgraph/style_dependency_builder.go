package depgraph

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/languages/style"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

// CollectStyleDependencies walks the style-level imports (@import, @use,
// @forward) of a style entry with each dialect's resolution conventions. The
// result lists the entry followed by its transitive style dependencies in
// first-discovery order. Vanilla-extract sources are leaves.
func CollectStyleDependencies(ctx context.Context, entry string, opts Options) (*Result, error) {
	w, err := newWalker(opts)
	if err != nil {
		return nil, err
	}
	return w.collectStyleDependencies(ctx, entry)
}

func (w *walker) collectStyleDependencies(ctx context.Context, entry string) (*Result, error) {
	entryPath, err := w.entryPath(entry)
	if err != nil {
		return nil, err
	}
	if !w.isStyle(entryPath) {
		return nil, fmt.Errorf("%w: %s is not a style file", ErrInvalidOptions, entry)
	}

	result := &Result{Entry: entryPath, Graph: NewDependencyGraph(), Styles: []string{entryPath}}
	result.Graph.AddNode(entryPath)

	collected := map[string]bool{entryPath: true}
	queue := []string{entryPath}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := queue[0]
		queue = queue[1:]

		dialect := langsupport.DialectForPath(path)
		specs := w.extractStyle(path, dialect)
		outcomes := w.resolveAll(ctx, specs, func(ctx context.Context, spec specifier.Specifier) (string, bool) {
			return w.styles.Resolve(ctx, spec.Path, path, dialect)
		})

		for i, spec := range specs {
			outcome := outcomes[i]
			if !outcome.Resolved {
				w.recordUnresolved(result, spec.Path, path)
				continue
			}
			dep := outcome.Path
			if !w.opts.Filter(dep) {
				w.opts.Logger.WithFields(logrus.Fields{"importer": path, "resolved": dep}).Debug("filtered dependency")
				continue
			}
			if !w.isStyle(dep) {
				continue
			}

			w.addEdge(result.Graph, path, dep)
			if !collected[dep] {
				collected[dep] = true
				result.Styles = append(result.Styles, dep)
				queue = append(queue, dep)
			}
		}
	}

	return result, nil
}

// extractStyle reads a style file and extracts its style-level specifiers.
// Leaf dialects are not read at all.
func (w *walker) extractStyle(path string, dialect langsupport.Dialect) []specifier.Specifier {
	switch dialect {
	case langsupport.DialectCSS, langsupport.DialectSass, langsupport.DialectLess:
	default:
		return nil
	}

	source, err := w.opts.FS.ReadFile(path)
	if err != nil {
		w.opts.Logger.WithError(err).WithField("file", path).Warn("failed to read file")
		return nil
	}
	return style.ParseImports(source, dialect)
}
