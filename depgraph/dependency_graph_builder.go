package depgraph

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/languages/script"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/languages/svelte"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/resolve"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

// CollectStyles walks the script import graph starting at entry and returns
// every reachable style file in first-discovery order. Style files are
// leaves: they are collected but not read. An entry that is itself a style
// file is returned as the only style.
//
// Only configuration errors are returned. Unreadable files, unparsable
// sources and unresolved specifiers contribute nothing to the walk.
func CollectStyles(ctx context.Context, entry string, opts Options) (*Result, error) {
	w, err := newWalker(opts)
	if err != nil {
		return nil, err
	}
	return w.collectStyles(ctx, entry)
}

type walker struct {
	opts     Options
	resolver *resolve.Resolver
	styles   *resolve.StyleResolver
}

func newWalker(opts Options) (*walker, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	resolver, err := resolve.New(opts.resolveContext())
	if err != nil {
		return nil, err
	}
	return &walker{
		opts:     opts,
		resolver: resolver,
		styles:   resolve.NewStyleResolver(resolver),
	}, nil
}

func (w *walker) entryPath(entry string) (string, error) {
	if entry == "" {
		return "", fmt.Errorf("%w: entry is required", ErrInvalidOptions)
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(w.opts.Cwd, entry)
	}
	return filepath.Clean(entry), nil
}

func (w *walker) collectStyles(ctx context.Context, entry string) (*Result, error) {
	entryPath, err := w.entryPath(entry)
	if err != nil {
		return nil, err
	}

	result := &Result{Entry: entryPath, Graph: NewDependencyGraph()}
	result.Graph.AddNode(entryPath)
	if w.isStyle(entryPath) {
		result.Styles = []string{entryPath}
		return result, nil
	}

	visited := make(map[string]bool)
	collected := make(map[string]bool)
	queue := []string{entryPath}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := queue[0]
		queue = queue[1:]
		if visited[path] {
			continue
		}
		visited[path] = true
		result.Scripts = append(result.Scripts, path)

		specs := w.extractScript(path)
		outcomes := w.resolveAll(ctx, specs, func(ctx context.Context, spec specifier.Specifier) (string, bool) {
			if spec.AssertedStyle {
				return w.resolver.ResolveAssertedStyle(ctx, spec.Path, path)
			}
			return w.resolver.Resolve(ctx, spec.Path, path)
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

			if spec.AssertedStyle || w.isStyle(dep) {
				w.addEdge(result.Graph, path, dep)
				if !collected[dep] {
					collected[dep] = true
					result.Styles = append(result.Styles, dep)
				}
				continue
			}

			if w.isScript(dep) {
				w.addEdge(result.Graph, path, dep)
				if !visited[dep] {
					queue = append(queue, dep)
				}
			}
		}
	}

	return result, nil
}

// extractScript reads path and extracts its specifiers. Read failures yield
// no specifiers. Builtin modules are dropped here so they never reach the
// resolver or the unresolved list.
func (w *walker) extractScript(path string) []specifier.Specifier {
	source, err := w.opts.FS.ReadFile(path)
	if err != nil {
		w.opts.Logger.WithError(err).WithField("file", path).Warn("failed to read file")
		return nil
	}

	var specs []specifier.Specifier
	if langsupport.HasSuffixFold(path, ".svelte") {
		specs, err = svelte.ParseImports(source, path)
		if err != nil {
			w.opts.Logger.WithError(err).WithField("file", path).Warn("failed to parse component")
			return nil
		}
	} else {
		var strategy script.Strategy
		specs, strategy = script.Extract(source, path)
		entry := w.opts.Logger.WithFields(logrus.Fields{"file": path, "strategy": strategy.String()})
		switch strategy {
		case script.StrategyPermissive:
			entry.Debug("parsed with permissive grammar")
		case script.StrategyLexical:
			entry.Warn("source did not parse; used lexical scan")
		}
	}

	filtered := specs[:0]
	for _, spec := range specs {
		if !specifier.IsBuiltin(spec.Path) {
			filtered = append(filtered, spec)
		}
	}
	return filtered
}

// resolveAll resolves specs, up to Concurrency at a time. Outcomes are
// indexed by declaration position so callers commit them in source order.
func (w *walker) resolveAll(
	ctx context.Context,
	specs []specifier.Specifier,
	resolveOne func(context.Context, specifier.Specifier) (string, bool),
) []resolve.Outcome {
	outcomes := make([]resolve.Outcome, len(specs))
	if w.opts.Concurrency <= 1 || len(specs) < 2 {
		for i, spec := range specs {
			path, ok := resolveOne(ctx, spec)
			outcomes[i] = resolve.Outcome{Path: path, Resolved: ok}
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(w.opts.Concurrency)
	for i, spec := range specs {
		g.Go(func() error {
			path, ok := resolveOne(ctx, spec)
			outcomes[i] = resolve.Outcome{Path: path, Resolved: ok}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (w *walker) recordUnresolved(result *Result, spec, importer string) {
	unresolved := Unresolved{Specifier: spec, Importer: importer}
	result.Unresolved = append(result.Unresolved, unresolved)
	if w.opts.OnUnresolved != nil {
		w.opts.OnUnresolved(unresolved)
	}
}

func (w *walker) addEdge(g *DependencyGraph, from, to string) {
	if from == to {
		return
	}
	if err := g.AddEdge(from, to); err != nil {
		w.opts.Logger.WithError(err).Debug("failed to record import edge")
	}
}

func (w *walker) isStyle(path string) bool {
	_, ok := langsupport.MatchExtension(path, w.opts.StyleExtensions)
	return ok
}

func (w *walker) isScript(path string) bool {
	_, ok := langsupport.MatchExtension(path, w.opts.ScriptExtensions)
	return ok
}
