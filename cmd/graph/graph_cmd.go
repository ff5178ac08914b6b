package graph

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/stylegraph/cmd/walk"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

type graphOptions struct {
	walk         walk.Flags
	outputFormat string
	styleDeps    bool
	generateURL  bool
	betweenFiles []string
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		outputFormat: formatters.OutputFormatDOT.String(),
	}

	cmd := &cobra.Command{
		Use:   "graph <entry>",
		Short: "Render the import graph walked from an entry file.",
		Long: `Render the import graph walked from an entry file.

Style nodes are numbered by their position in the collected style list and
colored by dialect. Import cycles are highlighted.

Examples:
  stylegraph graph src/main.tsx                       # DOT graph
  stylegraph graph src/main.tsx -f mermaid -u         # mermaid.live URL
  stylegraph graph src/theme.scss --style-deps        # style-level graph
  stylegraph graph src/main.tsx -w src/main.tsx,src/ui/button.css`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts, args[0])
		},
	}

	opts.walk.Register(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().BoolVar(&opts.styleDeps, "style-deps", false, "Walk style imports from a style entry")
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Generate visualization URL (supported formats: dot, mermaid)")
	cmd.Flags().StringSliceVarP(&opts.betweenFiles, "between", "w", nil, "Keep only files on import paths between these files (comma-separated)")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions, entryArg string) error {
	formatter, err := NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	setup, err := opts.walk.Load(cmd)
	if err != nil {
		return err
	}
	entry, err := setup.Entry(entryArg)
	if err != nil {
		return err
	}

	result, err := setup.Walk(cmd.Context(), entry, opts.styleDeps)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", entryArg, err)
	}

	if len(opts.betweenFiles) > 0 {
		result, err = keepPathsBetween(setup, result, opts.betweenFiles)
		if err != nil {
			return err
		}
	}

	fileGraph, err := depgraph.NewFileDependencyGraph(result)
	if err != nil {
		return fmt.Errorf("failed to build file graph metadata: %w", err)
	}

	renderOpts := formatters.RenderOptions{
		Label: buildLabel(setup, result),
		Root:  setup.Root(),
	}
	output, err := formatter.Format(fileGraph, renderOpts)
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}

	if opts.generateURL {
		if urlStr, ok := formatter.GenerateURL(output); ok {
			fmt.Fprintln(cmd.OutOrStdout(), urlStr)
			return nil
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: URL generation is not supported for %s format\n\n", opts.outputFormat)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// keepPathsBetween narrows result to the files lying on import paths between
// the given files. Styles keep their collected order.
func keepPathsBetween(setup walk.Setup, result *depgraph.Result, files []string) (*depgraph.Result, error) {
	var resolved, missing []string
	for _, file := range files {
		path, err := setup.Entry(file)
		if err != nil || !result.Graph.HasNode(path) {
			missing = append(missing, file)
			continue
		}
		resolved = append(resolved, path)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("files not found in graph: %v", missing)
	}
	if len(resolved) < 2 {
		return nil, fmt.Errorf("at least 2 files required for --between, found %d in graph", len(resolved))
	}

	subgraph := depgraph.FindPathNodes(result.Graph, resolved)
	filtered := &depgraph.Result{Entry: result.Entry, Graph: subgraph}
	for _, style := range result.Styles {
		if subgraph.HasNode(style) {
			filtered.Styles = append(filtered.Styles, style)
		}
	}
	for _, script := range result.Scripts {
		if subgraph.HasNode(script) {
			filtered.Scripts = append(filtered.Scripts, script)
		}
	}
	return filtered, nil
}

func buildLabel(setup walk.Setup, result *depgraph.Result) string {
	label := fmt.Sprintf("%s • %s", filepath.Base(setup.Root()), setup.Resolver.Display(result.Entry))
	if len(result.Styles) == 1 {
		return label + " • 1 style"
	}
	return label + fmt.Sprintf(" • %d styles", len(result.Styles))
}
