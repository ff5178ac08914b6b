package why

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/cmd/graph"
	"github.com/LegacyCodeHQ/stylegraph/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/stylegraph/cmd/walk"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

const (
	formatText    = "text"
	formatJSON    = "json"
	formatDOT     = "dot"
	formatMermaid = "mermaid"
)

type whyOptions struct {
	walk         walk.Flags
	outputFormat string
	styleDeps    bool
}

// explanation is why one file is part of a walk.
type explanation struct {
	Target string   `json:"target"`
	Chain  []string `json:"chain"`
	// Order is the 1-based position of a style in the collected output.
	Order       int      `json:"order,omitempty"`
	StyleCount  int      `json:"styleCount"`
	ImportedBy  []string `json:"importedBy"`
	IsCollected bool     `json:"isCollected"`
}

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "why <entry> <file>",
		Short: "Show the import chain that pulls a file into an entry's walk.",
		Long: `Show the shortest import chain from an entry file to another file, the
files importing it directly and, for styles, its position in the collected
style list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0], args[1])
		},
	}

	opts.walk.Register(cmd)
	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", supportedFormats()))
	cmd.Flags().BoolVar(&opts.styleDeps, "style-deps", false, "Walk style imports from a style entry")

	return cmd
}

func supportedFormats() string {
	return strings.Join([]string{formatText, formatJSON, formatDOT, formatMermaid}, ", ")
}

func isSupportedFormat(format string) bool {
	switch format {
	case formatText, formatJSON, formatDOT, formatMermaid:
		return true
	default:
		return false
	}
}

func runWhy(cmd *cobra.Command, opts *whyOptions, entryArg, targetArg string) error {
	if !isSupportedFormat(opts.outputFormat) {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, supportedFormats())
	}

	setup, err := opts.walk.Load(cmd)
	if err != nil {
		return err
	}
	entry, err := setup.Entry(entryArg)
	if err != nil {
		return err
	}
	target, err := setup.Entry(targetArg)
	if err != nil {
		return err
	}

	result, err := setup.Walk(cmd.Context(), entry, opts.styleDeps)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", entryArg, err)
	}

	chain, ok := depgraph.ImportChain(result.Graph, entry, target)
	if !ok {
		return fmt.Errorf("%s is not reachable from %s", targetArg, entryArg)
	}

	switch opts.outputFormat {
	case formatDOT, formatMermaid:
		output, err := renderChain(setup, result, chain, opts.outputFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	}

	exp := explain(setup, result, chain)
	if opts.outputFormat == formatJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(exp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatTextOutput(exp))
	return nil
}

func explain(setup walk.Setup, result *depgraph.Result, chain []string) explanation {
	target := chain[len(chain)-1]
	exp := explanation{
		Target:     setup.Resolver.Display(target),
		Chain:      make([]string, 0, len(chain)),
		StyleCount: len(result.Styles),
		ImportedBy: []string{},
	}
	for _, node := range chain {
		exp.Chain = append(exp.Chain, setup.Resolver.Display(node))
	}
	for _, dependent := range result.Graph.Dependents(target) {
		exp.ImportedBy = append(exp.ImportedBy, setup.Resolver.Display(dependent))
	}
	for i, style := range result.Styles {
		if style == target {
			exp.IsCollected = true
			exp.Order = i + 1
			break
		}
	}
	return exp
}

func formatTextOutput(exp explanation) string {
	var lines []string
	if exp.IsCollected {
		lines = append(lines, fmt.Sprintf("%s is style %d of %d, reached through:", exp.Target, exp.Order, exp.StyleCount))
	} else {
		lines = append(lines, fmt.Sprintf("%s is reached through:", exp.Target))
	}
	for i, node := range exp.Chain {
		if i == 0 {
			lines = append(lines, "  "+node)
			continue
		}
		lines = append(lines, "  -> "+node)
	}
	if len(exp.ImportedBy) > 0 {
		lines = append(lines, fmt.Sprintf("Imported directly by: %s", strings.Join(exp.ImportedBy, ", ")))
	}
	return strings.Join(lines, "\n")
}

// renderChain draws the chain alone with the graph formatters, keeping each
// style's position from the full walk.
func renderChain(setup walk.Setup, result *depgraph.Result, chain []string, format string) (string, error) {
	chainGraph := depgraph.NewDependencyGraph()
	chainGraph.AddNode(chain[0])
	for i := 1; i < len(chain); i++ {
		if err := chainGraph.AddEdge(chain[i-1], chain[i]); err != nil {
			return "", err
		}
	}

	fileGraph, err := depgraph.NewFileDependencyGraph(&depgraph.Result{
		Entry:  result.Entry,
		Styles: result.Styles,
		Graph:  chainGraph,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build file graph metadata: %w", err)
	}

	formatter, err := graph.NewFormatter(format)
	if err != nil {
		return "", err
	}
	return formatter.Format(fileGraph, formatters.RenderOptions{Root: setup.Root()})
}
