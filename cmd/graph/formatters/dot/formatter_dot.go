package dot

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/stylegraph/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

// Formatter formats dependency graphs as Graphviz DOT.
type Formatter struct{}

// Format converts the dependency graph to Graphviz DOT format. Nodes and
// edges keep discovery order; styles are numbered by collected position and
// filled by dialect.
func (f *Formatter) Format(g depgraph.FileDependencyGraph, opts formatters.RenderOptions) (string, error) {
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	// Add label if provided
	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}

	nodes := g.Graph.Nodes()
	names := formatters.BuildNodeNames(nodes)

	if len(g.Meta.Cycles) > 0 {
		sb.WriteString("\n")
		for i, cycle := range g.Meta.Cycles {
			if len(cycle.Path) == 0 {
				continue
			}
			parts := make([]string, 0, len(cycle.Path)+1)
			for _, node := range cycle.Path {
				parts = append(parts, names[node])
			}
			parts = append(parts, names[cycle.Path[0]])
			sb.WriteString(fmt.Sprintf("  // C%d: %s\n", i+1, strings.Join(parts, " -> ")))
		}
	}

	if len(nodes) > 0 {
		sb.WriteString("\n")
	}
	for _, node := range nodes {
		meta := g.Meta.Files[node]
		style, _ := formatters.StyleFor(meta)
		label := formatters.NodeLabel(names[node], meta)
		sb.WriteString(fmt.Sprintf("  %q [label=%q, style=filled, fillcolor=%s];\n", names[node], label, style.Color))
	}

	if g.Graph.EdgeCount() > 0 {
		sb.WriteString("\n")
	}
	for _, node := range nodes {
		for _, dep := range g.Graph.Dependencies(node) {
			if g.Meta.Edges[depgraph.FileEdge{From: node, To: dep}].InCycle {
				sb.WriteString(fmt.Sprintf("  %q -> %q [color=red, style=dashed];\n", names[node], names[dep]))
				continue
			}
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", names[node], names[dep]))
		}
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}
