package mermaid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/stylegraph/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

// Formatter formats dependency graphs as Mermaid.js flowcharts.
type Formatter struct{}

// Format converts the dependency graph to Mermaid.js flowchart format.
func (f *Formatter) Format(g depgraph.FileDependencyGraph, opts formatters.RenderOptions) (string, error) {
	var sb strings.Builder

	// Add title if label provided
	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}

	sb.WriteString("flowchart LR\n")

	nodes := g.Graph.Nodes()
	names := formatters.BuildNodeNames(nodes)

	cycleNodes := make(map[string]bool)
	for i, cycle := range g.Meta.Cycles {
		if len(cycle.Path) == 0 {
			continue
		}
		parts := make([]string, 0, len(cycle.Path)+1)
		for _, node := range cycle.Path {
			parts = append(parts, names[node])
			cycleNodes[node] = true
		}
		parts = append(parts, names[cycle.Path[0]])
		sb.WriteString(fmt.Sprintf("%%%% C%d: %s\n", i+1, strings.Join(parts, " -> ")))
	}

	// Mermaid node IDs can't have dots or special characters.
	nodeIDs := make(map[string]string, len(nodes))
	for i, node := range nodes {
		nodeIDs[node] = fmt.Sprintf("n%d", i)
	}

	classMembers := make(map[string][]string)
	for _, node := range nodes {
		meta := g.Meta.Files[node]
		label := strings.ReplaceAll(formatters.NodeLabel(names[node], meta), "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeIDs[node], label))

		if style, ok := formatters.StyleFor(meta); ok {
			classMembers[style.Class] = append(classMembers[style.Class], nodeIDs[node])
		}
	}

	var edgesSB strings.Builder
	edgeIndex := 0
	var cycleEdgeIndices []int
	for _, node := range nodes {
		for _, dep := range g.Graph.Dependencies(node) {
			edgesSB.WriteString(fmt.Sprintf("    %s --> %s\n", nodeIDs[node], nodeIDs[dep]))
			if g.Meta.Edges[depgraph.FileEdge{From: node, To: dep}].InCycle {
				cycleEdgeIndices = append(cycleEdgeIndices, edgeIndex)
			}
			edgeIndex++
		}
	}

	// Mermaid uses classDef for styling and class for applying styles
	var stylesSB strings.Builder
	var classLines []string
	for _, dialect := range formatters.StyledDialects {
		style, _ := formatters.StyleFor(depgraph.FileMetadata{IsStyle: true, Dialect: dialect})
		members := classMembers[style.Class]
		if len(members) == 0 {
			continue
		}
		stylesSB.WriteString(fmt.Sprintf("    classDef %s fill:%s,stroke:%s,color:#000000\n", style.Class, style.Fill, style.Stroke))
		classLines = append(classLines, fmt.Sprintf("    class %s %s\n", strings.Join(members, ","), style.Class))
	}
	for _, line := range classLines {
		stylesSB.WriteString(line)
	}
	for _, node := range nodes {
		if cycleNodes[node] {
			stylesSB.WriteString(fmt.Sprintf("    style %s stroke:#d62728,stroke-width:3px\n", nodeIDs[node]))
		}
	}
	for _, idx := range cycleEdgeIndices {
		stylesSB.WriteString(fmt.Sprintf("    linkStyle %d stroke:#d62728,stroke-width:3px,stroke-dasharray: 5 5\n", idx))
	}

	if edgeIndex > 0 {
		sb.WriteString("\n")
		sb.WriteString(edgesSB.String())
	}
	if stylesSB.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(stylesSB.String())
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		// Fallback: just return the code URL-encoded
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
