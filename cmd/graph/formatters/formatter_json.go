package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

// JSONGraph is the JSON document written by JSONFormatter.
type JSONGraph struct {
	Label  string     `json:"label,omitempty"`
	Nodes  []JSONNode `json:"nodes"`
	Edges  []JSONEdge `json:"edges"`
	Cycles [][]string `json:"cycles"`
}

// JSONNode is one file of the graph.
type JSONNode struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Dialect string `json:"dialect,omitempty"`
	// Order is the 1-based position of a style in the collected output.
	Order int `json:"order,omitempty"`
}

// JSONEdge is one import.
type JSONEdge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	InCycle bool   `json:"inCycle,omitempty"`
}

// NewJSONGraph converts g to its JSON document, keeping discovery order.
func NewJSONGraph(g depgraph.FileDependencyGraph, opts RenderOptions) JSONGraph {
	nodes := g.Graph.Nodes()
	names := BuildNodeNames(nodes)
	doc := JSONGraph{
		Label:  opts.Label,
		Nodes:  make([]JSONNode, 0, len(nodes)),
		Edges:  []JSONEdge{},
		Cycles: make([][]string, 0, len(g.Meta.Cycles)),
	}

	for _, node := range nodes {
		meta := g.Meta.Files[node]
		jsonNode := JSONNode{
			Path: DisplayPath(node, opts.Root),
			Name: names[node],
			Kind: "script",
		}
		if meta.IsStyle {
			jsonNode.Kind = "style"
			jsonNode.Dialect = meta.Dialect.String()
			jsonNode.Order = meta.Order
		}
		doc.Nodes = append(doc.Nodes, jsonNode)

		for _, dep := range g.Graph.Dependencies(node) {
			doc.Edges = append(doc.Edges, JSONEdge{
				From:    DisplayPath(node, opts.Root),
				To:      DisplayPath(dep, opts.Root),
				InCycle: g.Meta.Edges[depgraph.FileEdge{From: node, To: dep}].InCycle,
			})
		}
	}

	for _, cycle := range g.Meta.Cycles {
		members := make([]string, 0, len(cycle.Path))
		for _, member := range cycle.Path {
			members = append(members, DisplayPath(member, opts.Root))
		}
		doc.Cycles = append(doc.Cycles, members)
	}
	return doc
}

// JSONFormatter formats dependency graphs as JSON.
type JSONFormatter struct{}

// Format converts the dependency graph to JSON format.
func (f *JSONFormatter) Format(g depgraph.FileDependencyGraph, opts RenderOptions) (string, error) {
	data, err := json.MarshalIndent(NewJSONGraph(g, opts), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GenerateURL returns false as JSON format does not support URL generation.
func (f *JSONFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}
