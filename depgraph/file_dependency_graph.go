package depgraph

import (
	"path/filepath"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
)

// FileDependencyGraph wraps a dependency graph with file-level metadata.
type FileDependencyGraph struct {
	Graph *DependencyGraph
	Meta  FileGraphMetadata
}

// FileGraphMetadata contains metadata keyed by file and edge.
type FileGraphMetadata struct {
	Files  map[string]FileMetadata
	Edges  map[FileEdge]EdgeMetadata
	Cycles []FileCycle
}

// FileMetadata holds metadata for a single file node.
type FileMetadata struct {
	IsStyle   bool
	Dialect   langsupport.Dialect
	Extension string
	// Order is the 1-based position of a style in the collected output, or 0.
	Order int
}

// FileEdge identifies a directed edge between two files.
type FileEdge struct {
	From string
	To   string
}

// EdgeMetadata holds metadata for a graph edge.
type EdgeMetadata struct {
	InCycle bool
}

// FileCycle describes an import cycle by its members in discovery order.
type FileCycle struct {
	Path []string
}

// NewFileDependencyGraph annotates the graph of a walk result.
func NewFileDependencyGraph(result *Result) (FileDependencyGraph, error) {
	g := result.Graph
	if g == nil {
		g = NewDependencyGraph()
	}

	order := make(map[string]int, len(result.Styles))
	for i, style := range result.Styles {
		order[style] = i + 1
	}

	cycles, err := g.Cycles()
	if err != nil {
		return FileDependencyGraph{}, err
	}
	cycleOf := make(map[string]int)
	fileCycles := make([]FileCycle, 0, len(cycles))
	for i, cycle := range cycles {
		for _, node := range cycle {
			cycleOf[node] = i + 1
		}
		fileCycles = append(fileCycles, FileCycle{Path: cycle})
	}

	files := make(map[string]FileMetadata, len(g.nodes))
	edges := make(map[FileEdge]EdgeMetadata)
	for _, node := range g.nodes {
		_, isStyle := order[node]
		files[node] = FileMetadata{
			IsStyle:   isStyle,
			Dialect:   langsupport.DialectForPath(node),
			Extension: extensionOf(node),
			Order:     order[node],
		}
		for _, dep := range g.deps[node] {
			inCycle := cycleOf[node] != 0 && cycleOf[node] == cycleOf[dep]
			edges[FileEdge{From: node, To: dep}] = EdgeMetadata{InCycle: inCycle}
		}
	}

	return FileDependencyGraph{
		Graph: g,
		Meta: FileGraphMetadata{
			Files:  files,
			Edges:  edges,
			Cycles: fileCycles,
		},
	}, nil
}

// extensionOf returns the most specific known extension of path, so
// "button.css.ts" reports ".css.ts".
func extensionOf(path string) string {
	exts := append(langsupport.StyleExtensions(), langsupport.ScriptExtensions()...)
	if ext, ok := langsupport.MatchExtension(path, exts); ok {
		return ext
	}
	return filepath.Ext(filepath.Base(path))
}
