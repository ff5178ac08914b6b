package depgraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// DependencyGraph is the directed import graph recorded by a walk. Vertices
// are absolute file paths and edges point from importer to dependency.
// Nodes and edges keep their discovery order.
type DependencyGraph struct {
	g     graphlib.Graph[string, string]
	nodes []string
	deps  map[string][]string
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		g:    graphlib.New(graphlib.StringHash, graphlib.Directed()),
		deps: make(map[string][]string),
	}
}

// MustDependencyGraph builds a graph from an adjacency list, visiting sources
// in sorted order. It panics on an invalid edge and is meant for tests.
func MustDependencyGraph(adjacency map[string][]string) *DependencyGraph {
	g := NewDependencyGraph()
	sources := make([]string, 0, len(adjacency))
	for source := range adjacency {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		g.AddNode(source)
		for _, dep := range adjacency[source] {
			if err := g.AddEdge(source, dep); err != nil {
				panic(err)
			}
		}
	}
	return g
}

// AddNode adds path if it is not already present.
func (d *DependencyGraph) AddNode(path string) {
	if _, ok := d.deps[path]; ok {
		return
	}
	d.deps[path] = []string{}
	d.nodes = append(d.nodes, path)
	_ = d.g.AddVertex(path)
}

// AddEdge records that from imports to, adding either node when missing.
// Repeated edges are ignored.
func (d *DependencyGraph) AddEdge(from, to string) error {
	d.AddNode(from)
	d.AddNode(to)
	if err := d.g.AddEdge(from, to); err != nil {
		if errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to add edge %s -> %s: %w", from, to, err)
	}
	d.deps[from] = append(d.deps[from], to)
	return nil
}

// HasNode reports whether path is in the graph.
func (d *DependencyGraph) HasNode(path string) bool {
	_, ok := d.deps[path]
	return ok
}

// Nodes returns every node in discovery order.
func (d *DependencyGraph) Nodes() []string {
	return append([]string(nil), d.nodes...)
}

// Dependencies returns the direct dependencies of path in import order.
func (d *DependencyGraph) Dependencies(path string) []string {
	return append([]string(nil), d.deps[path]...)
}

// Dependents returns the files that import path directly, in discovery order.
func (d *DependencyGraph) Dependents(path string) []string {
	var dependents []string
	for _, node := range d.nodes {
		for _, dep := range d.deps[node] {
			if dep == path {
				dependents = append(dependents, node)
				break
			}
		}
	}
	return dependents
}

// EdgeCount returns the number of distinct edges.
func (d *DependencyGraph) EdgeCount() int {
	count := 0
	for _, deps := range d.deps {
		count += len(deps)
	}
	return count
}

// AdjacencyList returns a copy of the graph as node -> ordered dependencies.
func (d *DependencyGraph) AdjacencyList() map[string][]string {
	adjacency := make(map[string][]string, len(d.deps))
	for node, deps := range d.deps {
		adjacency[node] = append([]string{}, deps...)
	}
	return adjacency
}

// Cycles returns the import cycles of the graph. Each cycle lists its members
// in discovery order; cycles are ordered by their first member.
func (d *DependencyGraph) Cycles() ([][]string, error) {
	components, err := graphlib.StronglyConnectedComponents(d.g)
	if err != nil {
		return nil, fmt.Errorf("failed to compute import cycles: %w", err)
	}

	position := make(map[string]int, len(d.nodes))
	for i, node := range d.nodes {
		position[node] = i
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		sort.Slice(component, func(i, j int) bool {
			return position[component[i]] < position[component[j]]
		})
		cycles = append(cycles, component)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return position[cycles[i][0]] < position[cycles[j][0]]
	})
	return cycles, nil
}
