package depgraph

// Unresolved is a specifier that did not map to a file.
type Unresolved struct {
	Specifier string
	Importer  string
}

// Result is the outcome of one walk.
type Result struct {
	// Entry is the absolute entry path.
	Entry string
	// Styles are the collected style files in first-discovery order.
	Styles []string
	// Scripts are the traversed files in visit order, entry first.
	Scripts []string
	// Unresolved lists dropped specifiers in discovery order.
	Unresolved []Unresolved
	// Graph holds every import edge the walk followed.
	Graph *DependencyGraph
}
