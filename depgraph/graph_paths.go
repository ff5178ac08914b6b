package depgraph

// FindPathNodes returns the subgraph of every node lying on a directed path
// between any pair of target files, in either direction. Targets missing from
// the graph are skipped.
func FindPathNodes(graph *DependencyGraph, targetFiles []string) *DependencyGraph {
	var validTargets []string
	for _, f := range targetFiles {
		if graph.HasNode(f) {
			validTargets = append(validTargets, f)
		}
	}

	nodesToKeep := make(map[string]bool)
	for _, f := range validTargets {
		nodesToKeep[f] = true
	}

	if len(validTargets) >= 2 {
		forward, reverse := buildAdjacencyLists(graph)
		for i := 0; i < len(validTargets); i++ {
			for j := i + 1; j < len(validTargets); j++ {
				for node := range findDirectedPathNodes(forward, reverse, validTargets[i], validTargets[j]) {
					nodesToKeep[node] = true
				}
				for node := range findDirectedPathNodes(forward, reverse, validTargets[j], validTargets[i]) {
					nodesToKeep[node] = true
				}
			}
		}
	}

	return extractSubgraph(graph, nodesToKeep)
}

// ImportChain returns the shortest import chain from one file to another,
// both ends included. Among chains of equal length the one through earlier
// imports wins.
func ImportChain(graph *DependencyGraph, from, to string) ([]string, bool) {
	if !graph.HasNode(from) || !graph.HasNode(to) {
		return nil, false
	}

	predecessor := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			break
		}
		for _, dep := range graph.deps[current] {
			if _, seen := predecessor[dep]; !seen {
				predecessor[dep] = current
				queue = append(queue, dep)
			}
		}
	}

	if _, reached := predecessor[to]; !reached {
		return nil, false
	}
	var chain []string
	for node := to; node != ""; node = predecessor[node] {
		chain = append([]string{node}, chain...)
		if node == from {
			break
		}
	}
	return chain, true
}

// buildAdjacencyLists creates forward and reverse adjacency lists.
// Forward: A→B means forward[A] contains B
// Reverse: A→B means reverse[B] contains A
func buildAdjacencyLists(graph *DependencyGraph) (forward, reverse map[string][]string) {
	forward = make(map[string][]string)
	reverse = make(map[string][]string)

	for _, node := range graph.nodes {
		forward[node] = []string{}
		reverse[node] = []string{}
	}
	for _, node := range graph.nodes {
		for _, dep := range graph.deps[node] {
			forward[node] = append(forward[node], dep)
			reverse[dep] = append(reverse[dep], node)
		}
	}

	return forward, reverse
}

// findDirectedPathNodes finds all nodes on any directed path from source to
// target: reachable from source and able to reach target.
func findDirectedPathNodes(forward, reverse map[string][]string, source, target string) map[string]bool {
	result := make(map[string]bool)

	reachableFromSource := bfsReachable(forward, source)
	canReachTarget := bfsReachable(reverse, target)

	if !reachableFromSource[target] {
		return result
	}
	for node := range reachableFromSource {
		if canReachTarget[node] {
			result[node] = true
		}
	}

	return result
}

func bfsReachable(adjacency map[string][]string, source string) map[string]bool {
	reachable := make(map[string]bool)
	reachable[source] = true

	queue := []string{source}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range adjacency[current] {
			if !reachable[neighbor] {
				reachable[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return reachable
}

// extractSubgraph keeps the given nodes, in the original discovery order, and
// the edges whose endpoints are both kept.
func extractSubgraph(original *DependencyGraph, nodesToKeep map[string]bool) *DependencyGraph {
	result := NewDependencyGraph()

	for _, node := range original.nodes {
		if !nodesToKeep[node] {
			continue
		}
		result.AddNode(node)
	}
	for _, node := range original.nodes {
		if !nodesToKeep[node] {
			continue
		}
		for _, dep := range original.deps[node] {
			if nodesToKeep[dep] {
				_ = result.AddEdge(node, dep)
			}
		}
	}

	return result
}
