package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

// SampleRoot is the project root of SampleGraph.
const SampleRoot = "/project"

// SampleGraph is a script walk touching every style dialect, with one
// import cycle between app.tsx and button.ts.
func SampleGraph(t *testing.T) depgraph.FileDependencyGraph {
	t.Helper()

	g := depgraph.NewDependencyGraph()
	edges := [][2]string{
		{"src/app.tsx", "src/reset.css"},
		{"src/app.tsx", "src/theme.scss"},
		{"src/app.tsx", "src/button.ts"},
		{"src/app.tsx", "src/legacy.less"},
		{"src/button.ts", "src/button.css.ts"},
		{"src/button.ts", "src/app.tsx"},
	}
	for _, edge := range edges {
		require.NoError(t, g.AddEdge(SampleRoot+"/"+edge[0], SampleRoot+"/"+edge[1]))
	}

	styles := []string{
		SampleRoot + "/src/reset.css",
		SampleRoot + "/src/theme.scss",
		SampleRoot + "/src/legacy.less",
		SampleRoot + "/src/button.css.ts",
	}
	fileGraph, err := depgraph.NewFileDependencyGraph(&depgraph.Result{
		Entry:   SampleRoot + "/src/app.tsx",
		Styles:  styles,
		Scripts: []string{SampleRoot + "/src/app.tsx", SampleRoot + "/src/button.ts"},
		Graph:   g,
	})
	require.NoError(t, err)
	return fileGraph
}

// FileGraph annotates an adjacency list whose style files are listed in
// styles, in collected order.
func FileGraph(t *testing.T, adjacency map[string][]string, styles ...string) depgraph.FileDependencyGraph {
	t.Helper()

	fileGraph, err := depgraph.NewFileDependencyGraph(&depgraph.Result{
		Styles: styles,
		Graph:  depgraph.MustDependencyGraph(adjacency),
	})
	require.NoError(t, err)
	return fileGraph
}
