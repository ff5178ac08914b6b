package depgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/stylegraph/depgraph"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
)

func TestNewFileDependencyGraph(t *testing.T) {
	graph := depgraph.MustDependencyGraph(map[string][]string{
		"/project/a.ts":          {"/project/b.ts", "/project/theme.css"},
		"/project/b.ts":          {"/project/a.ts", "/project/button.css.ts"},
		"/project/theme.css":     {},
		"/project/button.css.ts": {},
	})
	result := &depgraph.Result{
		Entry:  "/project/a.ts",
		Styles: []string{"/project/theme.css", "/project/button.css.ts"},
		Graph:  graph,
	}

	fileGraph, err := depgraph.NewFileDependencyGraph(result)
	require.NoError(t, err)

	entryMeta, ok := fileGraph.Meta.Files["/project/a.ts"]
	require.True(t, ok)
	assert.False(t, entryMeta.IsStyle)
	assert.Equal(t, ".ts", entryMeta.Extension)
	assert.Equal(t, 0, entryMeta.Order)

	themeMeta := fileGraph.Meta.Files["/project/theme.css"]
	assert.True(t, themeMeta.IsStyle)
	assert.Equal(t, langsupport.DialectCSS, themeMeta.Dialect)
	assert.Equal(t, 1, themeMeta.Order)

	buttonMeta := fileGraph.Meta.Files["/project/button.css.ts"]
	assert.Equal(t, ".css.ts", buttonMeta.Extension)
	assert.Equal(t, langsupport.DialectVanillaExtract, buttonMeta.Dialect)
	assert.Equal(t, 2, buttonMeta.Order)

	require.Len(t, fileGraph.Meta.Cycles, 1)
	assert.Equal(t, []string{"/project/a.ts", "/project/b.ts"}, fileGraph.Meta.Cycles[0].Path)

	assert.True(t, fileGraph.Meta.Edges[depgraph.FileEdge{From: "/project/a.ts", To: "/project/b.ts"}].InCycle)
	assert.True(t, fileGraph.Meta.Edges[depgraph.FileEdge{From: "/project/b.ts", To: "/project/a.ts"}].InCycle)
	assert.False(t, fileGraph.Meta.Edges[depgraph.FileEdge{From: "/project/a.ts", To: "/project/theme.css"}].InCycle)
}
