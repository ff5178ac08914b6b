package svelte

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

func TestParseImports_Basic(t *testing.T) {
	source := `
<script>
	import { onMount } from 'svelte';
	import './button.css';
	import Button from './components/Button.svelte';
</script>

<h1>Hello</h1>
`
	specs, err := ParseImports([]byte(source), "/app/App.svelte")

	require.NoError(t, err)
	assert.Equal(t, []string{"svelte", "./button.css", "./components/Button.svelte"}, extractPaths(specs))
	for _, spec := range specs {
		assert.Equal(t, "/app/App.svelte", spec.Importer)
	}
}

func TestParseImports_ModuleScriptComesFirst(t *testing.T) {
	source := `
<script context="module">
	import './module.css';
</script>

<script>
	import './instance.css';
</script>

<p>Content</p>
`
	specs, err := ParseImports([]byte(source), "/app/App.svelte")

	require.NoError(t, err)
	assert.Equal(t, []string{"./module.css", "./instance.css"}, extractPaths(specs))
}

func TestParseImports_TypeScriptBlock(t *testing.T) {
	source := `
<script lang="ts">
	import type { Theme } from './theme';
	import './typed.css';
	const theme = loadTheme()!;
</script>
`
	specs, err := ParseImports([]byte(source), "/app/App.svelte")

	require.NoError(t, err)
	assert.Equal(t, []string{"./typed.css"}, extractPaths(specs))
}

func TestParseImports_NoScript(t *testing.T) {
	source := `
<h1>Hello</h1>
<p>No script tag here</p>
`
	specs, err := ParseImports([]byte(source), "/app/App.svelte")

	require.NoError(t, err)
	assert.Empty(t, specs)
}

func extractPaths(specs []specifier.Specifier) []string {
	paths := make([]string, len(specs))
	for i, spec := range specs {
		paths[i] = spec.Path
	}
	return paths
}
