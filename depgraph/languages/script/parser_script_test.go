package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

func TestParseImports_StaticForms(t *testing.T) {
	source := `
import React from 'react';
import { Button } from './components/Button';
import './global.css';
export { theme } from './theme';
export * from './tokens';
`
	specs := ParseImports([]byte(source), "/app/entry.ts")

	assert.Equal(t, []string{"react", "./components/Button", "./global.css", "./theme", "./tokens"}, extractPaths(specs))
	assert.Equal(t, specifier.KindStatic, specs[0].Kind)
	assert.Equal(t, specifier.KindExport, specs[3].Kind)
	assert.Equal(t, specifier.KindExport, specs[4].Kind)
	assert.Equal(t, "/app/entry.ts", specs[0].Importer)
}

func TestParseImports_DynamicAndRequire(t *testing.T) {
	source := "const a = import('./lazy.css');\n" +
		"const b = import(`./template.css`);\n" +
		"const c = import(`./${name}.css`);\n" +
		"const d = require('./legacy.css');\n" +
		"const e = require(name);\n"

	specs := ParseImports([]byte(source), "/app/entry.js")

	assert.Equal(t, []string{"./lazy.css", "./template.css", "./legacy.css"}, extractPaths(specs))
	assert.Equal(t, specifier.KindDynamic, specs[0].Kind)
	assert.Equal(t, specifier.KindDynamic, specs[1].Kind)
	assert.Equal(t, specifier.KindRequire, specs[2].Kind)
}

func TestParseImports_RequireVariants(t *testing.T) {
	source := `
const a = require?.('./optional.css');
const b = require!('./asserted.css');
`
	specs := ParseImports([]byte(source), "/app/entry.ts")

	assert.Equal(t, []string{"./optional.css", "./asserted.css"}, extractPaths(specs))
	for _, spec := range specs {
		assert.Equal(t, specifier.KindRequire, spec.Kind)
	}
}

func TestParseImports_ImportEqualsRequire(t *testing.T) {
	source := `import styles = require('./styles.css');`

	specs := ParseImports([]byte(source), "/app/entry.ts")

	require.Len(t, specs, 1)
	assert.Equal(t, "./styles.css", specs[0].Path)
	assert.Equal(t, specifier.KindImportEquals, specs[0].Kind)
}

func TestParseImports_ImportAttributes(t *testing.T) {
	source := `
import sheet from './theme' with { type: 'css' };
import legacy from './legacy' assert { type: "css" };
import data from './data.json' with { type: 'json' };
const lazy = import('./lazy', { with: { type: 'css' } });
import quoted from './quoted' with { "type": "css" };
import single from './single' with { 'type': 'css' };
`
	specs := ParseImports([]byte(source), "/app/entry.js")

	require.Len(t, specs, 6)
	assert.True(t, specs[0].AssertedStyle)
	assert.True(t, specs[1].AssertedStyle)
	assert.False(t, specs[2].AssertedStyle)
	assert.True(t, specs[3].AssertedStyle)
	assert.True(t, specs[4].AssertedStyle)
	assert.True(t, specs[5].AssertedStyle)
}

func TestParseImports_NormalizesAndDropsSchemes(t *testing.T) {
	source := `
import './button.css?inline';
import './icons.css#sprite';
import 'https://cdn.example.com/reset.css';
import 'data:text/css,body{}';
import '#ui/button.js';
`
	specs := ParseImports([]byte(source), "/app/entry.ts")

	assert.Equal(t, []string{"./button.css", "./icons.css", "#ui/button.js"}, extractPaths(specs))
	assert.Equal(t, "./button.css?inline", specs[0].Raw)
}

func TestParseImports_SkipsTypeOnlyStatements(t *testing.T) {
	source := `
import type { Theme } from './theme';
export type { Tokens } from './tokens';
import { type Mixin, apply } from './mixins';
`
	specs := ParseImports([]byte(source), "/app/entry.ts")

	assert.Equal(t, []string{"./mixins"}, extractPaths(specs))
}

func TestParseImports_DocumentOrderAcrossForms(t *testing.T) {
	source := `
const first = require('./first.css');
import './second.css';
export * from './third';
function load() { return import('./fourth.css'); }
`
	specs := ParseImports([]byte(source), "/app/entry.js")

	assert.Equal(t, []string{"./first.css", "./second.css", "./third", "./fourth.css"}, extractPaths(specs))
}

func TestExtract_JSXInJSFileUsesGrammarOrFallback(t *testing.T) {
	source := `
import './card.css';
import { Header } from './Header';

export function Card() {
  return <div className="card"><Header /></div>;
}
`
	specs, _ := Extract([]byte(source), "/app/Card.js")

	assert.Equal(t, []string{"./card.css", "./Header"}, extractPaths(specs))
}

func TestExtract_TSXSyntaxInTSFileFallsBack(t *testing.T) {
	source := `
import './panel.css';
const view = <div className="panel">hello</div>;
`
	specs, strategy := Extract([]byte(source), "/app/panel.ts")

	assert.NotEqual(t, StrategyGrammar, strategy)
	assert.Equal(t, []string{"./panel.css"}, extractPaths(specs))
}

func TestExtract_GarbageYieldsLexicalResult(t *testing.T) {
	source := `
import './survivor.css';
@@@ this is not { valid ((( code
const x = require('./also.css');
`
	specs, strategy := Extract([]byte(source), "/app/broken.ts")

	assert.Equal(t, StrategyLexical, strategy)
	assert.Equal(t, []string{"./survivor.css", "./also.css"}, extractPaths(specs))
}

func TestParseImports_Empty(t *testing.T) {
	assert.Empty(t, ParseImports(nil, "/app/empty.ts"))
	assert.Empty(t, ParseImports([]byte("const x = 1;"), "/app/plain.js"))
}

func extractPaths(specs []specifier.Specifier) []string {
	paths := make([]string, 0, len(specs))
	for _, spec := range specs {
		paths = append(paths, spec.Path)
	}
	return paths
}
