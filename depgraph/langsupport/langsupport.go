package langsupport

import (
	"sort"
	"strings"
)

// Dialect is the closed set of style grammars. Each dialect has exactly one
// import grammar and one set of resolution conventions.
type Dialect int

const (
	DialectNone Dialect = iota
	DialectCSS
	DialectSass
	DialectLess
	// DialectVanillaExtract sources are compiled as a unit and never walked
	// for nested style imports.
	DialectVanillaExtract
)

func (d Dialect) String() string {
	switch d {
	case DialectCSS:
		return "css"
	case DialectSass:
		return "sass"
	case DialectLess:
		return "less"
	case DialectVanillaExtract:
		return "vanilla-extract"
	default:
		return "none"
	}
}

// Kind separates traversable script languages from terminal style languages.
type Kind int

const (
	KindScript Kind = iota
	KindStyle
)

// Language describes one supported source language.
type Language struct {
	Name       string
	Kind       Kind
	Dialect    Dialect
	Extensions []string
	Maturity   MaturityLevel
}

// languages is the single source of truth for supported languages.
var languages = []Language{
	{Name: "TypeScript", Kind: KindScript, Extensions: []string{".ts", ".tsx", ".mts", ".cts"}, Maturity: MaturityActivelyTested},
	{Name: "JavaScript", Kind: KindScript, Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, Maturity: MaturityActivelyTested},
	{Name: "Svelte", Kind: KindScript, Extensions: []string{".svelte"}, Maturity: MaturityBasicTests},
	{Name: "CSS", Kind: KindStyle, Dialect: DialectCSS, Extensions: []string{".css"}, Maturity: MaturityActivelyTested},
	{Name: "Sass", Kind: KindStyle, Dialect: DialectSass, Extensions: []string{".scss", ".sass"}, Maturity: MaturityActivelyTested},
	{Name: "Less", Kind: KindStyle, Dialect: DialectLess, Extensions: []string{".less"}, Maturity: MaturityBasicTests},
	{Name: "vanilla-extract", Kind: KindStyle, Dialect: DialectVanillaExtract, Extensions: []string{".css.ts", ".css.js"}, Maturity: MaturityBasicTests},
}

// Languages returns supported languages in deterministic order.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// ScriptExtensions returns every extension of a script language.
func ScriptExtensions() []string {
	return extensionsOfKind(KindScript)
}

// StyleExtensions returns every extension of a style language, most specific first.
func StyleExtensions() []string {
	return SortBySpecificity(extensionsOfKind(KindStyle))
}

func extensionsOfKind(kind Kind) []string {
	var exts []string
	for _, language := range languages {
		if language.Kind == kind {
			exts = append(exts, language.Extensions...)
		}
	}
	return exts
}

// DialectForPath returns the style dialect of path using the most specific
// matching extension, so "button.css.ts" is vanilla-extract, not TypeScript.
func DialectForPath(path string) Dialect {
	best := ""
	dialect := DialectNone
	for _, language := range languages {
		if language.Kind != KindStyle {
			continue
		}
		for _, ext := range language.Extensions {
			if len(ext) > len(best) && HasSuffixFold(path, ext) {
				best = ext
				dialect = language.Dialect
			}
		}
	}
	return dialect
}

// MatchExtension returns the longest extension in exts that path ends with,
// compared case-insensitively.
func MatchExtension(path string, exts []string) (string, bool) {
	best := ""
	for _, ext := range exts {
		if len(ext) > len(best) && HasSuffixFold(path, ext) {
			best = ext
		}
	}
	return best, best != ""
}

// HasSuffixFold is strings.HasSuffix with ASCII case folding.
func HasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// NormalizeExtensions lower-cases exts, adds a missing leading dot, drops
// duplicates and orders the result most specific first.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool, len(exts))
	result := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		result = append(result, ext)
	}
	return SortBySpecificity(result)
}

// SortBySpecificity orders extensions longest first, keeping the given order
// between extensions of equal length.
func SortBySpecificity(exts []string) []string {
	sorted := append([]string(nil), exts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return sorted
}
