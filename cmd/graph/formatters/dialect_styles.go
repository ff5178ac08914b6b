package formatters

import (
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
)

// DialectStyle is how nodes of one style dialect are painted.
type DialectStyle struct {
	// Color is a Graphviz color name.
	Color string
	// Class is the Mermaid class name.
	Class  string
	Fill   string
	Stroke string
}

// StyledDialects lists the dialects with their own node style, in legend order.
var StyledDialects = []langsupport.Dialect{
	langsupport.DialectCSS,
	langsupport.DialectSass,
	langsupport.DialectLess,
	langsupport.DialectVanillaExtract,
}

var dialectStyles = map[langsupport.Dialect]DialectStyle{
	langsupport.DialectCSS:            {Color: "lightblue", Class: "css", Fill: "#ADD8E6", Stroke: "#4682B4"},
	langsupport.DialectSass:           {Color: "lightpink", Class: "sass", Fill: "#FFB6C1", Stroke: "#C71585"},
	langsupport.DialectLess:           {Color: "lightyellow", Class: "less", Fill: "#FFFFE0", Stroke: "#BDB76B"},
	langsupport.DialectVanillaExtract: {Color: "lavender", Class: "vanillaExtract", Fill: "#E6E6FA", Stroke: "#9370DB"},
}

// StyleFor returns the node style of a file. Scripts, and styles of no known
// dialect, are plain white.
func StyleFor(meta depgraph.FileMetadata) (DialectStyle, bool) {
	if !meta.IsStyle {
		return DialectStyle{Color: "white"}, false
	}
	style, ok := dialectStyles[meta.Dialect]
	if !ok {
		return DialectStyle{Color: "white"}, false
	}
	return style, true
}
