package style

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

// ParseImports returns the style-level import specifiers of sourceCode using
// the grammar of dialect. Vanilla-extract sources are leaves and yield nothing.
func ParseImports(sourceCode []byte, dialect langsupport.Dialect) []specifier.Specifier {
	switch dialect {
	case langsupport.DialectCSS:
		if specs, ok := parseCSS(sourceCode); ok {
			return specs
		}
		return ScanImports(sourceCode, dialect)
	case langsupport.DialectSass, langsupport.DialectLess:
		return ScanImports(sourceCode, dialect)
	default:
		return nil
	}
}

// parseCSS extracts @import targets with the tree-sitter CSS grammar. It
// reports false when the source has syntax errors.
func parseCSS(sourceCode []byte) ([]specifier.Specifier, bool) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(css.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, false
	}

	var specs []specifier.Specifier
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "import_statement" {
			if raw, ok := importTarget(n, sourceCode); ok {
				if spec, ok := specifier.New(raw, specifier.KindStyleImport, false); ok {
					specs = append(specs, spec)
				}
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return specs, true
}

// importTarget returns the first string_value or url() argument of an
// import_statement. Media queries and layer() after it are ignored.
func importTarget(n *sitter.Node, sourceCode []byte) (string, bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "string_value":
			return unquote(child.Content(sourceCode)), true
		case "call_expression":
			name := child.ChildByFieldName("function_name")
			if name == nil {
				name = firstNamedOfType(child, "function_name")
			}
			if name == nil || !strings.EqualFold(name.Content(sourceCode), "url") {
				continue
			}
			args := firstNamedOfType(child, "arguments")
			if args == nil || args.NamedChildCount() == 0 {
				continue
			}
			return unquote(args.NamedChild(0).Content(sourceCode)), true
		}
	}
	return "", false
}

func firstNamedOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil && child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func unquote(raw string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `'"`))
}
