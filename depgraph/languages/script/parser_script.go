package script

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

// Strategy identifies which extraction pass produced a result.
type Strategy int

const (
	// StrategyGrammar is the grammar picked by file extension.
	StrategyGrammar Strategy = iota
	// StrategyPermissive is the tsx grammar, which accepts JSX and TypeScript together.
	StrategyPermissive
	// StrategyLexical is the token scanner used when no grammar parses cleanly.
	StrategyLexical
)

func (s Strategy) String() string {
	switch s {
	case StrategyGrammar:
		return "grammar"
	case StrategyPermissive:
		return "permissive"
	default:
		return "lexical"
	}
}

var (
	attributeClause = regexp.MustCompile(`^\s*(?:with|assert)\s*\{[^}]*\btype['"]?\s*:\s*['"]css['"]`)
	optionsClause   = regexp.MustCompile(`\b(?:with|assert)['"]?\s*:\s*\{[^}]*\btype['"]?\s*:\s*['"]css['"]`)
)

// ParseImports extracts the import specifiers of a script source file in
// document order. Malformed sources yield whatever the most permissive pass
// can recover, possibly nothing.
func ParseImports(sourceCode []byte, filePath string) []specifier.Specifier {
	specs, _ := Extract(sourceCode, filePath)
	return specs
}

// Extract is ParseImports that also reports the strategy that produced the result.
func Extract(sourceCode []byte, filePath string) ([]specifier.Specifier, Strategy) {
	if specs, err := parseWithGrammar(sourceCode, filePath, grammarForPath(filePath)); err == nil {
		return specs, StrategyGrammar
	}

	permissive := tsx.GetLanguage()
	if langsupport.HasSuffixFold(filePath, ".tsx") {
		permissive = javascript.GetLanguage()
	}
	if specs, err := parseWithGrammar(sourceCode, filePath, permissive); err == nil {
		return specs, StrategyPermissive
	}

	return ScanImports(sourceCode, filePath), StrategyLexical
}

func grammarForPath(filePath string) *sitter.Language {
	switch {
	case langsupport.HasSuffixFold(filePath, ".tsx"):
		return tsx.GetLanguage()
	case langsupport.HasSuffixFold(filePath, ".ts"),
		langsupport.HasSuffixFold(filePath, ".mts"),
		langsupport.HasSuffixFold(filePath, ".cts"):
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

func parseWithGrammar(sourceCode []byte, filePath string, lang *sitter.Language) ([]specifier.Specifier, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax errors in %s", filePath)
	}
	return extractImportsFromTree(root, sourceCode, filePath), nil
}

// extractImportsFromTree walks the AST once so specifiers come out in
// declaration order across statement kinds.
func extractImportsFromTree(rootNode *sitter.Node, sourceCode []byte, filePath string) []specifier.Specifier {
	var specs []specifier.Specifier
	add := func(raw string, kind specifier.Kind, asserted bool) {
		if spec, ok := specifier.New(raw, kind, asserted); ok {
			spec.Importer = filePath
			specs = append(specs, spec)
		}
	}

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		switch n.Type() {
		case "import_statement":
			if isTypeOnlyStatement(n) {
				return
			}
			if source := n.ChildByFieldName("source"); source != nil {
				add(stringValue(source, sourceCode), specifier.KindStatic, hasStyleAttribute(n, source, sourceCode))
				return
			}
			if source := importRequireSource(n); source != nil {
				add(stringValue(source, sourceCode), specifier.KindImportEquals, false)
				return
			}
		case "export_statement":
			if source := n.ChildByFieldName("source"); source != nil {
				if !isTypeOnlyStatement(n) {
					add(stringValue(source, sourceCode), specifier.KindExport, hasStyleAttribute(n, source, sourceCode))
				}
				return
			}
		case "call_expression":
			if raw, kind, asserted, ok := callSpecifier(n, sourceCode); ok {
				add(raw, kind, asserted)
			}
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(rootNode)
	return specs
}

// isTypeOnlyStatement reports `import type …` and `export type … from`.
// Per-binding `import { type A }` is not type-only for the whole statement.
func isTypeOnlyStatement(n *sitter.Node) bool {
	if n.ChildCount() < 3 {
		return false
	}
	second := n.Child(1)
	if second == nil || second.Type() != "type" {
		return false
	}
	// `import type from './x'` binds a default export named "type".
	third := n.Child(2)
	return third == nil || third.Type() != "from"
}

func importRequireSource(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause == nil || clause.Type() != "import_require_clause" {
			continue
		}
		if source := clause.ChildByFieldName("source"); source != nil {
			return source
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			if child := clause.NamedChild(j); child != nil && child.Type() == "string" {
				return child
			}
		}
	}
	return nil
}

func hasStyleAttribute(statement, source *sitter.Node, sourceCode []byte) bool {
	end := statement.EndByte()
	start := source.EndByte()
	if start >= end || int(end) > len(sourceCode) {
		return false
	}
	return attributeClause.Match(sourceCode[start:end])
}

// callSpecifier recognizes import('x'), require('x'), require?.('x') and
// require!('x') with a literal first argument.
func callSpecifier(n *sitter.Node, sourceCode []byte) (string, specifier.Kind, bool, bool) {
	function := unwrapCallee(n.ChildByFieldName("function"))
	if function == nil {
		return "", 0, false, false
	}

	var kind specifier.Kind
	switch {
	case function.Type() == "import":
		kind = specifier.KindDynamic
	case function.Type() == "identifier" && function.Content(sourceCode) == "require":
		kind = specifier.KindRequire
	default:
		return "", 0, false, false
	}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return "", 0, false, false
	}
	var operands []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		operands = append(operands, child)
	}
	if len(operands) == 0 {
		return "", 0, false, false
	}

	raw, ok := literalValue(operands[0], sourceCode)
	if !ok {
		return "", 0, false, false
	}

	asserted := false
	if kind == specifier.KindDynamic && len(operands) > 1 {
		asserted = optionsClause.MatchString(operands[1].Content(sourceCode))
	}
	return raw, kind, asserted, true
}

func unwrapCallee(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "non_null_expression", "parenthesized_expression":
			n = n.NamedChild(0)
		default:
			return n
		}
	}
	return nil
}

// literalValue accepts string literals and template literals without substitutions.
func literalValue(n *sitter.Node, sourceCode []byte) (string, bool) {
	switch n.Type() {
	case "string":
		return stringValue(n, sourceCode), true
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child != nil && child.Type() == "template_substitution" {
				return "", false
			}
		}
		return strings.Trim(n.Content(sourceCode), "`"), true
	default:
		return "", false
	}
}

func stringValue(n *sitter.Node, sourceCode []byte) string {
	return strings.TrimSpace(strings.Trim(n.Content(sourceCode), `'"`))
}
