package svelte

import (
	"context"
	"fmt"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/svelte"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/languages/script"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

var typeScriptLang = regexp.MustCompile(`\blang\s*=\s*["']?(?:ts|typescript)\b`)

// ParseImports parses a Svelte component and returns the import specifiers
// of its <script> blocks in document order.
func ParseImports(sourceCode []byte, filePath string) ([]specifier.Specifier, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(svelte.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Svelte code: %w", err)
	}
	defer tree.Close()

	var specs []specifier.Specifier
	for _, block := range extractScriptBlocks(tree.RootNode(), sourceCode) {
		// The script grammar is picked from the block's lang attribute.
		virtualPath := filePath + ".js"
		if block.typeScript {
			virtualPath = filePath + ".ts"
		}
		for _, spec := range script.ParseImports(block.content, virtualPath) {
			spec.Importer = filePath
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

type scriptBlock struct {
	content    []byte
	typeScript bool
}

// extractScriptBlocks walks the Svelte AST and returns every <script> element.
func extractScriptBlocks(rootNode *sitter.Node, sourceCode []byte) []scriptBlock {
	var blocks []scriptBlock

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		if n.Type() == "script_element" {
			block := scriptBlock{}
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				if child == nil {
					continue
				}
				switch child.Type() {
				case "start_tag":
					block.typeScript = typeScriptLang.MatchString(child.Content(sourceCode))
				case "raw_text":
					block.content = []byte(child.Content(sourceCode))
				}
			}
			if block.content != nil {
				blocks = append(blocks, block)
			}
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(rootNode)
	return blocks
}
