package script

import (
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

// ScanImports is a grammar-free extractor. It skips comments, strings and
// template literals and recognizes the same import forms as the tree-sitter
// pass. It is used when no grammar can parse the source cleanly.
func ScanImports(sourceCode []byte, filePath string) (specs []specifier.Specifier) {
	defer func() {
		if recover() != nil {
			specs = nil
		}
	}()

	s := &scanner{src: sourceCode}
	add := func(raw string, kind specifier.Kind, asserted bool) {
		if spec, ok := specifier.New(raw, kind, asserted); ok {
			spec.Importer = filePath
			specs = append(specs, spec)
		}
	}

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case c == '\'' || c == '"':
			s.readString()
		case c == '`':
			s.skipTemplate()
		case isIdentStart(c):
			start := s.pos
			word := s.readIdent()
			if start > 0 && s.src[start-1] == '.' {
				continue
			}
			switch word {
			case "import":
				s.scanImport(add)
			case "export":
				s.scanExport(add)
			case "require":
				if raw, ok := s.scanCallArgument(true); ok {
					add(raw, specifier.KindRequire, false)
				}
			}
		default:
			s.pos++
		}
	}
	return specs
}

type scanner struct {
	src []byte
	pos int
}

func (s *scanner) peek(offset int) byte {
	if s.pos+offset < len(s.src) {
		return s.src[s.pos+offset]
	}
	return 0
}

func (s *scanner) skipLineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() {
	s.pos += 2
	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.peek(1) == '/' {
			s.pos += 2
			return
		}
		s.pos++
	}
}

// skipSpace skips whitespace and comments.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

// readString consumes a quoted string and returns its unescaped-enough body.
func (s *scanner) readString() string {
	quote := s.src[s.pos]
	s.pos++
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		if c == quote {
			value := string(s.src[start:s.pos])
			s.pos++
			return value
		}
		if c == '\n' {
			break
		}
		s.pos++
	}
	return string(s.src[start:min(s.pos, len(s.src))])
}

// readTemplate consumes a template literal. ok is false when it contains
// a substitution.
func (s *scanner) readTemplate() (string, bool) {
	s.pos++
	start := s.pos
	plain := true
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\':
			s.pos += 2
		case c == '`':
			value := string(s.src[start:s.pos])
			s.pos++
			return value, plain
		case c == '$' && s.peek(1) == '{':
			plain = false
			s.pos += 2
			s.skipBalanced('{', '}', 1)
		default:
			s.pos++
		}
	}
	return "", false
}

func (s *scanner) skipTemplate() {
	s.readTemplate()
}

// skipBalanced advances past the closing delimiter matching an already
// consumed opener, skipping nested strings and templates.
func (s *scanner) skipBalanced(open, close byte, depth int) {
	for s.pos < len(s.src) && depth > 0 {
		c := s.src[s.pos]
		switch {
		case c == '\'' || c == '"':
			s.readString()
		case c == '`':
			s.skipTemplate()
		case c == '/' && (s.peek(1) == '/' || s.peek(1) == '*'):
			s.skipSpace()
		case c == open:
			depth++
			s.pos++
		case c == close:
			depth--
			s.pos++
		default:
			s.pos++
		}
	}
}

func (s *scanner) readIdent() string {
	start := s.pos
	for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// readLiteral reads a string or substitution-free template at the cursor.
func (s *scanner) readLiteral() (string, bool) {
	if s.pos >= len(s.src) {
		return "", false
	}
	switch s.src[s.pos] {
	case '\'', '"':
		return s.readString(), true
	case '`':
		return s.readTemplate()
	default:
		return "", false
	}
}

// scanCallArgument parses `(literal` after a callee, allowing the `?.` and
// `!` forms of require.
func (s *scanner) scanCallArgument(allowModifiers bool) (string, bool) {
	s.skipSpace()
	if allowModifiers {
		if s.peek(0) == '?' && s.peek(1) == '.' {
			s.pos += 2
			s.skipSpace()
		} else if s.peek(0) == '!' {
			s.pos++
			s.skipSpace()
		}
	}
	if s.peek(0) != '(' {
		return "", false
	}
	s.pos++
	s.skipSpace()
	raw, ok := s.readLiteral()
	if !ok {
		return "", false
	}
	s.skipSpace()
	if c := s.peek(0); c != ')' && c != ',' {
		return "", false
	}
	return raw, true
}

func (s *scanner) scanImport(add func(string, specifier.Kind, bool)) {
	s.skipSpace()
	switch s.peek(0) {
	case '(':
		raw, ok := s.scanCallArgument(false)
		if !ok {
			return
		}
		asserted := false
		if s.peek(0) == ',' {
			s.pos++
			optionsStart := s.pos
			s.skipBalanced('(', ')', 1)
			asserted = optionsClause.Match(s.src[optionsStart:s.pos])
		}
		add(raw, specifier.KindDynamic, asserted)
		return
	case '.':
		// import.meta
		return
	case '\'', '"':
		raw := s.readString()
		add(raw, specifier.KindStatic, s.hasAttributeClause())
		return
	}

	typeOnly := false
	first := true
	for s.pos < len(s.src) {
		s.skipSpace()
		c := s.peek(0)
		switch {
		case c == '{':
			s.pos++
			s.skipBalanced('{', '}', 1)
		case c == '*' || c == ',':
			s.pos++
		case c == '=':
			s.pos++
			s.skipSpace()
			if s.readIdent() != "require" {
				return
			}
			if raw, ok := s.scanCallArgument(false); ok && !typeOnly {
				add(raw, specifier.KindImportEquals, false)
			}
			return
		case isIdentStart(c):
			word := s.readIdent()
			if word == "from" {
				s.skipSpace()
				if c := s.peek(0); c == '\'' || c == '"' {
					raw := s.readString()
					if !typeOnly {
						add(raw, specifier.KindStatic, s.hasAttributeClause())
					}
				}
				return
			}
			if first && word == "type" {
				s.skipSpace()
				// `import type from './x'` binds a default export named type.
				next := s.peek(0)
				typeOnly = next == '{' || next == '*' || (isIdentStart(next) && !s.lookingAt("from"))
			}
		default:
			return
		}
		first = false
	}
}

func (s *scanner) scanExport(add func(string, specifier.Kind, bool)) {
	s.skipSpace()
	typeOnly := false
	if s.lookingAt("type") {
		save := s.pos
		s.readIdent()
		s.skipSpace()
		if c := s.peek(0); c == '{' || c == '*' {
			typeOnly = true
		} else {
			s.pos = save
		}
	}

	switch s.peek(0) {
	case '{':
		s.pos++
		s.skipBalanced('{', '}', 1)
	case '*':
		s.pos++
		s.skipSpace()
		if s.lookingAt("as") {
			s.readIdent()
			s.skipSpace()
			if c := s.peek(0); c == '\'' || c == '"' {
				s.readString()
			} else {
				s.readIdent()
			}
		}
	default:
		return
	}

	s.skipSpace()
	if !s.lookingAt("from") {
		return
	}
	s.readIdent()
	s.skipSpace()
	if c := s.peek(0); c != '\'' && c != '"' {
		return
	}
	raw := s.readString()
	if !typeOnly {
		add(raw, specifier.KindExport, s.hasAttributeClause())
	}
}

// hasAttributeClause checks for `with { type: "css" }` after a source
// string without consuming it.
func (s *scanner) hasAttributeClause() bool {
	end := s.pos
	for end < len(s.src) && s.src[end] != ';' && s.src[end] != '}' {
		end++
	}
	if end < len(s.src) && s.src[end] == '}' {
		end++
	}
	return attributeClause.Match(s.src[s.pos:end])
}

// lookingAt reports whether the next identifier-delimited text is word.
func (s *scanner) lookingAt(word string) bool {
	end := s.pos + len(word)
	if end > len(s.src) || string(s.src[s.pos:end]) != word {
		return false
	}
	return end == len(s.src) || !isIdentPart(s.src[end])
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
