package style

import (
	"strings"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/specifier"
)

// ScanImports extracts at-rule imports with a hand-written scanner:
//
//	css:  @import 'x';  @import url('x') screen;
//	less: @import (reference) 'x';
//	sass: @use 'x' as y;  @forward 'x' show z;  @import 'a', 'b';
func ScanImports(sourceCode []byte, dialect langsupport.Dialect) (specs []specifier.Specifier) {
	defer func() {
		if recover() != nil {
			specs = nil
		}
	}()

	s := &scanner{src: sourceCode, lineComments: dialect == langsupport.DialectSass || dialect == langsupport.DialectLess}
	var allowed []string
	if dialect == langsupport.DialectSass {
		allowed = []string{"pkg"}
	}
	add := func(raw string, kind specifier.Kind) {
		if spec, ok := specifier.New(raw, kind, false, allowed...); ok {
			specs = append(specs, spec)
		}
	}

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case c == '/' && s.peek(1) == '/' && s.lineComments:
			s.skipLineComment()
		case c == '\'' || c == '"':
			s.readString()
		case c == '@':
			s.pos++
			switch strings.ToLower(s.readIdent()) {
			case "import":
				s.scanImport(dialect, add)
			case "use":
				if dialect == langsupport.DialectSass {
					s.scanModuleRule(specifier.KindStyleUse, add)
				}
			case "forward":
				if dialect == langsupport.DialectSass {
					s.scanModuleRule(specifier.KindStyleForward, add)
				}
			}
		default:
			s.pos++
		}
	}
	return specs
}

type scanner struct {
	src          []byte
	pos          int
	lineComments bool
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

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			s.pos++
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case c == '/' && s.peek(1) == '/' && s.lineComments:
			s.skipLineComment()
		default:
			return
		}
	}
}

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

func (s *scanner) readIdent() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			s.pos++
			continue
		}
		break
	}
	return string(s.src[start:s.pos])
}

// readURL reads the body of url(...) after the opening parenthesis.
func (s *scanner) readURL() (string, bool) {
	s.skipSpace()
	if c := s.peek(0); c == '\'' || c == '"' {
		value := s.readString()
		s.skipSpace()
		if s.peek(0) == ')' {
			s.pos++
		}
		return value, true
	}
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != ')' && s.src[s.pos] != '\n' {
		s.pos++
	}
	value := strings.TrimSpace(string(s.src[start:s.pos]))
	if s.peek(0) == ')' {
		s.pos++
	}
	return value, value != ""
}

// readUnquoted reads an indented-syntax Sass import target up to a
// separator.
func (s *scanner) readUnquoted() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ',' || c == ';' || c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			break
		}
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// readTarget reads one import target: a string, url(...) or, for Sass, an
// unquoted path.
func (s *scanner) readTarget(dialect langsupport.Dialect) (string, bool) {
	c := s.peek(0)
	switch {
	case c == '\'' || c == '"':
		return s.readString(), true
	case strings.EqualFold(string(s.src[s.pos:min(s.pos+4, len(s.src))]), "url("):
		s.pos += 4
		return s.readURL()
	case dialect == langsupport.DialectSass && c != 0 && c != ';' && c != '{' && c != '(' && c != '\n':
		value := s.readUnquoted()
		return value, value != ""
	default:
		return "", false
	}
}

func (s *scanner) scanImport(dialect langsupport.Dialect, add func(string, specifier.Kind)) {
	s.skipSpace()
	if dialect == langsupport.DialectLess && s.peek(0) == '(' {
		s.pos++
		for s.pos < len(s.src) && s.src[s.pos] != ')' {
			s.pos++
		}
		s.pos++
		s.skipSpace()
	}

	for {
		raw, ok := s.readTarget(dialect)
		if !ok {
			return
		}
		add(raw, specifier.KindStyleImport)
		if dialect != langsupport.DialectSass {
			return
		}
		s.skipBlanks()
		if s.peek(0) != ',' {
			return
		}
		s.pos++
		s.skipSpace()
	}
}

// skipBlanks skips spaces and tabs only. A newline ends an indented Sass
// statement.
func (s *scanner) skipBlanks() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) scanModuleRule(kind specifier.Kind, add func(string, specifier.Kind)) {
	s.skipSpace()
	if c := s.peek(0); c != '\'' && c != '"' {
		return
	}
	add(s.readString(), kind)
}
