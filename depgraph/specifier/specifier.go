package specifier

// Kind records the syntactic form a specifier was written in.
type Kind int

const (
	KindStatic Kind = iota
	KindExport
	KindDynamic
	KindRequire
	KindImportEquals
	KindStyleImport
	KindStyleUse
	KindStyleForward
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "import"
	case KindExport:
		return "export"
	case KindDynamic:
		return "dynamic-import"
	case KindRequire:
		return "require"
	case KindImportEquals:
		return "import-equals"
	case KindStyleImport:
		return "@import"
	case KindStyleUse:
		return "@use"
	case KindStyleForward:
		return "@forward"
	default:
		return "unknown"
	}
}

// Specifier is a dependency as written in source, after normalization.
type Specifier struct {
	// Raw is the literal text between the quotes.
	Raw string
	// Path is Raw with any fragment and query removed.
	Path string
	Kind Kind
	// AssertedStyle is set when the import carries a `type: "css"` attribute.
	AssertedStyle bool
	// Importer is the file the specifier was extracted from, when known.
	Importer string
}

// New normalizes raw and returns a Specifier. The second result is false when
// the specifier can never resolve to a file (external scheme, internal marker).
func New(raw string, kind Kind, assertedStyle bool, allowedSchemes ...string) (Specifier, bool) {
	path, ok := Normalize(raw, allowedSchemes...)
	if !ok {
		return Specifier{}, false
	}

	return Specifier{
		Raw:           raw,
		Path:          path,
		Kind:          kind,
		AssertedStyle: assertedStyle,
	}, true
}

// IsRelative reports whether spec is written relative to its importer.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." || hasPrefix(spec, "./") || hasPrefix(spec, "../")
}

// IsBare reports whether spec names a package, subpath import or mapped path
// rather than a file.
func IsBare(spec string) bool {
	return spec != "" && !IsRelative(spec) && spec[0] != '/' && !HasScheme(spec) && !isWindowsAbs(spec)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
