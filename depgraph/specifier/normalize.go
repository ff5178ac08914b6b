package specifier

import (
	"net/url"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// Normalize strips the fragment and then the query from raw. It returns false
// for specifiers that cannot name a file on disk: anything with a scheme other
// than file: (plus allowedSchemes), protocol-relative URLs and \0 markers.
func Normalize(raw string, allowedSchemes ...string) (string, bool) {
	spec := strings.TrimSpace(raw)
	if spec == "" || spec[0] == 0 {
		return "", false
	}

	scheme := Scheme(spec)
	if scheme != "" && scheme != "file" && !contains(allowedSchemes, scheme) {
		return "", false
	}
	if strings.HasPrefix(spec, "//") {
		return "", false
	}

	spec = stripFragment(spec, scheme)
	if i := strings.IndexByte(spec, '?'); i >= 0 {
		spec = spec[:i]
	}

	if spec == "" || (scheme != "" && spec == scheme+":") {
		return "", false
	}
	return spec, true
}

// Scheme returns the lower-cased URL scheme of spec, or "" when spec has none.
// Windows drive letters are not schemes.
func Scheme(spec string) string {
	m := schemePattern.FindString(spec)
	if m == "" || isWindowsAbs(spec) {
		return ""
	}
	return strings.ToLower(m[:len(m)-1])
}

// HasScheme reports whether spec starts with a URL scheme.
func HasScheme(spec string) bool {
	return Scheme(spec) != ""
}

// stripFragment removes a trailing #fragment. A '#' directly at the start of
// the path (after an optional scheme) marks a subpath import and is kept.
func stripFragment(spec, scheme string) string {
	start := 0
	if scheme != "" {
		start = len(scheme) + 1
	}
	if start < len(spec) && spec[start] == '#' {
		start++
	}
	if i := strings.IndexByte(spec[start:], '#'); i >= 0 {
		return spec[:start+i]
	}
	return spec
}

// FileURLToPath converts a file: URL into a filesystem path.
func FileURLToPath(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Scheme, "file") {
		return "", false
	}

	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", false
	}
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), true
}

func isWindowsAbs(spec string) bool {
	if len(spec) < 3 || spec[1] != ':' {
		return false
	}
	c := spec[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && (spec[2] == '\\' || spec[2] == '/')
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
