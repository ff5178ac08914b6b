package report

import (
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

// WriteText writes one "importer: cannot resolve 'spec'" line per entry.
func WriteText(w io.Writer, unresolved []depgraph.Unresolved, root string) error {
	for _, u := range unresolved {
		if _, err := fmt.Fprintf(w, "%s: cannot resolve %q\n", displayPath(u.Importer, root), u.Specifier); err != nil {
			return err
		}
	}
	return nil
}

// DisplayPath is the path shown to users for a file under root.
func DisplayPath(path, root string) string {
	return displayPath(path, root)
}
