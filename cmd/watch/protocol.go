package watch

import (
	"time"

	"github.com/LegacyCodeHQ/stylegraph/cmd/graph/formatters"
)

const (
	routeIndex  = "/"
	routeEvents = "/events"
	routeLatest = "/styles.json"
)

const sseEventStyles = "styles"

// stylesSnapshot is one walk result as streamed to the viewer.
type stylesSnapshot struct {
	ID         int64                `json:"id"`
	Timestamp  time.Time            `json:"timestamp"`
	Entry      string               `json:"entry"`
	Styles     []string             `json:"styles"`
	Unresolved []unresolvedImport   `json:"unresolved"`
	Graph      formatters.JSONGraph `json:"graph"`
}

type unresolvedImport struct {
	Specifier string `json:"specifier"`
	Importer  string `json:"importer"`
}
