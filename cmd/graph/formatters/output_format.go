package formatters

import "strings"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatMermaid OutputFormat = "mermaid"
)

var outputFormats = []OutputFormat{OutputFormatDOT, OutputFormatJSON, OutputFormatMermaid}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat matches name case-insensitively against the known formats.
func ParseOutputFormat(name string) (OutputFormat, bool) {
	for _, format := range outputFormats {
		if strings.EqualFold(strings.TrimSpace(name), format.String()) {
			return format, true
		}
	}
	return "", false
}

// SupportedFormats lists the known formats for help and error text.
func SupportedFormats() string {
	names := make([]string, 0, len(outputFormats))
	for _, format := range outputFormats {
		names = append(names, format.String())
	}
	return strings.Join(names, ", ")
}
