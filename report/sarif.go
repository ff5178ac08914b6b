package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/LegacyCodeHQ/stylegraph/depgraph"
)

const (
	toolName          = "stylegraph"
	toolURI           = "https://github.com/LegacyCodeHQ/stylegraph"
	RuleUnresolved    = "unresolved-import"
	levelWarning      = "warning"
	ruleUnresolvedMsg = "Import specifier does not resolve to a file"
)

// SARIF builds a SARIF 2.1.0 report with one warning per unresolved
// specifier. Importer paths under root are reported relative to it.
func SARIF(unresolved []depgraph.Unresolved, root string) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create sarif report: %w", err)
	}

	informationURI := toolURI
	ruleText := ruleUnresolvedMsg
	run := &sarif.Run{
		Tool: sarif.Tool{
			Driver: &sarif.ToolComponent{
				Name:           toolName,
				InformationURI: &informationURI,
				Rules: []*sarif.ReportingDescriptor{
					{
						ID:               RuleUnresolved,
						ShortDescription: &sarif.MultiformatMessageString{Text: &ruleText},
					},
				},
			},
		},
		Results: []*sarif.Result{},
	}

	for _, u := range unresolved {
		ruleID := RuleUnresolved
		level := levelWarning
		msg := fmt.Sprintf("cannot resolve %q", u.Specifier)
		uri := filepath.ToSlash(displayPath(u.Importer, root))

		run.Results = append(run.Results, &sarif.Result{
			RuleID: &ruleID,
			Level:  &level,
			Message: sarif.Message{
				Text: &msg,
			},
			Locations: []*sarif.Location{
				{
					PhysicalLocation: &sarif.PhysicalLocation{
						ArtifactLocation: &sarif.ArtifactLocation{
							URI: &uri,
						},
					},
				},
			},
		})
	}

	report.AddRun(run)
	return report, nil
}

// WriteSARIF encodes the report for unresolved as indented JSON.
func WriteSARIF(w io.Writer, unresolved []depgraph.Unresolved, root string) error {
	report, err := SARIF(unresolved, root)
	if err != nil {
		return err
	}
	return report.PrettyWrite(w)
}

// displayPath returns path relative to root, slash-separated, when it lies
// inside root.
func displayPath(path, root string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
