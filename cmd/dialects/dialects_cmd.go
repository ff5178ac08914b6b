package dialects

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
)

// NewCommand returns a new dialects command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dialects",
		Aliases: []string{"languages"},
		Short:   "List supported style dialects, script languages and file extensions",
		Long: `List the style dialects that are collected and the script languages that
are walked, with their file extensions and support maturity.

Examples:
  stylegraph dialects`,
		Args: cobra.NoArgs,
		RunE: runDialects,
	}

	return cmd
}

func runDialects(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	languages := langsupport.Languages()

	if err := writeSection(out, "Styles", languages, langsupport.KindStyle); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := writeSection(out, "Scripts", languages, langsupport.KindScript); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}

	levels := []langsupport.MaturityLevel{
		langsupport.MaturityStable,
		langsupport.MaturityActivelyTested,
		langsupport.MaturityBasicTests,
		langsupport.MaturityUntested,
	}
	legend := make([]string, 0, len(levels))
	for _, level := range levels {
		legend = append(legend, fmt.Sprintf("%s %s", level.Symbol(), level.DisplayName()))
	}
	_, err := fmt.Fprintln(out, strings.Join(legend, "  "))
	return err
}

func writeSection(out io.Writer, title string, languages []langsupport.Language, kind langsupport.Kind) error {
	if _, err := fmt.Fprintln(out, title); err != nil {
		return err
	}
	for _, language := range languages {
		if language.Kind != kind {
			continue
		}
		if _, err := fmt.Fprintf(out, "  %s %s (%s)\n", language.Maturity.Symbol(), language.Name, strings.Join(language.Extensions, ", ")); err != nil {
			return err
		}
	}
	return nil
}
