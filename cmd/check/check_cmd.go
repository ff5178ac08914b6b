package check

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/cmd/walk"
	"github.com/LegacyCodeHQ/stylegraph/report"
)

const (
	formatText  = "text"
	formatSARIF = "sarif"
)

// ErrUnresolvedImports is returned in strict mode when any import could not
// be resolved.
var ErrUnresolvedImports = errors.New("unresolved imports")

type checkOptions struct {
	walk         walk.Flags
	outputFormat string
	styleDeps    bool
	strict       bool
}

// NewCommand returns a new check command instance.
func NewCommand() *cobra.Command {
	opts := &checkOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "check <entry>",
		Short: "Report imports that could not be resolved.",
		Long: `Walk from an entry file and report every import specifier that could not
be resolved to a file. Builtin modules are never reported.

Examples:
  stylegraph check src/main.tsx
  stylegraph check src/main.tsx -f sarif > stylegraph.sarif
  stylegraph check src/main.tsx --strict       # exit non-zero on findings`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0])
		},
	}

	opts.walk.Register(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s, %s)", formatText, formatSARIF))
	cmd.Flags().BoolVar(&opts.styleDeps, "style-deps", false, "Walk style imports from a style entry")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with an error when any import is unresolved")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions, entryArg string) error {
	if opts.outputFormat != formatText && opts.outputFormat != formatSARIF {
		return fmt.Errorf("unknown format: %s (valid options: %s, %s)", opts.outputFormat, formatText, formatSARIF)
	}

	setup, err := opts.walk.Load(cmd)
	if err != nil {
		return err
	}
	entry, err := setup.Entry(entryArg)
	if err != nil {
		return err
	}

	result, err := setup.Walk(cmd.Context(), entry, opts.styleDeps)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", entryArg, err)
	}

	switch opts.outputFormat {
	case formatSARIF:
		if err := report.WriteSARIF(cmd.OutOrStdout(), result.Unresolved, setup.Root()); err != nil {
			return fmt.Errorf("failed to write SARIF report: %w", err)
		}
	default:
		if len(result.Unresolved) == 0 {
			_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "No unresolved imports.")
			break
		}
		if err := report.WriteText(cmd.OutOrStdout(), result.Unresolved, setup.Root()); err != nil {
			return err
		}
	}

	if opts.strict && len(result.Unresolved) > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%w: %d in %s", ErrUnresolvedImports, len(result.Unresolved), entryArg)
	}
	return nil
}
