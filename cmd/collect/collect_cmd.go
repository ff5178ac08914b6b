package collect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/cmd/walk"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/resolve"
	"github.com/LegacyCodeHQ/stylegraph/stylesheet"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type collectOptions struct {
	walk         walk.Flags
	outputFormat string
	styleDeps    bool
	absolute     bool
	concat       string
}

type collectOutput struct {
	Entry      string           `json:"entry"`
	Styles     []string         `json:"styles"`
	Scripts    []string         `json:"scripts"`
	Unresolved []unresolvedJSON `json:"unresolved"`
}

type unresolvedJSON struct {
	Specifier string `json:"specifier"`
	Importer  string `json:"importer"`
}

// NewCommand returns a new collect command instance.
func NewCommand() *cobra.Command {
	opts := &collectOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "collect <entry>",
		Short: "List the styles reachable from an entry file, in load order.",
		Long: `List the styles reachable from an entry file, in load order.

Each style appears once, at the position it was first discovered. Scripts are
walked breadth-first; styles are collected but not walked unless --style-deps
is given with a style entry.

Examples:
  stylegraph collect src/main.tsx
  stylegraph collect src/main.tsx -f json
  stylegraph collect src/theme.scss --style-deps
  stylegraph collect src/main.tsx --concat dist/bundle.css`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, opts, args[0])
		},
	}

	opts.walk.Register(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s, %s)", formatText, formatJSON))
	cmd.Flags().BoolVar(&opts.styleDeps, "style-deps", false, "Walk style imports from a style entry")
	cmd.Flags().BoolVar(&opts.absolute, "absolute", false, "Print absolute paths")
	cmd.Flags().StringVar(&opts.concat, "concat", "", "Write the concatenated stylesheet to this file (- for stdout)")

	return cmd
}

func runCollect(cmd *cobra.Command, opts *collectOptions, entryArg string) error {
	if opts.outputFormat != formatText && opts.outputFormat != formatJSON {
		return fmt.Errorf("unknown format: %s (valid options: %s, %s)", opts.outputFormat, formatText, formatJSON)
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

	if len(result.Unresolved) > 0 {
		warn := color.New(color.FgYellow)
		_, _ = warn.Fprintf(cmd.ErrOrStderr(), "Warning: %d unresolved import(s); run 'stylegraph check %s' for details\n",
			len(result.Unresolved), entryArg)
	}

	if opts.concat != "" {
		return writeConcat(cmd, setup, result, opts.concat)
	}

	display := func(path string) string {
		if opts.absolute {
			return path
		}
		return setup.Resolver.Display(path)
	}

	if opts.outputFormat == formatJSON {
		return writeJSON(cmd.OutOrStdout(), result, display)
	}
	for _, style := range result.Styles {
		fmt.Fprintln(cmd.OutOrStdout(), display(style))
	}
	return nil
}

func writeJSON(w io.Writer, result *depgraph.Result, display func(string) string) error {
	out := collectOutput{
		Entry:      display(result.Entry),
		Styles:     make([]string, 0, len(result.Styles)),
		Scripts:    make([]string, 0, len(result.Scripts)),
		Unresolved: make([]unresolvedJSON, 0, len(result.Unresolved)),
	}
	for _, style := range result.Styles {
		out.Styles = append(out.Styles, display(style))
	}
	for _, script := range result.Scripts {
		out.Scripts = append(out.Scripts, display(script))
	}
	for _, u := range result.Unresolved {
		out.Unresolved = append(out.Unresolved, unresolvedJSON{Specifier: u.Specifier, Importer: display(u.Importer)})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func writeConcat(cmd *cobra.Command, setup walk.Setup, result *depgraph.Result, target string) error {
	compilers := stylesheet.DefaultCompilers(resolve.OSFileSystem{})
	if setup.Config != nil {
		configured, err := setup.Config.StyleCompilers(resolve.OSFileSystem{})
		if err != nil {
			return err
		}
		compilers = configured
	}

	builder := stylesheet.Builder{
		Compilers:   compilers,
		BannerRoot:  setup.Root(),
		Concurrency: setup.Options.Concurrency,
	}
	css, err := builder.Build(cmd.Context(), result.Styles)
	if err != nil {
		return fmt.Errorf("failed to build stylesheet: %w", err)
	}

	if target == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), css)
		return err
	}
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(setup.Root(), path)
	}
	if err := os.WriteFile(path, []byte(css), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d style(s) to %s\n", len(result.Styles), setup.Resolver.Display(path))
	return nil
}
