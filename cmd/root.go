package cmd

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/cmd/check"
	"github.com/LegacyCodeHQ/stylegraph/cmd/collect"
	"github.com/LegacyCodeHQ/stylegraph/cmd/dialects"
	"github.com/LegacyCodeHQ/stylegraph/cmd/graph"
	"github.com/LegacyCodeHQ/stylegraph/cmd/walk"
	"github.com/LegacyCodeHQ/stylegraph/cmd/watch"
	"github.com/LegacyCodeHQ/stylegraph/cmd/why"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// devBuild is set via build-time ldflags
var devBuild = "false"

// NewRootCommand returns the stylegraph command with every subcommand
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stylegraph",
		Short: "Collect the stylesheets a JavaScript or TypeScript entry pulls in",
		Long: `Stylegraph walks the import graph of a script or style entry file and
collects every stylesheet it reaches, in the order a bundler would emit them.

Specifiers resolve through tsconfig path mappings, relative and root-anchored
paths, and package.json "exports" and "imports". Sass @use, @forward and
@import follow Sass load rules, including partials and pkg: URLs.

Use 'stylegraph --help' to see all available commands, or
'stylegraph <command> --help' for detailed information about a specific command.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(collect.NewCommand())
	rootCmd.AddCommand(graph.NewCommand())
	rootCmd.AddCommand(check.NewCommand())
	rootCmd.AddCommand(why.NewCommand())
	rootCmd.AddCommand(watch.NewCommand())
	rootCmd.AddCommand(dialects.NewCommand())

	// Initialize annotations for version template
	rootCmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().String(walk.LogLevelFlag, defaultLogLevel(devBuild),
		"Log level (panic, fatal, error, warn, info, debug, trace)")

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// isDevelopmentBuild reports whether the binary was built with devBuild=true.
func isDevelopmentBuild(flag string) bool {
	enabled, err := strconv.ParseBool(flag)
	return err == nil && enabled
}

func defaultLogLevel(devFlag string) string {
	if isDevelopmentBuild(devFlag) {
		return logrus.DebugLevel.String()
	}
	return logrus.WarnLevel.String()
}
