package watch

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/cmd/walk"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
)

const defaultPort = 4900

type watchOptions struct {
	walk      walk.Flags
	port      int
	styleDeps bool
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		port: defaultPort,
	}

	cmd := &cobra.Command{
		Use:   "watch <entry>",
		Short: "Re-collect styles on every change and serve the list live",
		Long: `Watch the project root, re-walk the entry whenever a style, script or
resolution config file changes, and serve the ordered style list at localhost.

Resolutions are cached between walks and dropped after every change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args[0])
		},
	}

	opts.walk.Register(cmd)
	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")
	cmd.Flags().BoolVar(&opts.styleDeps, "style-deps", false, "Walk style imports from a style entry")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions, entryArg string) error {
	setup, err := opts.walk.Load(cmd)
	if err != nil {
		return err
	}
	entry, err := setup.Entry(entryArg)
	if err != nil {
		return err
	}

	rb, err := newRebuilder(setup, entry, opts.styleDeps)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	payload, err := rb.rebuild(ctx, false)
	if err != nil {
		return fmt.Errorf("initial walk failed: %w", err)
	}

	b := newBroker()
	b.publish(payload)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
	}
	srv := newServer(b, opts.port)
	go srv.Serve(ln)
	defer srv.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s from %s\n", setup.Root(), setup.Resolver.Display(entry))
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return watchAndRebuild(ctx, setup.Root(), watchedExtensions(setup), rb, b, setup.Options.Logger)
}

func watchedExtensions(setup walk.Setup) []string {
	styles := setup.Options.StyleExtensions
	if len(styles) == 0 {
		styles = langsupport.StyleExtensions()
	}
	scripts := setup.Options.ScriptExtensions
	if len(scripts) == 0 {
		scripts = langsupport.ScriptExtensions()
	}
	exts := append(append([]string{}, styles...), scripts...)
	return langsupport.NormalizeExtensions(exts)
}
