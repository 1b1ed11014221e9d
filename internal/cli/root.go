// Package cli implements the shopcheck command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/networkteam/shopcheck/browser"
)

var bannerColor = color.New(color.FgCyan, color.Bold)

// globalState is shared by all commands. Tests replace its fields.
type globalState struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
	lookup func(string) (string, bool)

	install func(browser.Options, *slog.Logger) error

	verbose bool
	noColor bool
	logger  *slog.Logger
}

func newGlobalState(ctx context.Context) *globalState {
	return &globalState{
		ctx:     ctx,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		fs:      afero.NewOsFs(),
		lookup:  os.LookupEnv,
		install: browser.Install,
	}
}

func newRootCommand(gs *globalState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shopcheck",
		Short:         "Browser tests for e-commerce storefronts",
		Long:          bannerColor.Sprint("shopcheck") + " drives storefront scenarios in a real browser and reports failures.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if gs.verbose {
				level = slog.LevelDebug
			}
			if gs.noColor {
				color.NoColor = true
			}
			gs.logger = slog.New(slog.NewTextHandler(gs.stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	cmd.SetOut(gs.stdout)
	cmd.SetErr(gs.stderr)
	cmd.PersistentFlags().BoolVarP(&gs.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&gs.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		getCmdInstall(gs),
		getCmdDemo(gs),
		getCmdReport(gs),
		getCmdVersion(gs),
	)
	return cmd
}

// Execute runs the command line and exits with a non-zero code on errors.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gs := newGlobalState(ctx)
	root := newRootCommand(gs)
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(gs.stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
