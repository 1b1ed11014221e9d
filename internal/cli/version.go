package cli

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/networkteam/shopcheck/internal/cli.Version=...".
var Version = ""

func versionDetails() map[string]string {
	details := map[string]string{
		"version":    Version,
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if details["version"] == "" {
			details["version"] = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				details["commit"] = s.Value
			}
		}
	}
	if details["version"] == "" {
		details["version"] = "(devel)"
	}
	return details
}

type versionCmd struct {
	gs     *globalState
	isJSON bool
}

func (c *versionCmd) run(_ *cobra.Command, _ []string) error {
	details := versionDetails()
	if !c.isJSON {
		printf(c.gs.stdout, "%s %s (%s, %s/%s)\n",
			bannerColor.Sprint("shopcheck"), details["version"], details["go_version"], details["go_os"], details["go_arch"])
		return nil
	}

	jsonDetails, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to produce JSON version details: %w", err)
	}
	_, err = fmt.Fprintln(c.gs.stdout, string(jsonDetails))
	return err
}

func getCmdVersion(gs *globalState) *cobra.Command {
	versionCmd := &versionCmd{gs: gs}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		Args:  cobra.NoArgs,
		RunE:  versionCmd.run,
	}
	cmd.Flags().BoolVar(&versionCmd.isJSON, "json", false, "if set, output version information will be in JSON format")
	return cmd
}
