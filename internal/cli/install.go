package cli

import (
	"github.com/spf13/cobra"

	"github.com/networkteam/shopcheck/config"
)

func getCmdInstall(gs *globalState) *cobra.Command {
	flags := config.NewFlags()
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the browser and driver binaries",
		Long: `Install the browser and driver binaries needed by the configured engine.

  Playwright downloads its driver and the selected browser, rod downloads Chromium.
  Configuration is read like in a test run: config file, SHOPCHECK_* variables, flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Consolidate(config.Sources{
				Fs:     gs.fs,
				Flags:  flags,
				Lookup: gs.lookup,
				Logger: gs.logger,
			})
			if err != nil {
				return err
			}
			if err := gs.install(conf.BrowserOptions(), gs.logger); err != nil {
				return err
			}
			printf(gs.stdout, "Installed %s for %s\n", conf.Browser.String, conf.Engine.String)
			return nil
		},
	}
	cmd.Flags().AddFlagSet(flags.FlagSet())
	return cmd
}
