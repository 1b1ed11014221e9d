package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/networkteam/shopcheck/artifact"
	"github.com/networkteam/shopcheck/config"
	"github.com/networkteam/shopcheck/report"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
	dimColor  = color.New(color.Faint)
)

type reportCmd struct {
	gs    *globalState
	flags *config.Flags
}

func (c *reportCmd) run(cmd *cobra.Command, _ []string) error {
	conf, err := config.Consolidate(config.Sources{
		Fs:     c.gs.fs,
		Flags:  c.flags,
		Lookup: c.gs.lookup,
		Logger: c.gs.logger,
	})
	if err != nil {
		return err
	}
	dir := conf.ReportsDir.String
	store := artifact.NewStore(afero.NewBasePathFs(c.gs.fs, dir), dir)

	r, err := report.Build(store)
	if err != nil {
		return err
	}
	if len(r.Entries) == 0 {
		_, _ = okColor.Fprintf(c.gs.stdout, "No failures recorded in %s\n", dir)
		return nil
	}

	for _, e := range r.Entries {
		printf(c.gs.stdout, "%s %s %s\n", failColor.Sprint("FAIL"), e.Test(), dimColor.Sprint(e.Time.Format("2006-01-02 15:04:05")))
		if e.Diagnostics != nil && e.Diagnostics.URL != "" {
			printf(c.gs.stdout, "     %s\n", e.Diagnostics.URL)
		}
		if e.Err != "" {
			printf(c.gs.stdout, "     %s\n", dimColor.Sprint(e.Err))
		}
	}
	s := r.Summary()
	printf(c.gs.stdout, "\n%d failures, %d screenshots, %d console errors, %d failed responses\n",
		s.Failures, s.Screenshots, s.ConsoleErrors, s.FailedResponses)

	location, err := report.Save(cmd.Context(), store, r)
	if err != nil {
		return err
	}
	printf(c.gs.stdout, "Report written to %s\n", bannerColor.Sprint(location))
	return nil
}

func getCmdReport(gs *globalState) *cobra.Command {
	c := &reportCmd{gs: gs, flags: config.NewFlags()}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize failures and render the HTML report",
		Long: `Summarize the failures of the last test runs and render report.html.

  Screenshots and diagnostics are read from the reports directory.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	set := c.flags.FlagSet()
	cmd.Flags().AddFlag(set.Lookup("config"))
	cmd.Flags().AddFlag(set.Lookup("reports"))
	return cmd
}
