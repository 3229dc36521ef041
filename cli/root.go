// Package cli implements the worklog command line.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/worklog-engine/stats"
	"github.com/warp/worklog-engine/worklog"
)

// App holds the stores and environment used by CLI commands.
type App struct {
	Sessions worklog.SessionStore
	Settings worklog.SettingsStore
	Now      func() time.Time
	Location *time.Location
	Labels   stats.Labels

	// Color forces styled output on or off. nil means detect from the output.
	Color *bool
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) clock() *worklog.ClockService {
	return worklog.NewClockService(a.Sessions)
}

// NewRootCmd creates the top-level "worklog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "worklog",
		Short:         "Clock in, clock out, and see what your overtime costs you",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newClockInCmd(app),
		newClockOutCmd(app),
		newToggleCmd(app),
		newStatusCmd(app),
		newStatsCmd(app),
		newSessionsCmd(app),
		newSettingsCmd(app),
		newCalcCmd(app),
	)

	return root
}
