package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/worklog-engine/worklog"
)

func newClockInCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "in",
		Short: "Clock in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClock(cmd, app, app.clock().ClockIn)
		},
	}
}

func newClockOutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "out",
		Short: "Clock out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClock(cmd, app, app.clock().ClockOut)
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Clock in if idle, otherwise clock out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClock(cmd, app, app.clock().Toggle)
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you are clocked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.clock().Status(context.Background(), app.now())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), newPalette(app, cmd.OutOrStdout()), app, st)
			return nil
		},
	}
}

func runClock(cmd *cobra.Command, app *App, action func(context.Context, time.Time) (worklog.Session, error)) error {
	out := cmd.OutOrStdout()
	p := newPalette(app, out)

	s, err := action(context.Background(), app.now())
	if err != nil {
		return err
	}

	at := s.StartTime
	verb := "Clocked in"
	if !s.IsOpen() {
		at = *s.EndTime
		verb = "Clocked out"
	}
	fmt.Fprintf(out, "%s at %s\n", p.header(verb), at.In(app.location()).Format("2006-01-02 15:04:05"))
	if !s.IsOpen() {
		fmt.Fprintf(out, "Session %s worked %s\n", p.dim(string(s.ID)), worklog.FormatTimer(s.Duration()))
	}
	return nil
}

func printStatus(out io.Writer, p palette, app *App, st worklog.Status) {
	if !st.Working {
		fmt.Fprintln(out, p.dim("Not clocked in"))
		if st.Latest != nil && st.Latest.EndTime != nil {
			fmt.Fprintf(out, "Last clocked out %s\n", st.Latest.EndTime.In(app.location()).Format("2006-01-02 15:04"))
		}
		return
	}
	fmt.Fprintf(out, "%s since %s  %s\n",
		p.ok("Working"),
		st.Latest.StartTime.In(app.location()).Format("15:04"),
		p.header(st.Timer),
	)
}
