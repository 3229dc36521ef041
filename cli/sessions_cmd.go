package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/worklog-engine/worklog"
)

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and edit recorded sessions",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsNoteCmd(app),
		newSessionsHolidayCmd(app),
		newSessionsDeleteCmd(app),
		newSessionsCleanupCmd(app),
	)

	return cmd
}

func newSessionsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Sessions.Recent(context.Background(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := newPalette(app, out)
			if len(sessions) == 0 {
				fmt.Fprintln(out, p.dim("No sessions recorded."))
				return nil
			}

			loc := app.location()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tIN\tOUT\tWORKED\tNOTE")
			for _, s := range sessions {
				end, worked := "…", p.ok("running")
				if !s.IsOpen() {
					end = s.EndTime.In(loc).Format("15:04")
					worked = worklog.FormatTimer(s.Duration())
				}
				note := s.Note
				if s.IsHoliday {
					note = strings.TrimSpace(p.warn("[holiday]") + " " + note)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.StartTime.In(loc).Format("2006-01-02"), s.StartTime.In(loc).Format("15:04"),
					end, worked, note)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to show (0 for all)")

	return cmd
}

func newSessionsNoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Set a session's note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.clock().UpdateNote(context.Background(), worklog.SessionID(args[0]), strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note on %s\n", s.ID)
			return nil
		},
	}
}

func newSessionsHolidayCmd(app *App) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "holiday <id>",
		Short: "Mark a session as worked on a statutory holiday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.clock().SetHoliday(context.Background(), worklog.SessionID(args[0]), !off)
			if err != nil {
				return err
			}
			state := "marked as holiday"
			if !s.IsHoliday {
				state = "no longer a holiday"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s %s\n", s.ID, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Clear the holiday flag instead")

	return cmd
}

func newSessionsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id := worklog.SessionID(args[0])
			if _, err := app.Sessions.Get(ctx, id); err != nil {
				return err
			}
			if err := app.Sessions.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func newSessionsCleanupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete sessions dated before 2000 (corrupt clock data)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.clock().CleanupInvalid(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d invalid session(s)\n", n)
			return nil
		},
	}
}
