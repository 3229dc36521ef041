package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/worklog-engine/worklog"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change salary and schedule",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Settings.Settings(context.Background())
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var salary, start, end, days string
	var reminder bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; omitted flags keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.Settings.Settings(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("salary") {
				s.AnnualSalary = strings.TrimSpace(salary)
			}
			if flags.Changed("start") {
				s.StartTime = strings.TrimSpace(start)
			}
			if flags.Changed("end") {
				s.EndTime = strings.TrimSpace(end)
			}
			if flags.Changed("days") {
				parsed, err := parseDays(days)
				if err != nil {
					return err
				}
				s.WorkingDays = parsed
			}
			if flags.Changed("reminder") {
				s.ReminderEnabled = reminder
			}

			if err := s.Validate(); err != nil {
				return err
			}
			if err := app.Settings.SaveSettings(ctx, s); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
			printSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().StringVar(&salary, "salary", "", "Annual salary, e.g. 260000")
	cmd.Flags().StringVar(&start, "start", "", "Standard start time, HH:MM")
	cmd.Flags().StringVar(&end, "end", "", "Standard end time, HH:MM")
	cmd.Flags().StringVar(&days, "days", "", "Working days, e.g. mon,tue,wed,thu,fri")
	cmd.Flags().BoolVar(&reminder, "reminder", false, "Enable the clock-in reminder")

	return cmd
}

// parseDays reads a comma separated weekday list; "" means no working days.
func parseDays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := worklog.ParseWeekday(part)
		if err != nil {
			return nil, &worklog.SettingsError{Field: "working_days", Value: part, Reason: "unknown weekday"}
		}
		days = append(days, d)
	}
	return worklog.NewWeekdaySet(days...).Days(), nil
}

func printSettings(out io.Writer, s worklog.Settings) {
	salary := s.AnnualSalary
	if salary == "" {
		salary = "(not set)"
	}
	names := make([]string, len(s.WorkingDays))
	for i, d := range s.WorkingDays {
		names[i] = d.String()[:3]
	}

	fmt.Fprintf(out, "Annual salary  %s\n", salary)
	fmt.Fprintf(out, "Standard hours %s-%s\n", s.StartTime, s.EndTime)
	fmt.Fprintf(out, "Working days   %s\n", strings.Join(names, ","))
	fmt.Fprintf(out, "Reminder       %t\n", s.ReminderEnabled)
}
