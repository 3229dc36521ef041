package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/worklog-engine/stats"
)

func newStatsCmd(app *App) *cobra.Command {
	var period, unit string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show worked time, overtime and effective wage for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := stats.ParsePeriod(period)
			if err != nil {
				return err
			}
			u, err := stats.ParseUnit(unit)
			if err != nil {
				return err
			}

			ctx := context.Background()
			sessions, err := app.Sessions.All(ctx)
			if err != nil {
				return err
			}
			settings, err := app.Settings.Settings(ctx)
			if err != nil {
				return err
			}

			snap, err := stats.Derive(stats.Input{
				Sessions: sessions,
				Settings: settings,
				Request:  stats.Request{Period: p, Unit: u},
				Now:      app.now(),
				Location: app.location(),
				Labels:   app.Labels,
			})
			if err != nil {
				return err
			}

			printSnapshot(cmd.OutOrStdout(), newPalette(app, cmd.OutOrStdout()), snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", string(stats.PeriodWeek), "week, month or year")
	cmd.Flags().StringVar(&unit, "unit", string(stats.UnitHour), "hour or minute")

	return cmd
}

func printSnapshot(out io.Writer, p palette, snap *stats.Snapshot) {
	unit := unitSuffix(snap.Request.Unit)
	last := snap.PeriodEnd.AddDate(0, 0, -1)

	fmt.Fprintf(out, "%s  %s .. %s\n", p.header(strings.ToUpper(string(snap.Request.Period))),
		snap.PeriodStart.Format("2006-01-02"), last.Format("2006-01-02"))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\tregular\tovertime\n")
	for _, b := range snap.ChartSeries {
		if b.Regular == 0 && b.Overtime == 0 {
			continue
		}
		overtime := formatValue(b.Overtime)
		if b.Overtime > 0 {
			overtime = p.warn(overtime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Label, formatValue(b.Regular), overtime)
	}
	tw.Flush()

	fmt.Fprintf(out, "Worked    %s%s\n", formatValue(snap.TotalWorkedValue()), unit)
	fmt.Fprintf(out, "Overtime  %s%s\n", formatValue(snap.TotalOvertimeValue()), unit)
	fmt.Fprintf(out, "Workdays  %d × %s h\n", snap.StandardWorkdays, formatValue(snap.StandardWorkHoursPerDay))

	wageLine := fmt.Sprintf("Wage      %s / %s%s", money(snap.ActualWage), strings.TrimSpace(unit), standardNote(snap))
	if snap.IsWageStandard {
		fmt.Fprintln(out, p.ok(wageLine))
	} else {
		fmt.Fprintln(out, p.warn(wageLine))
	}
}

func standardNote(snap *stats.Snapshot) string {
	if snap.IsWageStandard {
		return " (standard)"
	}
	return fmt.Sprintf(" (standard %s, -%s%%)", money(snap.StandardWage),
		decimal.NewFromFloat(snap.WageDecreasePercent*100).Round(1).StringFixed(1))
}

func unitSuffix(u stats.Unit) string {
	if u == stats.UnitMinute {
		return " min"
	}
	return " h"
}

func formatValue(f float64) string {
	return decimal.NewFromFloat(f).Round(2).String()
}

func money(f float64) string {
	return decimal.NewFromFloat(f).Round(2).StringFixed(2)
}
