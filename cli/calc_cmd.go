package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/worklog-engine/calculator"
)

func newCalcCmd(app *App) *cobra.Command {
	var in calculator.Input

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Estimate a yearly pre-tax compensation package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := calculator.Compute(in)

			out := cmd.OutOrStdout()
			p := newPalette(app, out)
			fmt.Fprintf(out, "%s %s %s\n", p.header("Total package"), res.Total.StringFixed(0), p.dim(calculator.FormatWan(res.Total)))
			fmt.Fprintf(out, "  cash          %s\n", res.Cash.StringFixed(2))
			fmt.Fprintf(out, "  stock / year  %s\n", res.AnnualStockValue.StringFixed(2))
			fmt.Fprintf(out, "  per month     %s\n", res.MonthlyEquivalent.StringFixed(2))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.MonthlySalary, "monthly", "", "Monthly base salary")
	f.StringVar(&in.PayMonths, "months", "", "Pay months per year (default 12)")
	f.StringVar(&in.AnnualBonus, "bonus", "", "Annual bonus")
	f.StringVar(&in.StockQuantity, "stock-qty", "", "Granted shares")
	f.StringVar(&in.StockPrice, "stock-price", "", "Share price")
	f.StringVar(&in.VestingYears, "vesting", "", "Vesting years (default 1)")
	f.StringVar(&in.OtherCash, "cash", "", "Other yearly cash")

	return cmd
}
