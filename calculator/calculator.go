// Package calculator estimates a yearly pre-tax compensation package.
//
// All arithmetic is decimal. Inputs are the raw strings a user typed; a blank
// or unparseable field reads as zero, except pay months (blank means 12) and
// vesting years (blank, unparseable or non-positive means 1).
package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPayMonths is the number of monthly payslips per year when unspecified.
const DefaultPayMonths = 12

var tenThousand = decimal.NewFromInt(10000)

// Input holds the user-entered fields.
type Input struct {
	MonthlySalary string `json:"monthly_salary"`
	PayMonths     string `json:"pay_months"`
	AnnualBonus   string `json:"annual_bonus"`
	StockQuantity string `json:"stock_quantity"`
	StockPrice    string `json:"stock_price"`
	VestingYears  string `json:"vesting_years"`
	OtherCash     string `json:"other_cash"`
}

// Result is the computed package.
type Result struct {
	Cash              decimal.Decimal // monthly × months + bonus + other cash
	StockGrantValue   decimal.Decimal // quantity × price
	AnnualStockValue  decimal.Decimal // grant value spread over vesting years
	Total             decimal.Decimal
	MonthlyEquivalent decimal.Decimal // Total / 12
}

// Compute evaluates
//
//	total = monthly × months + bonus + (quantity × price / vesting) + cash
func Compute(in Input) Result {
	monthly := parse(in.MonthlySalary)
	months := parseOr(in.PayMonths, decimal.NewFromInt(DefaultPayMonths))
	bonus := parse(in.AnnualBonus)
	cash := parse(in.OtherCash)

	vesting := parse(in.VestingYears)
	if !vesting.IsPositive() {
		vesting = decimal.NewFromInt(1)
	}

	grant := parse(in.StockQuantity).Mul(parse(in.StockPrice))
	annualStock := grant.Div(vesting)
	cashTotal := monthly.Mul(months).Add(bonus).Add(cash)
	total := cashTotal.Add(annualStock)

	return Result{
		Cash:              cashTotal,
		StockGrantValue:   grant,
		AnnualStockValue:  annualStock,
		Total:             total,
		MonthlyEquivalent: total.Div(decimal.NewFromInt(DefaultPayMonths)),
	}
}

// FormatWan renders amounts of at least 10,000 in units of 万 with one decimal,
// prefixed "=" when the amount is a whole multiple of 1,000 and "≈" otherwise.
// Smaller amounts return "".
func FormatWan(d decimal.Decimal) string {
	if d.LessThan(tenThousand) {
		return ""
	}
	prefix := "≈"
	if d.Mod(decimal.NewFromInt(1000)).IsZero() {
		prefix = "="
	}
	return prefix + d.Div(tenThousand).StringFixed(1) + "万"
}

func parse(s string) decimal.Decimal {
	return parseOr(s, decimal.Zero)
}

func parseOr(s string, fallback decimal.Decimal) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
