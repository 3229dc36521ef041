package calculator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/worklog-engine/calculator"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_FullPackage(t *testing.T) {
	res := calculator.Compute(calculator.Input{
		MonthlySalary: "30000",
		PayMonths:     "14",
		AnnualBonus:   "50000",
		StockQuantity: "1000",
		StockPrice:    "120.5",
		VestingYears:  "4",
		OtherCash:     "6000",
	})

	assert.True(t, dec("476000").Equal(res.Cash), res.Cash.String())
	assert.True(t, dec("120500").Equal(res.StockGrantValue))
	assert.True(t, dec("30125").Equal(res.AnnualStockValue))
	assert.True(t, dec("506125").Equal(res.Total), res.Total.String())
}

func TestCompute_BlankFieldsUseDefaults(t *testing.T) {
	res := calculator.Compute(calculator.Input{MonthlySalary: "10000"})

	// Blank months means twelve payslips
	assert.True(t, dec("120000").Equal(res.Total))
	assert.True(t, dec("10000").Equal(res.MonthlyEquivalent))
	assert.True(t, res.AnnualStockValue.IsZero())
}

func TestCompute_GarbageReadsAsZero(t *testing.T) {
	res := calculator.Compute(calculator.Input{
		MonthlySalary: "lots",
		PayMonths:     "twelve",
		AnnualBonus:   "1000",
	})

	assert.True(t, dec("1000").Equal(res.Total))
}

func TestCompute_NonPositiveVestingIsOneYear(t *testing.T) {
	for _, vesting := range []string{"", "0", "-3", "abc"} {
		res := calculator.Compute(calculator.Input{StockQuantity: "10", StockPrice: "5", VestingYears: vesting})
		assert.True(t, dec("50").Equal(res.AnnualStockValue), "vesting %q", vesting)
	}
}

func TestFormatWan(t *testing.T) {
	assert.Equal(t, "", calculator.FormatWan(dec("9999")))
	assert.Equal(t, "=1.0万", calculator.FormatWan(dec("10000")))
	assert.Equal(t, "=25.3万", calculator.FormatWan(dec("253000")))
	assert.Equal(t, "≈1.2万", calculator.FormatWan(dec("12345")))
}
