package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/worklog-engine/stats"
)

func TestStandardDaysPerYear(t *testing.T) {
	assert.Equal(t, 249.0, stats.StandardDaysPerYear(5))
	assert.Equal(t, 301.0, stats.StandardDaysPerYear(6))
	assert.Equal(t, 1.0, stats.StandardDaysPerYear(0), "floored to avoid division by zero")
}

func TestComputeWage_NoOvertime_ActualEqualsStandard(t *testing.T) {
	// GIVEN: 260000/year, 8h days, 5-day weeks, a full standard week, no overtime
	w := stats.ComputeWage(260000, 8*time.Hour, 5, stats.UnitHour, 5, 0)

	// THEN: leaving early (or not) never raises the rate above standard
	assert.InDelta(t, 260000.0/(249*8), w.Standard, 1e-9)
	assert.Equal(t, w.Standard, w.Actual)
	assert.True(t, w.IsStandard)
	assert.Zero(t, w.DecreasePercent)
}

func TestComputeWage_OvertimeDilutesWage(t *testing.T) {
	w := stats.ComputeWage(260000, 8*time.Hour, 5, stats.UnitHour, 5, 10*time.Hour)

	periodPay := 260000.0 * 5 / 249
	expected := periodPay / 50

	assert.InEpsilon(t, periodPay, w.PeriodPay, 1e-9)
	assert.InEpsilon(t, expected, w.Actual, 1e-6)
	assert.Less(t, w.Actual, w.Standard)
	assert.False(t, w.IsStandard)
	assert.InEpsilon(t, (w.Standard-w.Actual)/w.Standard, w.DecreasePercent, 1e-6)
	assert.InDelta(t, 0.2, w.DecreasePercent, 1e-9)
}

func TestComputeWage_MinuteUnit(t *testing.T) {
	hour := stats.ComputeWage(260000, 8*time.Hour, 5, stats.UnitHour, 5, 10*time.Hour)
	minute := stats.ComputeWage(260000, 8*time.Hour, 5, stats.UnitMinute, 5, 10*time.Hour)

	assert.InEpsilon(t, hour.Standard/60, minute.Standard, 1e-9)
	assert.InEpsilon(t, hour.Actual/60, minute.Actual, 1e-9)
	assert.InDelta(t, hour.DecreasePercent, minute.DecreasePercent, 1e-9)
}

func TestComputeWage_ZeroSalaryShortCircuits(t *testing.T) {
	w := stats.ComputeWage(0, 8*time.Hour, 5, stats.UnitHour, 5, 40*time.Hour)

	assert.Zero(t, w.Actual)
	assert.True(t, w.IsStandard)
	assert.Zero(t, w.DecreasePercent)
}

func TestComputeWage_DegenerateInputs(t *testing.T) {
	// Zero-length standard day: no rate can be derived
	w := stats.ComputeWage(260000, 0, 5, stats.UnitHour, 5, time.Hour)
	assert.Zero(t, w.Standard)
	assert.True(t, w.IsStandard)

	// No workdays and no overtime: effective duration is zero
	w = stats.ComputeWage(260000, 8*time.Hour, 0, stats.UnitHour, 5, 0)
	assert.Equal(t, w.Standard, w.Actual)
	assert.True(t, w.IsStandard)
	assert.Zero(t, w.DecreasePercent)

	// No workdays but overtime: nothing earned for the time worked
	w = stats.ComputeWage(260000, 8*time.Hour, 0, stats.UnitHour, 5, 3*time.Hour)
	assert.Zero(t, w.Actual)
	assert.False(t, w.IsStandard)
	assert.InDelta(t, 1.0, w.DecreasePercent, 1e-9)

	// Zero working days per week still yields finite numbers
	w = stats.ComputeWage(260000, 8*time.Hour, 0, stats.UnitHour, 0, 0)
	assert.InDelta(t, 260000.0/8, w.Standard, 1e-9)
}

func TestComputeWage_ToleranceAbsorbsNoise(t *testing.T) {
	// A sub-cent shortfall still counts as standard
	w := stats.ComputeWage(260000, 8*time.Hour, 5, stats.UnitHour, 5, time.Millisecond)
	assert.Less(t, w.Actual, w.Standard)
	assert.True(t, w.IsStandard)
	assert.Zero(t, w.DecreasePercent)
}
