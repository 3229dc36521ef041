/*
wage.go - Standard vs actual wage

PURPOSE:
  Compares the salary-derived "standard" hourly (or per-minute) rate with the
  rate actually earned over the selected period.

FORMULA:
  standardDaysPerYear = workingDaysPerWeek × 52 − StatutoryHolidays   (min 1)
  standardWage        = salary / (standardDaysPerYear × standardDayHours)
  periodPay           = salary × standardWorkdays / standardDaysPerYear
  effective           = standardDay × standardWorkdays + overtime
  actualWage          = periodPay / effective

FLOORED DENOMINATOR:
  effective never drops below the scheduled standard time for the period.
  Leaving early does not raise the hourly rate; only overtime lowers it.

DEGENERATE INPUTS:
  salary = 0          -> (0, standard, 0%)
  standard day = 0    -> (0, standard, 0%)
  effective = 0       -> (standardWage, standard, 0%)
*/
package stats

import "time"

// StatutoryHolidays is the number of paid public holidays assumed per year.
const StatutoryHolidays = 11

// WageTolerance absorbs floating-point noise when judging actual >= standard.
//
// It is absolute, in currency per selected unit, so its relative slack
// depends on the unit: a per-minute wage is 60 times smaller than the hourly
// one, making 0.01 about 60 times looser. The same sessions can therefore be
// standard in minutes and below standard in hours; IsStandard is only
// meaningful together with the unit it was computed for.
const WageTolerance = 0.01

type Wage struct {
	Standard            float64
	Actual              float64
	PeriodPay           float64
	IsStandard          bool
	DecreasePercent     float64 // fraction in [0, 1]
	StandardDaysPerYear float64
}

// StandardDaysPerYear applies the statutory holiday deduction, floored at 1.
func StandardDaysPerYear(workingDaysPerWeek int) float64 {
	days := float64(workingDaysPerWeek*52 - StatutoryHolidays)
	if days < 1 {
		return 1
	}
	return days
}

// ComputeWage derives the standard and actual rate in the given unit.
func ComputeWage(annualSalary float64, standardDay time.Duration, standardWorkdays int, unit Unit, workingDaysPerWeek int, overtime time.Duration) Wage {
	daysPerYear := StandardDaysPerYear(workingDaysPerWeek)
	w := Wage{IsStandard: true, StandardDaysPerYear: daysPerYear}

	if annualSalary <= 0 {
		return w
	}

	hoursPerYear := daysPerYear * standardDay.Hours()
	if hoursPerYear <= 0 {
		return w
	}

	w.Standard = annualSalary / (hoursPerYear * unit.PerHour())
	w.PeriodPay = annualSalary * (float64(standardWorkdays) / daysPerYear)

	if overtime < 0 {
		overtime = 0
	}
	if standardWorkdays < 0 {
		standardWorkdays = 0
	}
	scheduled := standardDay * time.Duration(standardWorkdays)
	effective := scheduled + overtime
	if effective <= 0 {
		w.Actual = w.Standard
		return w
	}

	// Same value as periodPay / effective; the ratio keeps the zero-overtime
	// case exactly equal to Standard.
	w.Actual = w.Standard * (float64(scheduled) / float64(effective))

	w.IsStandard = w.Actual >= w.Standard-WageTolerance
	if !w.IsStandard {
		w.DecreasePercent = (w.Standard - w.Actual) / w.Standard
	}
	return w
}
