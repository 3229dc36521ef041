package stats

import (
	"time"

	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// PERIOD RESOLVER
// =============================================================================

// ResolvePeriod returns the half-open interval [start, end) of the period
// containing today, with both bounds at local midnight in loc.
//
//   - WEEK:  most recent Monday, plus 7 days
//   - MONTH: first of the month, plus 1 calendar month
//   - YEAR:  January 1, plus 1 calendar year
//
// Unknown periods resolve as WEEK.
func ResolvePeriod(period Period, today time.Time, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.Local
	}
	t := today.In(loc)
	y, m, d := t.Date()

	switch period {
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc)
	default:
		back := daysSinceMonday(t.Weekday())
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc), time.Date(y, m, d-back+7, 0, 0, 0, 0, loc)
	}
}

func daysSinceMonday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// CountWorkdays counts calendar dates in [start, end) whose weekday is in days.
func CountWorkdays(start, end time.Time, days worklog.WeekdaySet, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	count := 0
	for day := startOfDay(start, loc); day.Before(end); day = nextDay(day, loc) {
		if days.Has(day.Weekday()) {
			count++
		}
	}
	return count
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// nextDay steps by calendar day, not 24h, so DST transitions don't drift.
func nextDay(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b (both local dates).
func daysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
