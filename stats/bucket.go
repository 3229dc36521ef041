package stats

import (
	"strconv"
	"time"

	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// BUCKETIZER - Chart series, one bucket per day or month
// =============================================================================

// BucketInput contains all inputs for Bucketize.
type BucketInput struct {
	Split       []SplitSession
	Period      Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Schedule    worklog.Schedule
	Unit        Unit
	Labels      Labels
	Location    *time.Location
}

type bucketAcc struct {
	label    string
	standard time.Duration
	total    time.Duration
	regular  time.Duration
}

// Bucketize aggregates split sessions into a fixed set of buckets:
//
//   - WEEK:  7 buckets Monday..Sunday, labelled with short weekday names
//   - MONTH: one bucket per day of the month, labelled with the day number
//   - YEAR:  12 buckets, labelled with short month names
//
// A bucket's standard capacity is the standard day on working days (zero
// otherwise); for month buckets it is the standard day times the working days
// in that month. Regular is the split regular time capped at that capacity;
// the rest of the bucket's worked time is overtime.
func Bucketize(in BucketInput) []Bucket {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	day := in.Schedule.DayDuration()

	var accs []bucketAcc
	var indexOf func(s SplitSession) int

	switch in.Period {
	case PeriodYear:
		year := in.PeriodStart.In(loc).Year()
		accs = make([]bucketAcc, 12)
		for i := range accs {
			m := time.Month(i + 1)
			first := time.Date(year, m, 1, 0, 0, 0, 0, loc)
			next := time.Date(year, m+1, 1, 0, 0, 0, 0, loc)
			accs[i] = bucketAcc{
				label:    in.Labels.Month(m),
				standard: day * time.Duration(CountWorkdays(first, next, in.Schedule.WorkingDays, loc)),
			}
		}
		indexOf = func(s SplitSession) int { return int(s.Day.In(loc).Month()) - 1 }

	default:
		n := daysBetween(in.PeriodStart, in.PeriodEnd, loc)
		if in.Period != PeriodMonth {
			n = 7
		}
		accs = make([]bucketAcc, n)
		d := startOfDay(in.PeriodStart, loc)
		for i := range accs {
			label := strconv.Itoa(d.Day())
			if in.Period != PeriodMonth {
				label = in.Labels.Weekday(d.Weekday())
			}
			accs[i] = bucketAcc{label: label}
			if in.Schedule.IsWorkingDay(d.Weekday()) {
				accs[i].standard = day
			}
			d = nextDay(d, loc)
		}
		indexOf = func(s SplitSession) int { return daysBetween(in.PeriodStart, s.Day, loc) }
	}

	for _, s := range in.Split {
		i := indexOf(s)
		if i < 0 || i >= len(accs) {
			continue // outside the period
		}
		accs[i].total += s.Total
		accs[i].regular += s.Regular
	}

	out := make([]Bucket, len(accs))
	for i, a := range accs {
		regular := a.regular
		if regular > a.standard {
			regular = a.standard
		}
		out[i] = Bucket{
			Label:    a.label,
			Regular:  in.Unit.Value(regular),
			Overtime: in.Unit.Value(a.total - regular),
			Standard: in.Unit.Value(a.standard),
		}
	}
	return out
}
