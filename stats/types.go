/*
Package stats is the wage and overtime statistics engine.

PURPOSE:
  Turns a list of clock sessions plus the user's schedule into one snapshot
  for a selected period (week, month, year) and display unit (hour, minute):
  chart buckets split into regular and overtime, totals, and an "actual wage"
  compared against the "standard wage".

PIPELINE:
  Sessions + Settings
      -> ResolvePeriod     [start, end) for WEEK / MONTH / YEAR
      -> FilterSessions    sessions starting inside the period
      -> SplitSessions     regular vs overtime per session
      -> Bucketize         one bucket per day (week/month) or month (year)
      -> ComputeWage       standard vs actual rate, floored denominator
      -> Snapshot

PURITY:
  Derive is a pure function of its Input. Identical inputs give identical
  snapshots. The Aggregator is the only stateful piece: it re-runs Derive
  whenever a source or the request changes and keeps the latest State.

FLOATING POINT:
  Durations are accumulated as time.Duration and converted once, at the end,
  to float64 hours or minutes. Wage math is float64 throughout.

SEE ALSO:
  - period.go, split.go, bucket.go, wage.go: The stages
  - derive.go: Pure orchestration
  - aggregator.go: Reactive glue
*/
package stats

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// REQUEST - User-selected view parameters
// =============================================================================

type Period string

const (
	PeriodWeek  Period = "week"  // Monday..Sunday
	PeriodMonth Period = "month" // calendar month
	PeriodYear  Period = "year"  // calendar year
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

type Unit string

const (
	UnitHour   Unit = "hour"
	UnitMinute Unit = "minute"
)

func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitHour, UnitMinute:
		return u, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Duration is the length of one display unit.
func (u Unit) Duration() time.Duration {
	if u == UnitMinute {
		return time.Minute
	}
	return time.Hour
}

// PerHour is how many units make an hour.
func (u Unit) PerHour() float64 {
	if u == UnitMinute {
		return 60
	}
	return 1
}

// Value converts d to this unit.
func (u Unit) Value(d time.Duration) float64 {
	return float64(d) / float64(u.Duration())
}

type Request struct {
	Period Period
	Unit   Unit
}

// DefaultRequest is the initial selection: this week, in hours.
func DefaultRequest() Request {
	return Request{Period: PeriodWeek, Unit: UnitHour}
}

// normalized fills empty fields with defaults.
func (r Request) normalized() Request {
	if r.Period == "" {
		r.Period = PeriodWeek
	}
	if r.Unit == "" {
		r.Unit = UnitHour
	}
	return r
}

// =============================================================================
// SNAPSHOT - Engine output
// =============================================================================

// Bucket is one chart data point. Regular + Overtime equals the bucket's
// total worked time, in the snapshot's unit.
type Bucket struct {
	Label    string
	Regular  float64
	Overtime float64
	Standard float64 // regular capacity of the bucket
}

type Snapshot struct {
	Request     Request
	PeriodStart time.Time
	PeriodEnd   time.Time

	ChartSeries []Bucket

	TotalWorked   time.Duration
	TotalOvertime time.Duration

	StandardWage        float64
	ActualWage          float64
	PeriodPay           float64
	IsWageStandard      bool
	WageDecreasePercent float64

	StandardWorkdays        int
	StandardWorkHoursPerDay float64 // diagnostic; 0 means the schedule is degenerate
	SessionCount            int
}

// TotalWorkedValue is TotalWorked in the snapshot's unit.
func (s *Snapshot) TotalWorkedValue() float64 { return s.Request.Unit.Value(s.TotalWorked) }

// TotalOvertimeValue is TotalOvertime in the snapshot's unit.
func (s *Snapshot) TotalOvertimeValue() float64 { return s.Request.Unit.Value(s.TotalOvertime) }

// =============================================================================
// STATE - What the aggregator publishes
// =============================================================================

type Status string

const (
	StatusLoading Status = "loading" // no snapshot computed yet
	StatusReady   Status = "ready"
	StatusError   Status = "error" // derivation failed; Err carries the diagnostic
)

type State struct {
	Status   Status
	Request  Request
	Snapshot *Snapshot
	Err      string
}
