package stats

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrComputation is the sentinel behind every ComputationError.
var ErrComputation = errors.New("stats computation failed")

// ComputationError reports an unexpected fault inside a pipeline stage.
type ComputationError struct {
	Stage string // "period", "split", "bucket", "wage"
	Cause error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("stats %s stage failed: %v", e.Stage, e.Cause)
}

func (e *ComputationError) Unwrap() []error {
	return []error{ErrComputation, e.Cause}
}

// =============================================================================
// DERIVE - Pure snapshot computation
// =============================================================================

// stageHook, when set, runs as each stage starts. Tests use it to inject faults.
var stageHook atomic.Pointer[func(stage string)]

// Input is everything a snapshot depends on.
type Input struct {
	Sessions []worklog.Session
	Settings worklog.Settings
	Request  Request
	Now      time.Time      // anchors "today"
	Location *time.Location // nil = time.Local
	Labels   Labels
}

// Derive computes the snapshot for in. It never panics: a fault in any stage
// is returned as a *ComputationError and no partial snapshot is produced.
func Derive(in Input) (snap *Snapshot, err error) {
	var stage string
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &ComputationError{Stage: stage, Cause: cause}
		}
	}()
	enter := func(s string) {
		stage = s
		if hook := stageHook.Load(); hook != nil {
			(*hook)(s)
		}
	}

	enter("period")

	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	req := in.Request.normalized()
	sched := worklog.ParseSchedule(in.Settings)

	start, end := ResolvePeriod(req.Period, in.Now, loc)
	workdays := CountWorkdays(start, end, sched.WorkingDays, loc)

	enter("split")
	inPeriod := FilterSessions(in.Sessions, start, end)
	split := SplitSessions(inPeriod, sched, loc)
	worked, overtime := Totals(split)

	enter("bucket")
	series := Bucketize(BucketInput{
		Split:       split,
		Period:      req.Period,
		PeriodStart: start,
		PeriodEnd:   end,
		Schedule:    sched,
		Unit:        req.Unit,
		Labels:      in.Labels,
		Location:    loc,
	})

	enter("wage")
	day := sched.DayDuration()
	wage := ComputeWage(sched.Salary(), day, workdays, req.Unit, sched.WorkingDaysPerWeek(), overtime)

	return &Snapshot{
		Request:                 req,
		PeriodStart:             start,
		PeriodEnd:               end,
		ChartSeries:             series,
		TotalWorked:             worked,
		TotalOvertime:           overtime,
		StandardWage:            wage.Standard,
		ActualWage:              wage.Actual,
		PeriodPay:               wage.PeriodPay,
		IsWageStandard:          wage.IsStandard,
		WageDecreasePercent:     wage.DecreasePercent,
		StandardWorkdays:        workdays,
		StandardWorkHoursPerDay: day.Hours(),
		SessionCount:            len(inPeriod),
	}, nil
}
