package stats

import (
	"time"

	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// SESSION FILTER / SPLITTER
// =============================================================================

// SplitSession is one session's worked time divided against the standard window.
type SplitSession struct {
	Session  worklog.Session
	Day      time.Time // local midnight of the start date
	Total    time.Duration
	Regular  time.Duration
	Overtime time.Duration
}

// FilterSessions keeps sessions whose StartTime is in [start, end).
// A session starting exactly at start is included.
func FilterSessions(sessions []worklog.Session, start, end time.Time) []worklog.Session {
	var out []worklog.Session
	for _, s := range sessions {
		if !s.StartTime.Before(start) && s.StartTime.Before(end) {
			out = append(out, s)
		}
	}
	return out
}

// Split divides a session's closed duration into regular and overtime.
//
// Open sessions count zero. On a non-working weekday, or when the session is
// flagged as a holiday, everything is overtime. Otherwise regular time is the
// overlap with the standard window anchored on the session's start date.
func Split(s worklog.Session, sched worklog.Schedule, loc *time.Location) SplitSession {
	if loc == nil {
		loc = time.Local
	}
	out := SplitSession{
		Session: s,
		Day:     startOfDay(s.StartTime, loc),
		Total:   s.Duration(),
	}
	if out.Total == 0 {
		return out
	}

	if s.IsHoliday || !sched.IsWorkingDay(s.StartTime.In(loc).Weekday()) {
		out.Overtime = out.Total
		return out
	}

	wStart, wEnd := sched.Window(s.StartTime, loc)
	out.Regular = overlap(s.StartTime, *s.EndTime, wStart, wEnd)
	out.Overtime = out.Total - out.Regular
	return out
}

// SplitSessions applies Split to every session.
func SplitSessions(sessions []worklog.Session, sched worklog.Schedule, loc *time.Location) []SplitSession {
	out := make([]SplitSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, Split(s, sched, loc))
	}
	return out
}

// overlap returns the length of [aStart, aEnd) ∩ [bStart, bEnd), never negative.
func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	lo := aStart
	if bStart.After(lo) {
		lo = bStart
	}
	hi := aEnd
	if bEnd.Before(hi) {
		hi = bEnd
	}
	if !hi.After(lo) {
		return 0
	}
	return hi.Sub(lo)
}

// Totals sums worked and overtime durations.
func Totals(split []SplitSession) (worked, overtime time.Duration) {
	for _, s := range split {
		worked += s.Total
		overtime += s.Overtime
	}
	return worked, overtime
}
