package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/worklog-engine/stats"
	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var cst = time.FixedZone("CST", 8*60*60)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, cst)
}

func closed(id string, start, end time.Time) worklog.Session {
	e := end
	return worklog.Session{ID: worklog.SessionID(id), StartTime: start, EndTime: &e}
}

func schedule(start, end string) worklog.Schedule {
	s := worklog.DefaultSettings()
	s.AnnualSalary = "260000"
	s.StartTime = start
	s.EndTime = end
	return worklog.ParseSchedule(s)
}

// Wednesday 2025-03-12; its week runs Mon 03-10 .. Sun 03-16.
var wednesday = at(2025, time.March, 12, 15, 30)

// =============================================================================
// PERIOD RESOLVER
// =============================================================================

func TestResolvePeriod_Week_StartsOnMonday(t *testing.T) {
	start, end := stats.ResolvePeriod(stats.PeriodWeek, wednesday, cst)

	assert.Equal(t, at(2025, time.March, 10, 0, 0), start)
	assert.Equal(t, at(2025, time.March, 17, 0, 0), end)
}

func TestResolvePeriod_Week_SundayBelongsToPreviousMonday(t *testing.T) {
	start, _ := stats.ResolvePeriod(stats.PeriodWeek, at(2025, time.March, 16, 23, 0), cst)
	assert.Equal(t, at(2025, time.March, 10, 0, 0), start)

	start, _ = stats.ResolvePeriod(stats.PeriodWeek, at(2025, time.March, 10, 0, 0), cst)
	assert.Equal(t, at(2025, time.March, 10, 0, 0), start, "monday resolves to itself")
}

func TestResolvePeriod_Week_CrossesYearBoundary(t *testing.T) {
	start, end := stats.ResolvePeriod(stats.PeriodWeek, at(2025, time.January, 1, 8, 0), cst)

	assert.Equal(t, at(2024, time.December, 30, 0, 0), start)
	assert.Equal(t, at(2025, time.January, 6, 0, 0), end)
}

func TestResolvePeriod_MonthAndYear(t *testing.T) {
	start, end := stats.ResolvePeriod(stats.PeriodMonth, wednesday, cst)
	assert.Equal(t, at(2025, time.March, 1, 0, 0), start)
	assert.Equal(t, at(2025, time.April, 1, 0, 0), end)

	start, end = stats.ResolvePeriod(stats.PeriodYear, wednesday, cst)
	assert.Equal(t, at(2025, time.January, 1, 0, 0), start)
	assert.Equal(t, at(2026, time.January, 1, 0, 0), end)
}

func TestResolvePeriod_UsesLocalCalendarDate(t *testing.T) {
	// 2025-03-09 20:00 UTC is already Monday 04:00 in CST
	start, _ := stats.ResolvePeriod(stats.PeriodWeek, time.Date(2025, time.March, 9, 20, 0, 0, 0, time.UTC), cst)
	assert.Equal(t, at(2025, time.March, 10, 0, 0), start)
}

func TestCountWorkdays(t *testing.T) {
	start, end := stats.ResolvePeriod(stats.PeriodMonth, wednesday, cst)

	assert.Equal(t, 21, stats.CountWorkdays(start, end, worklog.MondayToFriday(), cst))
	assert.Equal(t, 0, stats.CountWorkdays(start, end, worklog.NewWeekdaySet(), cst))
	assert.Equal(t, 5, stats.CountWorkdays(start, end, worklog.NewWeekdaySet(time.Saturday), cst))
}

// =============================================================================
// FILTER / SPLITTER
// =============================================================================

func TestFilterSessions_IncludesSessionAtPeriodStart(t *testing.T) {
	start, end := stats.ResolvePeriod(stats.PeriodWeek, wednesday, cst)
	sessions := []worklog.Session{
		closed("at-start", start, start.Add(time.Hour)),
		closed("before", start.Add(-time.Minute), start.Add(time.Hour)),
		closed("at-end", end, end.Add(time.Hour)),
		closed("last-minute", end.Add(-time.Minute), end.Add(time.Hour)),
	}

	got := stats.FilterSessions(sessions, start, end)

	require.Len(t, got, 2)
	assert.Equal(t, worklog.SessionID("at-start"), got[0].ID)
	assert.Equal(t, worklog.SessionID("last-minute"), got[1].ID)
}

func TestSplit_InsideAndOutsideWindow(t *testing.T) {
	sched := schedule("09:00", "18:00")

	// 08:00-20:00 on a Monday: 1h before + 2h after the window
	s := stats.Split(closed("s", at(2025, time.March, 10, 8, 0), at(2025, time.March, 10, 20, 0)), sched, cst)

	assert.Equal(t, 12*time.Hour, s.Total)
	assert.Equal(t, 9*time.Hour, s.Regular)
	assert.Equal(t, 3*time.Hour, s.Overtime)
}

func TestSplit_MidnightWrapSchedule(t *testing.T) {
	sched := schedule("22:00", "06:00")
	require.Equal(t, 8*time.Hour, sched.DayDuration())

	// GIVEN: session fully inside the wrapped window
	inside := stats.Split(closed("a", at(2025, time.March, 10, 23, 0), at(2025, time.March, 11, 5, 0)), sched, cst)
	assert.Equal(t, 6*time.Hour, inside.Regular)
	assert.Equal(t, time.Duration(0), inside.Overtime)

	// GIVEN: session starting an hour before the window opens
	early := stats.Split(closed("b", at(2025, time.March, 10, 21, 0), at(2025, time.March, 10, 23, 0)), sched, cst)
	assert.Equal(t, time.Hour, early.Regular)
	assert.Equal(t, time.Hour, early.Overtime)
}

func TestSplit_NonWorkingDayAndHolidayAreAllOvertime(t *testing.T) {
	sched := schedule("09:00", "18:00")

	saturday := stats.Split(closed("sat", at(2025, time.March, 15, 10, 0), at(2025, time.March, 15, 12, 0)), sched, cst)
	assert.Equal(t, time.Duration(0), saturday.Regular)
	assert.Equal(t, 2*time.Hour, saturday.Overtime)

	h := closed("hol", at(2025, time.March, 12, 10, 0), at(2025, time.March, 12, 12, 0))
	h.IsHoliday = true
	holiday := stats.Split(h, sched, cst)
	assert.Equal(t, time.Duration(0), holiday.Regular)
	assert.Equal(t, 2*time.Hour, holiday.Overtime)
}

func TestSplit_OpenAndInvertedSessionsContributeZero(t *testing.T) {
	sched := schedule("09:00", "18:00")

	open := stats.Split(worklog.Session{ID: "open", StartTime: at(2025, time.March, 12, 9, 0)}, sched, cst)
	assert.Equal(t, time.Duration(0), open.Total)

	inverted := stats.Split(closed("inv", at(2025, time.March, 12, 17, 0), at(2025, time.March, 12, 9, 0)), sched, cst)
	assert.Equal(t, time.Duration(0), inverted.Total)
	assert.Equal(t, time.Duration(0), inverted.Regular)
	assert.Equal(t, time.Duration(0), inverted.Overtime)
}

func TestSplit_EmptyWorkingDaysMakesEverythingOvertime(t *testing.T) {
	s := worklog.DefaultSettings()
	s.WorkingDays = nil
	sched := worklog.ParseSchedule(s)

	got := stats.Split(closed("s", at(2025, time.March, 12, 9, 0), at(2025, time.March, 12, 18, 0)), sched, cst)
	assert.Equal(t, 9*time.Hour, got.Overtime)
}
