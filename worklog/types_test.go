package worklog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/worklog-engine/worklog"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    worklog.TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: worklog.TimeOfDay{Hour: 9}},
		{in: "18:30", want: worklog.TimeOfDay{Hour: 18, Minute: 30}},
		{in: " 07:05:09 ", want: worklog.TimeOfDay{Hour: 7, Minute: 5, Second: 9}},
		{in: "9am", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := worklog.ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSchedule_Fallbacks(t *testing.T) {
	sched := worklog.ParseSchedule(worklog.Settings{
		AnnualSalary: "lots",
		StartTime:    "??",
		EndTime:      "",
	})

	assert.True(t, sched.AnnualSalary.IsZero())
	assert.Equal(t, worklog.DefaultStart, sched.Start)
	assert.Equal(t, worklog.DefaultEnd, sched.End)
	assert.Equal(t, 0, sched.WorkingDaysPerWeek())
}

func TestParseSchedule_NegativeSalaryReadsAsZero(t *testing.T) {
	sched := worklog.ParseSchedule(worklog.Settings{AnnualSalary: "-5"})
	assert.Zero(t, sched.Salary())

	sched = worklog.ParseSchedule(worklog.Settings{AnnualSalary: "123456.78"})
	assert.InDelta(t, 123456.78, sched.Salary(), 1e-9)
}

func TestParseSchedule_HugeSalaryReadsAsZero(t *testing.T) {
	// 1e400 is a valid decimal but overflows float64
	sched := worklog.ParseSchedule(worklog.Settings{AnnualSalary: "1e400"})
	assert.True(t, sched.AnnualSalary.IsZero())
	assert.Zero(t, sched.Salary())

	sched = worklog.ParseSchedule(worklog.Settings{AnnualSalary: "1e300"})
	assert.InDelta(t, 1e300, sched.Salary(), 1e286)
}

func TestSchedule_DayDurationAndWindow(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)
	day := time.Date(2025, time.March, 10, 15, 0, 0, 0, loc)

	normal := worklog.ParseSchedule(worklog.Settings{StartTime: "09:00", EndTime: "18:00"})
	assert.Equal(t, 9*time.Hour, normal.DayDuration())
	start, end := normal.Window(day, loc)
	assert.Equal(t, time.Date(2025, time.March, 10, 9, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, time.March, 10, 18, 0, 0, 0, loc), end)

	wrapped := worklog.ParseSchedule(worklog.Settings{StartTime: "22:00", EndTime: "06:00"})
	assert.True(t, wrapped.Wraps())
	assert.Equal(t, 8*time.Hour, wrapped.DayDuration())
	start, end = wrapped.Window(day, loc)
	assert.Equal(t, time.Date(2025, time.March, 10, 22, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, time.March, 11, 6, 0, 0, 0, loc), end)

	empty := worklog.ParseSchedule(worklog.Settings{StartTime: "09:00", EndTime: "09:00"})
	assert.Zero(t, empty.DayDuration())
}

func TestWeekdaySet(t *testing.T) {
	set := worklog.MondayToFriday()

	assert.Equal(t, 5, set.Len())
	assert.True(t, set.Has(time.Monday))
	assert.False(t, set.Has(time.Sunday))
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, set.Days())

	withSunday := set.With(time.Sunday)
	assert.Equal(t, time.Sunday, withSunday.Days()[5], "sunday is listed last")
	assert.Equal(t, set, set.With(time.Weekday(9)), "out-of-range weekdays are ignored")
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{"MONDAY": time.Monday, "sun": time.Sunday, " Friday ": time.Friday} {
		got, err := worklog.ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := worklog.ParseWeekday("funday")
	assert.Error(t, err)
}

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, worklog.DefaultSettings().Validate())

	bad := worklog.DefaultSettings()
	bad.AnnualSalary = "-1"
	err := bad.Validate()
	var se *worklog.SettingsError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "annual_salary", se.Field)
	assert.ErrorIs(t, err, worklog.ErrInvalidSettings)
	assert.True(t, worklog.IsClientError(err))

	bad = worklog.DefaultSettings()
	bad.AnnualSalary = "1e400"
	require.True(t, errors.As(bad.Validate(), &se))
	assert.Equal(t, "annual_salary", se.Field)
	assert.Equal(t, "out of range", se.Reason)

	bad = worklog.DefaultSettings()
	bad.EndTime = "6pm"
	require.True(t, errors.As(bad.Validate(), &se))
	assert.Equal(t, "end_time", se.Field)

	bad = worklog.DefaultSettings()
	bad.WorkingDays = []time.Weekday{time.Weekday(8)}
	require.True(t, errors.As(bad.Validate(), &se))
	assert.Equal(t, "working_days", se.Field)
}

func TestSession_Durations(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	before := start.Add(-time.Hour)

	assert.Equal(t, 90*time.Minute, worklog.Session{StartTime: start, EndTime: &end}.Duration())
	assert.Zero(t, worklog.Session{StartTime: start, EndTime: &before}.Duration())

	open := worklog.Session{StartTime: start}
	assert.True(t, open.IsOpen())
	assert.Zero(t, open.Duration())
	assert.Equal(t, 2*time.Hour, open.Elapsed(start.Add(2*time.Hour)))
}
