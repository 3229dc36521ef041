/*
Package worklog provides the domain model of the personal time tracker.

PURPOSE:
  Holds the records the stats engine reads: clock-in/out sessions and the
  user's schedule settings. The engine never mutates these; stores own them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Session:    One clock-in to clock-out interval (EndTime nil while working)
  - Settings:   Raw user-entered values, exactly as persisted
  - Schedule:   Parsed settings with documented fallbacks applied
  - TimeOfDay:  A wall-clock time without a date
  - WeekdaySet: The set of working weekdays

PARSING POLICY:
  Settings are stored as strings. Reading them never fails: a malformed
  time-of-day falls back to 09:00 / 18:00 and a malformed salary reads as 0.
  Write paths call Settings.Validate to reject bad input up front.

SEE ALSO:
  - store.go: Store interfaces
  - clock.go: Clock in/out service
  - stats/: The wage and overtime engine
*/
package worklog

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SESSION - One clock-in/clock-out interval
// =============================================================================

type SessionID string

// NewSessionID returns a fresh random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

type Session struct {
	ID        SessionID
	StartTime time.Time
	EndTime   *time.Time // nil = currently clocked in
	Note      string
	IsHoliday bool
}

// IsOpen reports whether the session has not been clocked out yet.
func (s Session) IsOpen() bool { return s.EndTime == nil }

// Duration is the closed worked duration. Open sessions and sessions whose
// end precedes their start contribute zero.
func (s Session) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	d := s.EndTime.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Elapsed is the running duration used by the live timer.
func (s Session) Elapsed(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	d := end.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// =============================================================================
// TIME OF DAY
// =============================================================================

type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

var (
	DefaultStart = TimeOfDay{Hour: 9}
	DefaultEnd   = TimeOfDay{Hour: 18}
)

var timeOfDayLayouts = []string{"15:04", "15:04:05"}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

// ParseTimeOfDayOr parses s, returning fallback when s is malformed.
func ParseTimeOfDayOr(s string, fallback TimeOfDay) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		return fallback
	}
	return tod
}

// Offset is the time elapsed since midnight.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute + time.Duration(t.Second)*time.Second
}

// On returns the instant at this wall-clock time on the calendar date of day in loc.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, loc)
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.Offset() < other.Offset() }

func (t TimeOfDay) String() string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// =============================================================================
// WEEKDAY SET
// =============================================================================

// WeekdaySet is a bitmask indexed by time.Weekday.
type WeekdaySet uint8

// weekOrder lists weekdays Monday first.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// MondayToFriday is the default working week.
func MondayToFriday() WeekdaySet {
	return NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekdaySet) Has(d time.Weekday) bool { return s&(1<<uint(d)) != 0 }

func (s WeekdaySet) Len() int {
	n := 0
	for _, d := range weekOrder {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days returns the members Monday first.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for _, d := range weekOrder {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// ParseWeekday accepts English names ("MONDAY", "mon") case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, d := range weekOrder {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// =============================================================================
// SETTINGS - Raw user configuration as persisted
// =============================================================================

type Settings struct {
	AnnualSalary    string // currency major units, e.g. "260000"
	StartTime       string // "HH:MM"
	EndTime         string // "HH:MM"
	WorkingDays     []time.Weekday
	ReminderEnabled bool
}

// DefaultSettings mirrors a freshly installed app.
func DefaultSettings() Settings {
	return Settings{
		AnnualSalary: "",
		StartTime:    DefaultStart.String(),
		EndTime:      DefaultEnd.String(),
		WorkingDays:  MondayToFriday().Days(),
	}
}

// Validate rejects values the write path should never persist.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.AnnualSalary) != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(s.AnnualSalary))
		if err != nil {
			return &SettingsError{Field: "annual_salary", Value: s.AnnualSalary, Reason: "not a number"}
		}
		if d.IsNegative() {
			return &SettingsError{Field: "annual_salary", Value: s.AnnualSalary, Reason: "must not be negative"}
		}
		if !finite(d) {
			return &SettingsError{Field: "annual_salary", Value: s.AnnualSalary, Reason: "out of range"}
		}
	}
	if _, err := ParseTimeOfDay(s.StartTime); err != nil {
		return &SettingsError{Field: "start_time", Value: s.StartTime, Reason: "expected HH:MM"}
	}
	if _, err := ParseTimeOfDay(s.EndTime); err != nil {
		return &SettingsError{Field: "end_time", Value: s.EndTime, Reason: "expected HH:MM"}
	}
	for _, d := range s.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return &SettingsError{Field: "working_days", Value: fmt.Sprint(int(d)), Reason: "unknown weekday"}
		}
	}
	return nil
}

// =============================================================================
// SCHEDULE - Parsed settings consumed by the engine
// =============================================================================

type Schedule struct {
	AnnualSalary decimal.Decimal
	Start        TimeOfDay
	End          TimeOfDay
	WorkingDays  WeekdaySet
}

// ParseSalary reads a salary string; malformed, negative or out of float64
// range input reads as zero.
func ParseSalary(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || !finite(d) {
		return decimal.Zero
	}
	return d
}

// finite reports whether d converts to a finite float64.
func finite(d decimal.Decimal) bool {
	f, _ := d.Float64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ParseSchedule applies the read-path fallbacks. It never fails.
func ParseSchedule(s Settings) Schedule {
	return Schedule{
		AnnualSalary: ParseSalary(s.AnnualSalary),
		Start:        ParseTimeOfDayOr(s.StartTime, DefaultStart),
		End:          ParseTimeOfDayOr(s.EndTime, DefaultEnd),
		WorkingDays:  NewWeekdaySet(s.WorkingDays...),
	}
}

// Salary returns the annual salary as float64 for the double-precision wage math.
func (s Schedule) Salary() float64 {
	f, _ := s.AnnualSalary.Float64()
	return f
}

// Wraps reports whether the standard window crosses midnight.
func (s Schedule) Wraps() bool { return s.End.Before(s.Start) }

// DayDuration is the length of the standard window, wrap aware.
func (s Schedule) DayDuration() time.Duration {
	d := s.End.Offset() - s.Start.Offset()
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

// Window returns the standard window anchored on the calendar date of day.
func (s Schedule) Window(day time.Time, loc *time.Location) (start, end time.Time) {
	start = s.Start.On(day, loc)
	end = s.End.On(day, loc)
	if s.Wraps() {
		y, m, d := day.In(loc).Date()
		end = time.Date(y, m, d+1, s.End.Hour, s.End.Minute, s.End.Second, 0, loc)
	}
	return start, end
}

func (s Schedule) IsWorkingDay(d time.Weekday) bool { return s.WorkingDays.Has(d) }

func (s Schedule) WorkingDaysPerWeek() int { return s.WorkingDays.Len() }
