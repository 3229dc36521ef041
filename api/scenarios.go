/*
scenarios.go - Demo data loaders

PURPOSE:

	Fills the stores with realistic sessions and settings so the stats
	screens have something to show. Every scenario is generated relative to
	the handler clock, so "this week" is always populated.

AVAILABLE SCENARIOS:

	standard-week:   Regular 09:00-18:00 days so far this week
	overtime-month:  Long weekdays plus weekend sessions this month
	night-shift:     22:00-06:00 schedule with sessions crossing midnight
	holiday-work:    Regular week plus sessions flagged as holiday work
	clocked-in:      Yesterday's day plus an open session started 2h ago

HOW SCENARIOS WORK:
 1. Delete all sessions
 2. Save the scenario settings
 3. Insert the generated sessions in one batch

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overtime-month"}

NOTE:

	Loading replaces stored data. The routes are only registered when
	Handler.Scenarios is set (WORKLOG_DEMO=true).

SEE ALSO:
  - handlers.go: Handler fields
  - server.go: Route registration
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	build func(g scenarioGen) (worklog.Settings, []worklog.Session)
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "standard-week",
			Name:        "Standard Week",
			Description: "09:00-18:00 on every working day so far this week",
		},
		build: buildStandardWeek,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "overtime-month",
			Name:        "Overtime Month",
			Description: "09:00-21:00 weekdays and Saturday sessions this month",
		},
		build: buildOvertimeMonth,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "night-shift",
			Name:        "Night Shift",
			Description: "22:00-06:00 schedule, sessions cross midnight",
		},
		build: buildNightShift,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "holiday-work",
			Name:        "Holiday Work",
			Description: "Regular week plus weekend sessions flagged as holiday work",
		},
		build: buildHolidayWork,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "clocked-in",
			Name:        "Clocked In",
			Description: "Yesterday's regular day plus an open session started two hours ago",
		},
		build: buildClockedIn,
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCurrentScenario returns the last loaded scenario, or null.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.scenarioMu.Lock()
	current := h.currentScenario
	h.scenarioMu.Unlock()

	s, ok := findScenario(current)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, s.ScenarioDTO)
}

// LoadScenario replaces all sessions and settings with a scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()

	n, err := h.loadScenario(r.Context(), s)
	if err != nil {
		h.currentScenario = ""
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = s.ID

	h.Logger.Info("Scenario loaded", zap.String("scenario", s.ID), zap.Int("sessions", n))
	writeJSON(w, http.StatusOK, LoadScenarioResponse{Status: "loaded", Scenario: s.ID, Sessions: n})
}

func (h *Handler) loadScenario(ctx context.Context, s scenario) (int, error) {
	settings, sessions := s.build(newScenarioGen(h.Now().In(h.location())))

	if err := h.Sessions.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("reset sessions: %w", err)
	}
	if err := h.Settings.SaveSettings(ctx, settings); err != nil {
		return 0, fmt.Errorf("save settings: %w", err)
	}
	if err := h.Sessions.InsertAll(ctx, sessions); err != nil {
		return 0, fmt.Errorf("insert sessions: %w", err)
	}
	return len(sessions), nil
}

func (h *Handler) location() *time.Location {
	if h.Location == nil {
		return time.Local
	}
	return h.Location
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

// scenarioGen produces wall-clock times around a fixed instant.
type scenarioGen struct {
	now   time.Time
	today time.Time // local midnight
}

func newScenarioGen(now time.Time) scenarioGen {
	y, m, d := now.Date()
	return scenarioGen{now: now, today: time.Date(y, m, d, 0, 0, 0, 0, now.Location())}
}

func (g scenarioGen) weekStart() time.Time {
	back := (int(g.today.Weekday()) + 6) % 7
	return g.today.AddDate(0, 0, -back)
}

func (g scenarioGen) monthStart() time.Time {
	return g.today.AddDate(0, 0, 1-g.today.Day())
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// closed returns a finished session, or false if it would end after now.
func (g scenarioGen) closed(start, end time.Time, note string, holiday bool) (worklog.Session, bool) {
	if end.After(g.now) {
		return worklog.Session{}, false
	}
	return worklog.Session{
		ID:        worklog.NewSessionID(),
		StartTime: start,
		EndTime:   &end,
		Note:      note,
		IsHoliday: holiday,
	}, true
}

func (g scenarioGen) tomorrow() time.Time {
	return g.today.AddDate(0, 0, 1)
}

// daily emits one session per matching day in [from, to).
func (g scenarioGen) daily(from, to time.Time, match func(time.Weekday) bool, startH, endH int, note string, holiday bool) []worklog.Session {
	var out []worklog.Session
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		if !match(day.Weekday()) {
			continue
		}
		end := at(day, endH, 0)
		if endH <= startH {
			end = end.AddDate(0, 0, 1)
		}
		if s, ok := g.closed(at(day, startH, 0), end, note, holiday); ok {
			out = append(out, s)
		}
	}
	return out
}

func weekdays(d time.Weekday) bool { return d != time.Saturday && d != time.Sunday }

func weekend(d time.Weekday) bool { return !weekdays(d) }

func buildStandardWeek(g scenarioGen) (worklog.Settings, []worklog.Session) {
	settings := worklog.DefaultSettings()
	settings.AnnualSalary = "260000"
	return settings, g.daily(g.weekStart(), g.tomorrow(), weekdays, 9, 18, "", false)
}

func buildOvertimeMonth(g scenarioGen) (worklog.Settings, []worklog.Session) {
	settings := worklog.DefaultSettings()
	settings.AnnualSalary = "360000"

	sessions := g.daily(g.monthStart(), g.tomorrow(), weekdays, 9, 21, "", false)
	sessions = append(sessions, g.daily(g.monthStart(), g.tomorrow(), func(d time.Weekday) bool {
		return d == time.Saturday
	}, 10, 14, "weekend release", false)...)
	return settings, sessions
}

func buildNightShift(g scenarioGen) (worklog.Settings, []worklog.Session) {
	settings := worklog.DefaultSettings()
	settings.AnnualSalary = "200000"
	settings.StartTime = "22:00"
	settings.EndTime = "06:00"

	var sessions []worklog.Session
	for back := 7; back >= 1; back-- {
		day := g.today.AddDate(0, 0, -back)
		if !weekdays(day.Weekday()) {
			continue
		}
		if s, ok := g.closed(at(day, 22, 0), at(day.AddDate(0, 0, 1), 6, 30), "", false); ok {
			sessions = append(sessions, s)
		}
	}
	return settings, sessions
}

func buildHolidayWork(g scenarioGen) (worklog.Settings, []worklog.Session) {
	settings, sessions := buildStandardWeek(g)
	lastWeek := g.weekStart().AddDate(0, 0, -7)
	sessions = append(sessions, g.daily(lastWeek, g.weekStart(), weekdays, 9, 18, "", false)...)
	sessions = append(sessions, g.daily(lastWeek, g.weekStart(), weekend, 10, 16, "public holiday", true)...)
	return settings, sessions
}

func buildClockedIn(g scenarioGen) (worklog.Settings, []worklog.Session) {
	settings := worklog.DefaultSettings()
	settings.AnnualSalary = "260000"

	var sessions []worklog.Session
	yesterday := g.today.AddDate(0, 0, -1)
	if s, ok := g.closed(at(yesterday, 9, 0), at(yesterday, 18, 0), "", false); ok {
		sessions = append(sessions, s)
	}
	sessions = append(sessions, worklog.Session{
		ID:        worklog.NewSessionID(),
		StartTime: g.now.Add(-2 * time.Hour).Truncate(time.Second),
	})
	return settings, sessions
}
