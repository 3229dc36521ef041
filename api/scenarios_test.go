package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/worklog-engine/worklog"
)

func newScenarioServer(t *testing.T, sessions ...worklog.Session) *testServer {
	t.Helper()
	ts := newTestServer(t, sessions...)
	ts.handler.Scenarios = true
	ts.router = NewRouter(ts.handler, nil)
	return ts
}

func TestScenarios_DisabledByDefault(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/scenarios", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenarios_List(t *testing.T) {
	ts := newScenarioServer(t)

	rec := ts.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ScenarioDTO](t, rec)
	require.Len(t, list, len(scenarios))
	assert.Equal(t, "standard-week", list[0].ID)

	rec = ts.do(t, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())
}

func TestScenarios_LoadReplacesData(t *testing.T) {
	// GIVEN: an existing session that the scenario must remove
	ts := newScenarioServer(t, closedAt("old", day(3, 9, 0), day(3, 10, 0)))

	// WHEN: loading the standard week on Wednesday afternoon
	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "standard-week"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[LoadScenarioResponse](t, rec)

	// THEN: Monday and Tuesday are filled in; today's 18:00 end is still ahead
	assert.Equal(t, "loaded", resp.Status)
	assert.Equal(t, 2, resp.Sessions)

	all, err := ts.sessions.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, day(11, 9, 0), all[0].StartTime)
	assert.Equal(t, day(10, 9, 0), all[1].StartTime)

	s, err := ts.settings.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "260000", s.AnnualSalary)

	rec = ts.do(t, http.MethodGet, "/api/stats?period=week&unit=hour", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[SnapshotDTO](t, rec)
	assert.InDelta(t, 18.0, snap.TotalWorked, 1e-9)
	assert.InDelta(t, 0.0, snap.TotalOvertime, 1e-9)

	rec = ts.do(t, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "standard-week", decode[ScenarioDTO](t, rec).ID)
}

func TestScenarios_SessionCounts(t *testing.T) {
	tests := map[string]int{
		// Mar 3-7, 10, 11 weekdays plus Saturdays Mar 1 and 8
		"overtime-month": 9,
		// Mar 5, 6, 7, 10, 11 nights; all end by 06:30 today
		"night-shift": 5,
		// this week Mon-Tue, last week Mon-Fri, last weekend as holiday
		"holiday-work": 9,
		// yesterday plus the open session
		"clocked-in": 2,
	}

	for id, want := range tests {
		t.Run(id, func(t *testing.T) {
			ts := newScenarioServer(t)

			rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, want, decode[LoadScenarioResponse](t, rec).Sessions)

			all, err := ts.sessions.All(context.Background())
			require.NoError(t, err)
			assert.Len(t, all, want)
		})
	}
}

func TestScenarios_HolidayAndClockedIn(t *testing.T) {
	ts := newScenarioServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "holiday-work"})
	require.Equal(t, http.StatusOK, rec.Code)
	all, err := ts.sessions.All(context.Background())
	require.NoError(t, err)
	holidays := 0
	for _, s := range all {
		if s.IsHoliday {
			holidays++
			assert.Equal(t, "public holiday", s.Note)
		}
	}
	assert.Equal(t, 2, holidays)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "clocked-in"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/clock/status", nil)
	st := decode[ClockStatusDTO](t, rec)
	assert.True(t, st.Working)
	assert.Equal(t, "02:00:00", st.Timer)
}

func TestScenarios_NightShiftCrossesMidnight(t *testing.T) {
	ts := newScenarioServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "night-shift"})
	require.Equal(t, http.StatusOK, rec.Code)

	s, err := ts.settings.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "22:00", s.StartTime)
	assert.Equal(t, "06:00", s.EndTime)

	// Monday and Tuesday nights start inside this week
	rec = ts.do(t, http.MethodGet, "/api/stats?period=week&unit=hour", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 17.0, decode[SnapshotDTO](t, rec).TotalWorked, 1e-9)
}

func TestScenarios_UnknownAndBadBody(t *testing.T) {
	ts := newScenarioServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/load", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
