/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Small response wrappers

UNITS:
  Durations in session and clock payloads are whole seconds. Stats values
  are expressed in the snapshot's unit (hours or minutes). Money amounts
  are decimal strings rounded to two places.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/worklog-engine/calculator"
	"github.com/warp/worklog-engine/stats"
	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// SESSIONS
// =============================================================================

// SessionDTO represents a session in API responses.
type SessionDTO struct {
	ID              string     `json:"id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Note            string     `json:"note"`
	IsHoliday       bool       `json:"is_holiday"`
	IsOpen          bool       `json:"is_open"`
}

// UpdateSessionRequest is the PATCH body. Absent fields are left unchanged.
type UpdateSessionRequest struct {
	Note      *string `json:"note"`
	IsHoliday *bool   `json:"is_holiday"`
}

// CleanupResponse reports how many invalid sessions were removed.
type CleanupResponse struct {
	Removed int `json:"removed"`
}

// ClockStatusDTO is the home-screen clock state.
type ClockStatusDTO struct {
	Working        bool        `json:"working"`
	Latest         *SessionDTO `json:"latest,omitempty"`
	ElapsedSeconds int64       `json:"elapsed_seconds"`
	Timer          string      `json:"timer"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsDTO is used for both GET and PUT /api/settings.
type SettingsDTO struct {
	AnnualSalary    string   `json:"annual_salary"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	WorkingDays     []string `json:"working_days"` // "MONDAY".."SUNDAY"
	ReminderEnabled bool     `json:"reminder_enabled"`
}

// =============================================================================
// STATS
// =============================================================================

type BucketDTO struct {
	Label    string  `json:"label"`
	Regular  float64 `json:"regular"`
	Overtime float64 `json:"overtime"`
	Standard float64 `json:"standard"`
}

// SnapshotDTO is one derived stats view.
type SnapshotDTO struct {
	Period      string      `json:"period"`
	Unit        string      `json:"unit"`
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	ChartSeries []BucketDTO `json:"chart_series"`

	TotalWorked   float64 `json:"total_worked"`
	TotalOvertime float64 `json:"total_overtime"`

	StandardWage        string  `json:"standard_wage"`
	ActualWage          string  `json:"actual_wage"`
	PeriodPay           string  `json:"period_pay"`
	IsWageStandard      bool    `json:"is_wage_standard"`
	WageDecreasePercent float64 `json:"wage_decrease_percent"`

	StandardWorkdays        int     `json:"standard_workdays"`
	StandardWorkHoursPerDay float64 `json:"standard_work_hours_per_day"`
	SessionCount            int     `json:"session_count"`
}

// StateDTO is the aggregator state.
type StateDTO struct {
	Status   string       `json:"status"`
	Period   string       `json:"period"`
	Unit     string       `json:"unit"`
	Snapshot *SnapshotDTO `json:"snapshot,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// StatsRequestDTO is the PUT /api/stats/request body.
type StatsRequestDTO struct {
	Period string `json:"period"`
	Unit   string `json:"unit"`
}

// =============================================================================
// CALCULATOR
// =============================================================================

type CalculatorRequest = calculator.Input

type CalculatorResponse struct {
	Cash              string `json:"cash"`
	StockGrantValue   string `json:"stock_grant_value"`
	AnnualStockValue  string `json:"annual_stock_value"`
	Total             string `json:"total"`
	TotalDisplay      string `json:"total_display,omitempty"` // e.g. "≈50.6万"
	MonthlyEquivalent string `json:"monthly_equivalent"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ScenarioDTO describes a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// LoadScenarioResponse reports what was loaded.
type LoadScenarioResponse struct {
	Status   string `json:"status"`
	Scenario string `json:"scenario"`
	Sessions int    `json:"sessions"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toSessionDTO(s worklog.Session) SessionDTO {
	return SessionDTO{
		ID:              string(s.ID),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationSeconds: int64(s.Duration() / time.Second),
		Note:            s.Note,
		IsHoliday:       s.IsHoliday,
		IsOpen:          s.IsOpen(),
	}
}

func toSessionDTOs(sessions []worklog.Session) []SessionDTO {
	dtos := make([]SessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = toSessionDTO(s)
	}
	return dtos
}

func toClockStatusDTO(st worklog.Status) ClockStatusDTO {
	dto := ClockStatusDTO{
		Working:        st.Working,
		ElapsedSeconds: int64(st.Elapsed / time.Second),
		Timer:          st.Timer,
	}
	if st.Latest != nil {
		latest := toSessionDTO(*st.Latest)
		dto.Latest = &latest
	}
	return dto
}

func toSettingsDTO(s worklog.Settings) SettingsDTO {
	days := make([]string, len(s.WorkingDays))
	for i, d := range s.WorkingDays {
		days[i] = strings.ToUpper(d.String())
	}
	return SettingsDTO{
		AnnualSalary:    s.AnnualSalary,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		WorkingDays:     days,
		ReminderEnabled: s.ReminderEnabled,
	}
}

func fromSettingsDTO(dto SettingsDTO) (worklog.Settings, error) {
	days := make([]time.Weekday, 0, len(dto.WorkingDays))
	for _, name := range dto.WorkingDays {
		d, err := worklog.ParseWeekday(name)
		if err != nil {
			return worklog.Settings{}, &worklog.SettingsError{Field: "working_days", Value: name, Reason: "unknown weekday"}
		}
		days = append(days, d)
	}
	return worklog.Settings{
		AnnualSalary:    strings.TrimSpace(dto.AnnualSalary),
		StartTime:       strings.TrimSpace(dto.StartTime),
		EndTime:         strings.TrimSpace(dto.EndTime),
		WorkingDays:     worklog.NewWeekdaySet(days...).Days(),
		ReminderEnabled: dto.ReminderEnabled,
	}, nil
}

func toSnapshotDTO(s *stats.Snapshot) *SnapshotDTO {
	if s == nil {
		return nil
	}
	series := make([]BucketDTO, len(s.ChartSeries))
	for i, b := range s.ChartSeries {
		series[i] = BucketDTO{Label: b.Label, Regular: b.Regular, Overtime: b.Overtime, Standard: b.Standard}
	}
	return &SnapshotDTO{
		Period:                  string(s.Request.Period),
		Unit:                    string(s.Request.Unit),
		PeriodStart:             s.PeriodStart,
		PeriodEnd:               s.PeriodEnd,
		ChartSeries:             series,
		TotalWorked:             s.TotalWorkedValue(),
		TotalOvertime:           s.TotalOvertimeValue(),
		StandardWage:            money(s.StandardWage),
		ActualWage:              money(s.ActualWage),
		PeriodPay:               money(s.PeriodPay),
		IsWageStandard:          s.IsWageStandard,
		WageDecreasePercent:     s.WageDecreasePercent,
		StandardWorkdays:        s.StandardWorkdays,
		StandardWorkHoursPerDay: s.StandardWorkHoursPerDay,
		SessionCount:            s.SessionCount,
	}
}

func toStateDTO(st stats.State) StateDTO {
	return StateDTO{
		Status:   string(st.Status),
		Period:   string(st.Request.Period),
		Unit:     string(st.Request.Unit),
		Snapshot: toSnapshotDTO(st.Snapshot),
		Error:    st.Err,
	}
}

func toCalculatorResponse(r calculator.Result) CalculatorResponse {
	return CalculatorResponse{
		Cash:              r.Cash.StringFixed(2),
		StockGrantValue:   r.StockGrantValue.StringFixed(2),
		AnnualStockValue:  r.AnnualStockValue.StringFixed(2),
		Total:             r.Total.StringFixed(2),
		TotalDisplay:      calculator.FormatWan(r.Total),
		MonthlyEquivalent: r.MonthlyEquivalent.StringFixed(2),
	}
}

// parseStatsRequest reads period/unit, defaulting blanks.
func parseStatsRequest(period, unit string) (stats.Request, error) {
	req := stats.DefaultRequest()
	if period != "" {
		p, err := stats.ParsePeriod(period)
		if err != nil {
			return stats.Request{}, err
		}
		req.Period = p
	}
	if unit != "" {
		u, err := stats.ParseUnit(unit)
		if err != nil {
			return stats.Request{}, err
		}
		req.Unit = u
	}
	return req, nil
}

// money rounds a float amount half away from zero to two places.
func money(f float64) string {
	return decimal.NewFromFloat(f).Round(2).StringFixed(2)
}
