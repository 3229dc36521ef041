/*
handlers.go - HTTP API handlers for the worklog engine

PURPOSE:
  Exposes the clock, the session history, the settings and the stats
  engine via a local REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Sessions:
    GET    /api/sessions?limit=N       Newest-first history
    GET    /api/sessions/latest        Most recent session
    GET    /api/sessions/{id}          One session
    PATCH  /api/sessions/{id}          Edit note / holiday flag
    DELETE /api/sessions/{id}          Remove a session
    POST   /api/sessions/cleanup       Purge sessions dated before 2000

  Clock:
    GET    /api/clock/status           Working state and HH:MM:SS timer
    POST   /api/clock/toggle           Clock in or out
    POST   /api/clock/in               Clock in (409 if already working)
    POST   /api/clock/out              Clock out (409 if not working)

  Settings:
    GET    /api/settings
    PUT    /api/settings               Validated before saving

  Stats:
    GET    /api/stats?period=&unit=    One-shot derivation
    GET    /api/stats/current          Live aggregator state
    PUT    /api/stats/request          Change the live period/unit

  Calculator:
    POST   /api/calculator             Yearly package estimate

  Scenarios (only when Handler.Scenarios is set):
    GET    /api/scenarios              Available demo data sets
    GET    /api/scenarios/current      Last loaded scenario
    POST   /api/scenarios/load         Replace all data with a scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Session not found
  - 409: Clock in/out in the wrong state
  - 500: Storage or computation failures

SECURITY NOTE:
  No authentication. The server binds to 127.0.0.1 by default and is meant
  for a single local user.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/worklog-engine/calculator"
	"github.com/warp/worklog-engine/stats"
	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Sessions   worklog.SessionStore
	Settings   worklog.SettingsStore
	Clock      *worklog.ClockService
	Aggregator *stats.Aggregator
	Logger     *zap.Logger

	// Overridable for tests
	Now      func() time.Time
	Location *time.Location
	Labels   stats.Labels

	// Scenarios registers the demo scenario routes.
	Scenarios bool

	scenarioMu      sync.Mutex
	currentScenario string
}

// NewHandler creates a handler over the given stores. A nil logger disables logging.
func NewHandler(sessions worklog.SessionStore, settings worklog.SettingsStore, agg *stats.Aggregator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Sessions:   sessions,
		Settings:   settings,
		Clock:      worklog.NewClockService(sessions),
		Aggregator: agg,
		Logger:     log,
		Now:        time.Now,
		Location:   time.Local,
		Labels:     stats.LabelsFor("zh"),
	}
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// ListSessions returns the session history, newest first.
// GET /api/sessions?limit=N
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	sessions, err := h.Sessions.Recent(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, "Failed to list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTOs(sessions))
}

// GetLatestSession returns the most recent session.
// GET /api/sessions/latest
func (h *Handler) GetLatestSession(w http.ResponseWriter, r *http.Request) {
	latest, err := h.Sessions.Latest(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to load latest session", err)
		return
	}
	if latest == nil {
		writeError(w, http.StatusNotFound, "No sessions recorded", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(*latest))
}

// GetSession returns one session.
// GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := worklog.SessionID(chi.URLParam(r, "id"))

	s, err := h.Sessions.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to load session", err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(s))
}

// UpdateSession edits the note and/or holiday flag.
// PATCH /api/sessions/{id}
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := worklog.SessionID(chi.URLParam(r, "id"))

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.Sessions.Get(ctx, id)
	if err != nil {
		h.writeDomainError(w, "Failed to load session", err)
		return
	}
	if req.Note != nil {
		if s, err = h.Clock.UpdateNote(ctx, id, *req.Note); err != nil {
			h.writeDomainError(w, "Failed to update note", err)
			return
		}
	}
	if req.IsHoliday != nil {
		if s, err = h.Clock.SetHoliday(ctx, id, *req.IsHoliday); err != nil {
			h.writeDomainError(w, "Failed to update holiday flag", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toSessionDTO(s))
}

// DeleteSession removes a session.
// DELETE /api/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := worklog.SessionID(chi.URLParam(r, "id"))

	if _, err := h.Sessions.Get(ctx, id); err != nil {
		h.writeDomainError(w, "Failed to load session", err)
		return
	}
	if err := h.Sessions.Delete(ctx, id); err != nil {
		h.writeDomainError(w, "Failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CleanupSessions purges sessions dated before the invalid-data threshold.
// POST /api/sessions/cleanup
func (h *Handler) CleanupSessions(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Clock.CleanupInvalid(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to clean up sessions", err)
		return
	}
	h.Logger.Info("cleaned up invalid sessions", zap.Int("removed", removed))
	writeJSON(w, http.StatusOK, CleanupResponse{Removed: removed})
}

// =============================================================================
// CLOCK HANDLERS
// =============================================================================

// ClockStatus returns the working state.
// GET /api/clock/status
func (h *Handler) ClockStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Clock.Status(r.Context(), h.Now())
	if err != nil {
		h.writeDomainError(w, "Failed to load clock status", err)
		return
	}
	writeJSON(w, http.StatusOK, toClockStatusDTO(st))
}

// ClockToggle clocks in or out.
// POST /api/clock/toggle
func (h *Handler) ClockToggle(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, h.Clock.Toggle)
}

// ClockIn opens a session.
// POST /api/clock/in
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, h.Clock.ClockIn)
}

// ClockOut closes the open session.
// POST /api/clock/out
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, h.Clock.ClockOut)
}

func (h *Handler) clockAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, now time.Time) (worklog.Session, error)) {
	ctx := r.Context()
	now := h.Now()

	s, err := action(ctx, now)
	if err != nil {
		h.writeDomainError(w, "Clock action failed", err)
		return
	}
	h.Logger.Info("clock action",
		zap.String("path", r.URL.Path),
		zap.String("session_id", string(s.ID)),
		zap.Bool("working", s.IsOpen()),
	)

	st, err := h.Clock.Status(ctx, now)
	if err != nil {
		h.writeDomainError(w, "Failed to load clock status", err)
		return
	}
	writeJSON(w, http.StatusOK, toClockStatusDTO(st))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the stored settings.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Settings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

// PutSettings validates and saves the settings.
// PUT /api/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := fromSettingsDTO(dto)
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		h.writeDomainError(w, "Invalid settings", err)
		return
	}

	if err := h.Settings.SaveSettings(r.Context(), s); err != nil {
		h.writeDomainError(w, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

// =============================================================================
// STATS HANDLERS
// =============================================================================

// GetStats derives a snapshot for the requested period and unit.
// GET /api/stats?period=week|month|year&unit=hour|minute
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	req, err := parseStatsRequest(q.Get("period"), q.Get("unit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stats request", err)
		return
	}

	sessions, err := h.Sessions.All(ctx)
	if err != nil {
		h.writeDomainError(w, "Failed to load sessions", err)
		return
	}
	settings, err := h.Settings.Settings(ctx)
	if err != nil {
		h.writeDomainError(w, "Failed to load settings", err)
		return
	}

	snap, err := stats.Derive(stats.Input{
		Sessions: sessions,
		Settings: settings,
		Request:  req,
		Now:      h.Now(),
		Location: h.Location,
		Labels:   h.Labels,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

// GetCurrentStats returns the live aggregator state.
// GET /api/stats/current
func (h *Handler) GetCurrentStats(w http.ResponseWriter, r *http.Request) {
	if h.Aggregator == nil {
		writeError(w, http.StatusServiceUnavailable, "Live stats are not running", nil)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(h.Aggregator.Current()))
}

// PutStatsRequest changes the live period/unit and returns the recomputed state.
// PUT /api/stats/request
func (h *Handler) PutStatsRequest(w http.ResponseWriter, r *http.Request) {
	if h.Aggregator == nil {
		writeError(w, http.StatusServiceUnavailable, "Live stats are not running", nil)
		return
	}

	var dto StatsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := parseStatsRequest(dto.Period, dto.Unit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stats request", err)
		return
	}

	h.Aggregator.SetRequest(req)
	writeJSON(w, http.StatusOK, toStateDTO(h.Aggregator.Refresh(r.Context())))
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// Calculate estimates a yearly compensation package.
// POST /api/calculator
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalculatorResponse(calculator.Compute(req)))
}

// =============================================================================
// HELPERS
// =============================================================================

// writeDomainError maps domain errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case worklog.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, worklog.ErrAlreadyClockedIn), errors.Is(err, worklog.ErrNotClockedIn):
		writeError(w, http.StatusConflict, message, err)
	case worklog.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
