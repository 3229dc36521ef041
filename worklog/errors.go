/*
errors.go - Error types for the worklog domain

ERROR CATEGORIES:
  1. Lookup errors  - Missing sessions
  2. Clock errors   - Clock in/out in the wrong state
  3. Settings errors - Rejected user input on the write path

USAGE:
    if errors.Is(err, worklog.ErrAlreadyClockedIn) {
        // show "already working"
    }

SEE ALSO:
  - clock.go: Returns clock errors
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package worklog

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSessionNotFound is returned when a referenced session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAlreadyClockedIn is returned by ClockIn while a session is open.
	ErrAlreadyClockedIn = errors.New("already clocked in")

	// ErrNotClockedIn is returned by ClockOut when no session is open.
	ErrNotClockedIn = errors.New("not clocked in")

	// ErrInvalidSettings is returned when settings fail validation.
	ErrInvalidSettings = errors.New("invalid settings")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// SettingsError names the offending settings field.
type SettingsError struct {
	Field  string
	Value  string
	Reason string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *SettingsError) Unwrap() error {
	return ErrInvalidSettings
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// IsClientError returns true if the error is due to invalid client input or state.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNotClockedIn)
}
