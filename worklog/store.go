/*
store.go - Persistence interfaces for sessions and settings

PURPOSE:
  Defines the boundary between the domain and storage. The stats engine only
  needs the read side (SessionSource, SettingsSource); the clock service and
  the API use the full stores.

KEY INTERFACES:
  SessionSource:  Point-in-time session snapshot + change notifications
  SessionStore:   Full session CRUD, bulk import and cleanup
  SettingsSource: Point-in-time settings snapshot + change notifications
  SettingsStore:  Settings persistence

CHANGE NOTIFICATIONS:
  Changes() returns a channel that receives a value after every write, plus a
  cancel func. Notifications are coalesced: a slow reader sees at least one
  signal after the last write, never a backlog.

IMPLEMENTATIONS:
  - worklog/store/memory.go: In-memory for testing
  - store/sqlite/sqlite.go:  SQLite

SEE ALSO:
  - notify.go: Broadcaster used by both implementations
  - stats/aggregator.go: Subscribes to both sources
*/
package worklog

import (
	"context"
	"time"
)

// =============================================================================
// SESSIONS
// =============================================================================

// SessionSource is the read side consumed by the stats aggregator.
type SessionSource interface {
	// All returns every session ordered by StartTime descending.
	All(ctx context.Context) ([]Session, error)

	// Changes subscribes to write notifications.
	Changes() (<-chan struct{}, func())
}

type SessionStore interface {
	SessionSource

	// Recent returns at most limit sessions, newest first.
	Recent(ctx context.Context, limit int) ([]Session, error)

	// Get returns ErrSessionNotFound if the id is unknown.
	Get(ctx context.Context, id SessionID) (Session, error)

	// Latest returns the session with the greatest StartTime, or nil.
	Latest(ctx context.Context) (*Session, error)

	Insert(ctx context.Context, s Session) error

	// InsertAll upserts, replacing sessions with the same id.
	InsertAll(ctx context.Context, sessions []Session) error

	// Update returns ErrSessionNotFound if the id is unknown.
	Update(ctx context.Context, s Session) error

	Delete(ctx context.Context, id SessionID) error
	DeleteAll(ctx context.Context) error

	// DeleteBefore removes sessions starting strictly before threshold and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, threshold time.Time) (int, error)
}

// =============================================================================
// SETTINGS
// =============================================================================

type SettingsSource interface {
	// Settings returns the stored settings, or DefaultSettings if none were saved.
	Settings(ctx context.Context) (Settings, error)

	Changes() (<-chan struct{}, func())
}

type SettingsStore interface {
	SettingsSource

	SaveSettings(ctx context.Context, s Settings) error
}
