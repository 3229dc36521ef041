/*
Package sqlite provides a SQLite-backed implementation of the worklog stores.

PURPOSE:
  Persists sessions and settings for the local app. Implements
  worklog.SessionStore and worklog.SettingsStore, so the clock service,
  the HTTP API and the stats aggregator all run unchanged on top of it.

KEY TABLES:
  sessions: One row per clock-in (end_ms NULL while clocked in)
  settings: Key/value pairs, one row per settings field

TIME ENCODING:
  Instants are stored as Unix milliseconds (INTEGER). This keeps ORDER BY
  and range deletes exact regardless of the caller's time zone; reads
  return UTC times and the engine converts to the display zone.

CHANGE NOTIFICATION:
  Every successful write signals Changes() subscribers. The aggregator
  subscribes to both stores and recomputes on each signal.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to a
  single connection, since each new connection would see an empty database.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not block
  the writer.

USAGE:
  store, err := sqlite.New("./worklog.db", log)
  if err != nil {
      log.Fatal("open store", zap.Error(err))
  }
  defer store.Close()

  clock := worklog.NewClockService(store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - worklog/store.go: Interface definitions
  - worklog/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/warp/worklog-engine/worklog"
)

// Store implements worklog.SessionStore and worklog.SettingsStore using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	log *zap.Logger

	sessionChanges  worklog.Broadcaster
	settingsChanges worklog.Broadcaster
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database. A nil logger disables logging.
func New(dbPath string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, log: log.Named("sqlite")}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store.log.Debug("store opened", zap.String("path", dbPath))
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		start_ms INTEGER NOT NULL,
		end_ms INTEGER,
		note TEXT NOT NULL DEFAULT '',
		is_holiday BOOLEAN NOT NULL DEFAULT FALSE
	);

	-- Newest-first listing and the period filter both scan by start time
	CREATE INDEX IF NOT EXISTS idx_sessions_start
		ON sessions(start_ms DESC);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SESSION STORE (worklog.SessionStore interface)
// =============================================================================

const sessionColumns = `id, start_ms, end_ms, note, is_holiday`

// All returns every session, newest first.
func (s *Store) All(ctx context.Context) ([]worklog.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySessions(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_ms DESC`)
}

// Recent returns at most limit sessions, newest first. limit <= 0 means all.
func (s *Store) Recent(ctx context.Context, limit int) ([]worklog.Session, error) {
	if limit <= 0 {
		return s.All(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySessions(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_ms DESC LIMIT ?`, limit)
}

func (s *Store) Get(ctx context.Context, id worklog.SessionID) (worklog.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, string(id))
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return worklog.Session{}, worklog.ErrSessionNotFound
	}
	return session, err
}

// Latest returns the session with the greatest start time, or nil if there are none.
func (s *Store) Latest(ctx context.Context) (*worklog.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_ms DESC LIMIT 1`)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) Insert(ctx context.Context, session worklog.Session) error {
	s.mu.Lock()
	err := s.upsert(ctx, s.db, session)
	s.mu.Unlock()

	return s.afterSessionWrite("insert", err)
}

// InsertAll upserts sessions atomically.
func (s *Store) InsertAll(ctx context.Context, sessions []worklog.Session) error {
	s.mu.Lock()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, session := range sessions {
			if err := s.upsert(ctx, tx, session); err != nil {
				return err
			}
		}
		return nil
	})
	s.mu.Unlock()

	return s.afterSessionWrite("insert_all", err)
}

func (s *Store) Update(ctx context.Context, session worklog.Session) error {
	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET start_ms = ?, end_ms = ?, note = ?, is_holiday = ?
		WHERE id = ?`,
		toMillis(session.StartTime), nullMillis(session.EndTime), session.Note, session.IsHoliday, string(session.ID),
	)
	if err == nil {
		if n, _ := res.RowsAffected(); n == 0 {
			err = worklog.ErrSessionNotFound
		}
	}
	s.mu.Unlock()

	if errors.Is(err, worklog.ErrSessionNotFound) {
		return err
	}
	return s.afterSessionWrite("update", err)
}

func (s *Store) Delete(ctx context.Context, id worklog.SessionID) error {
	s.mu.Lock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id))
	s.mu.Unlock()

	return s.afterSessionWrite("delete", err)
}

func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	s.mu.Unlock()

	return s.afterSessionWrite("delete_all", err)
}

// DeleteBefore removes sessions starting strictly before threshold.
func (s *Store) DeleteBefore(ctx context.Context, threshold time.Time) (int, error) {
	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE start_ms < ?`, toMillis(threshold))
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		s.log.Info("deleted sessions", zap.Int64("count", n), zap.Time("before", threshold))
		s.sessionChanges.Notify()
	}
	return int(n), nil
}

func (s *Store) Changes() (<-chan struct{}, func()) {
	return s.sessionChanges.Subscribe()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsert(ctx context.Context, db execer, session worklog.Session) error {
	if session.ID == "" {
		session.ID = worklog.NewSessionID()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (id, start_ms, end_ms, note, is_holiday)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_ms = excluded.start_ms,
			end_ms = excluded.end_ms,
			note = excluded.note,
			is_holiday = excluded.is_holiday`,
		string(session.ID), toMillis(session.StartTime), nullMillis(session.EndTime), session.Note, session.IsHoliday,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *Store) afterSessionWrite(op string, err error) error {
	if err != nil {
		s.log.Error("session write failed", zap.String("op", op), zap.Error(err))
		return err
	}
	s.sessionChanges.Notify()
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]worklog.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []worklog.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (worklog.Session, error) {
	var (
		session worklog.Session
		id      string
		startMs int64
		endMs   sql.NullInt64
	)

	if err := row.Scan(&id, &startMs, &endMs, &session.Note, &session.IsHoliday); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session, err
		}
		return session, fmt.Errorf("failed to scan session: %w", err)
	}

	session.ID = worklog.SessionID(id)
	session.StartTime = fromMillis(startMs)
	if endMs.Valid {
		end := fromMillis(endMs.Int64)
		session.EndTime = &end
	}
	return session, nil
}

// =============================================================================
// SETTINGS STORE (worklog.SettingsStore interface)
// =============================================================================

const (
	keyAnnualSalary    = "annual_salary"
	keyStartTime       = "start_time"
	keyEndTime         = "end_time"
	keyWorkingDays     = "working_days"
	keyReminderEnabled = "reminder_enabled"
)

// Settings returns the persisted settings. Keys never written keep their defaults.
func (s *Store) Settings(ctx context.Context) (worklog.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return worklog.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := worklog.DefaultSettings()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return worklog.Settings{}, fmt.Errorf("failed to scan setting: %w", err)
		}
		switch key {
		case keyAnnualSalary:
			settings.AnnualSalary = value
		case keyStartTime:
			settings.StartTime = value
		case keyEndTime:
			settings.EndTime = value
		case keyWorkingDays:
			settings.WorkingDays = decodeWeekdays(value)
		case keyReminderEnabled:
			settings.ReminderEnabled, _ = strconv.ParseBool(value)
		default:
			s.log.Warn("ignoring unknown setting", zap.String("key", key))
		}
	}

	return settings, rows.Err()
}

// SaveSettings writes every field in one transaction.
func (s *Store) SaveSettings(ctx context.Context, settings worklog.Settings) error {
	days, err := encodeWeekdays(settings.WorkingDays)
	if err != nil {
		return err
	}
	values := map[string]string{
		keyAnnualSalary:    settings.AnnualSalary,
		keyStartTime:       settings.StartTime,
		keyEndTime:         settings.EndTime,
		keyWorkingDays:     days,
		keyReminderEnabled: strconv.FormatBool(settings.ReminderEnabled),
	}

	s.mu.Lock()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO settings (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
			if err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return nil
	})
	s.mu.Unlock()

	if err != nil {
		s.log.Error("settings write failed", zap.Error(err))
		return err
	}
	s.settingsChanges.Notify()
	return nil
}

// SettingsChanges signals after every settings write.
func (s *Store) SettingsChanges() (<-chan struct{}, func()) {
	return s.settingsChanges.Subscribe()
}

// SettingsView exposes the settings half of the store as a worklog.SettingsStore,
// whose Changes method reports settings writes rather than session writes.
func (s *Store) SettingsView() worklog.SettingsStore {
	return settingsView{s}
}

type settingsView struct{ s *Store }

func (v settingsView) Settings(ctx context.Context) (worklog.Settings, error) {
	return v.s.Settings(ctx)
}

func (v settingsView) SaveSettings(ctx context.Context, settings worklog.Settings) error {
	return v.s.SaveSettings(ctx, settings)
}

func (v settingsView) Changes() (<-chan struct{}, func()) {
	return v.s.SettingsChanges()
}

// Helper functions

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func encodeWeekdays(days []time.Weekday) (string, error) {
	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	b, err := json.Marshal(ints)
	if err != nil {
		return "", fmt.Errorf("failed to encode working days: %w", err)
	}
	return string(b), nil
}

// decodeWeekdays accepts the JSON form and, for rows written by hand, a
// comma separated list such as "1,2,3".
func decodeWeekdays(value string) []time.Weekday {
	var ints []int
	if err := json.Unmarshal([]byte(value), &ints); err != nil {
		ints = ints[:0]
		for _, part := range strings.Split(value, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				ints = append(ints, n)
			}
		}
	}

	days := make([]time.Weekday, 0, len(ints))
	for _, n := range ints {
		if n >= int(time.Sunday) && n <= int(time.Saturday) {
			days = append(days, time.Weekday(n))
		}
	}
	return days
}
