// Package store provides in-memory worklog store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/worklog-engine/worklog"
)

// =============================================================================
// MEMORY SESSION STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps sessions sorted by StartTime descending.
type Memory struct {
	mu       sync.RWMutex
	sessions []worklog.Session
	changes  worklog.Broadcaster
}

func NewMemory(sessions ...worklog.Session) *Memory {
	m := &Memory{}
	for _, s := range sessions {
		m.upsertLocked(s)
	}
	return m
}

func (m *Memory) All(_ context.Context) ([]worklog.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSessions(m.sessions), nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]worklog.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.sessions) {
		limit = len(m.sessions)
	}
	return cloneSessions(m.sessions[:limit]), nil
}

func (m *Memory) Get(_ context.Context, id worklog.SessionID) (worklog.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexLocked(id)
	if i < 0 {
		return worklog.Session{}, worklog.ErrSessionNotFound
	}
	return cloneSession(m.sessions[i]), nil
}

func (m *Memory) Latest(_ context.Context) (*worklog.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.sessions) == 0 {
		return nil, nil
	}
	s := cloneSession(m.sessions[0])
	return &s, nil
}

func (m *Memory) Insert(_ context.Context, s worklog.Session) error {
	m.mu.Lock()
	if s.ID == "" {
		s.ID = worklog.NewSessionID()
	}
	m.upsertLocked(s)
	m.mu.Unlock()

	m.changes.Notify()
	return nil
}

func (m *Memory) InsertAll(_ context.Context, sessions []worklog.Session) error {
	m.mu.Lock()
	for _, s := range sessions {
		if s.ID == "" {
			s.ID = worklog.NewSessionID()
		}
		m.upsertLocked(s)
	}
	m.mu.Unlock()

	m.changes.Notify()
	return nil
}

func (m *Memory) Update(_ context.Context, s worklog.Session) error {
	m.mu.Lock()
	if m.indexLocked(s.ID) < 0 {
		m.mu.Unlock()
		return worklog.ErrSessionNotFound
	}
	m.upsertLocked(s)
	m.mu.Unlock()

	m.changes.Notify()
	return nil
}

func (m *Memory) Delete(_ context.Context, id worklog.SessionID) error {
	m.mu.Lock()
	m.removeLocked(id)
	m.mu.Unlock()

	m.changes.Notify()
	return nil
}

func (m *Memory) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	m.sessions = nil
	m.mu.Unlock()

	m.changes.Notify()
	return nil
}

func (m *Memory) DeleteBefore(_ context.Context, threshold time.Time) (int, error) {
	m.mu.Lock()
	kept := m.sessions[:0]
	removed := 0
	for _, s := range m.sessions {
		if s.StartTime.Before(threshold) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.sessions = kept
	m.mu.Unlock()

	if removed > 0 {
		m.changes.Notify()
	}
	return removed, nil
}

func (m *Memory) Changes() (<-chan struct{}, func()) {
	return m.changes.Subscribe()
}

func (m *Memory) indexLocked(id worklog.SessionID) int {
	for i, s := range m.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) removeLocked(id worklog.SessionID) {
	if i := m.indexLocked(id); i >= 0 {
		m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
	}
}

func (m *Memory) upsertLocked(s worklog.Session) {
	m.removeLocked(s.ID)

	// Binary search for insertion point (descending by StartTime)
	i := sort.Search(len(m.sessions), func(i int) bool {
		return m.sessions[i].StartTime.Before(s.StartTime)
	})

	m.sessions = append(m.sessions, worklog.Session{})
	copy(m.sessions[i+1:], m.sessions[i:])
	m.sessions[i] = cloneSession(s)
}

func cloneSession(s worklog.Session) worklog.Session {
	if s.EndTime != nil {
		end := *s.EndTime
		s.EndTime = &end
	}
	return s
}

func cloneSessions(in []worklog.Session) []worklog.Session {
	out := make([]worklog.Session, len(in))
	for i, s := range in {
		out[i] = cloneSession(s)
	}
	return out
}

// =============================================================================
// MEMORY SETTINGS STORE
// =============================================================================

type MemorySettings struct {
	mu       sync.RWMutex
	settings *worklog.Settings
	changes  worklog.Broadcaster
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{}
}

func (m *MemorySettings) Settings(_ context.Context) (worklog.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return worklog.DefaultSettings(), nil
	}
	s := *m.settings
	s.WorkingDays = append([]time.Weekday(nil), m.settings.WorkingDays...)
	return s, nil
}

func (m *MemorySettings) SaveSettings(_ context.Context, s worklog.Settings) error {
	m.mu.Lock()
	s.WorkingDays = append([]time.Weekday(nil), s.WorkingDays...)
	m.settings = &s
	m.mu.Unlock()

	m.changes.Notify()
	return nil
}

func (m *MemorySettings) Changes() (<-chan struct{}, func()) {
	return m.changes.Subscribe()
}
