/*
clock.go - Clock in/out and session maintenance

PURPOSE:
  The write side the user drives from the home screen: clock in, clock out,
  edit a session's note or holiday flag, and purge obviously invalid data.

STATE RULE:
  "Working" means the latest session (by StartTime) has no EndTime. The store
  tolerates several open sessions (imports can produce them) but the clock
  only ever closes the latest one.

TIMER:
  Status reports the running duration as HH:MM:SS, hours not wrapped at 24.

SEE ALSO:
  - store.go: SessionStore
  - api/handlers.go: Exposes these operations over HTTP
*/
package worklog

import (
	"context"
	"fmt"
	"time"
)

// InvalidDataThreshold: sessions starting before this are treated as corrupt.
var InvalidDataThreshold = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ClockService wraps a SessionStore with clock semantics.
type ClockService struct {
	Store SessionStore
}

func NewClockService(store SessionStore) *ClockService {
	return &ClockService{Store: store}
}

// Status is the home-screen view of the clock.
type Status struct {
	Working bool
	Latest  *Session
	Elapsed time.Duration
	Timer   string
}

// ClockIn opens a new session starting at now.
func (c *ClockService) ClockIn(ctx context.Context, now time.Time) (Session, error) {
	latest, err := c.Store.Latest(ctx)
	if err != nil {
		return Session{}, err
	}
	if latest != nil && latest.IsOpen() {
		return Session{}, ErrAlreadyClockedIn
	}

	s := Session{ID: NewSessionID(), StartTime: now}
	if err := c.Store.Insert(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// ClockOut closes the latest session at now.
func (c *ClockService) ClockOut(ctx context.Context, now time.Time) (Session, error) {
	latest, err := c.Store.Latest(ctx)
	if err != nil {
		return Session{}, err
	}
	if latest == nil || !latest.IsOpen() {
		return Session{}, ErrNotClockedIn
	}

	closed := *latest
	end := now
	closed.EndTime = &end
	if err := c.Store.Update(ctx, closed); err != nil {
		return Session{}, err
	}
	return closed, nil
}

// Toggle clocks out when working, otherwise clocks in.
func (c *ClockService) Toggle(ctx context.Context, now time.Time) (Session, error) {
	latest, err := c.Store.Latest(ctx)
	if err != nil {
		return Session{}, err
	}
	if latest != nil && latest.IsOpen() {
		return c.ClockOut(ctx, now)
	}
	return c.ClockIn(ctx, now)
}

func (c *ClockService) Status(ctx context.Context, now time.Time) (Status, error) {
	latest, err := c.Store.Latest(ctx)
	if err != nil {
		return Status{}, err
	}
	st := Status{Latest: latest, Timer: FormatTimer(0)}
	if latest != nil && latest.IsOpen() {
		st.Working = true
		st.Elapsed = latest.Elapsed(now)
		st.Timer = FormatTimer(st.Elapsed)
	}
	return st, nil
}

// UpdateNote replaces a session's note.
func (c *ClockService) UpdateNote(ctx context.Context, id SessionID, note string) (Session, error) {
	s, err := c.Store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	s.Note = note
	if err := c.Store.Update(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// SetHoliday flags a session as worked on a statutory holiday.
func (c *ClockService) SetHoliday(ctx context.Context, id SessionID, holiday bool) (Session, error) {
	s, err := c.Store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	s.IsHoliday = holiday
	if err := c.Store.Update(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// CleanupInvalid deletes sessions dated before InvalidDataThreshold.
func (c *ClockService) CleanupInvalid(ctx context.Context) (int, error) {
	return c.Store.DeleteBefore(ctx, InvalidDataThreshold)
}

// FormatTimer renders d as HH:MM:SS.
func FormatTimer(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
