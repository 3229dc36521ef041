package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/warp/worklog-engine/store/sqlite"
	"github.com/warp/worklog-engine/worklog"
)

var base = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func closedSession(id string, start time.Time, d time.Duration) worklog.Session {
	end := start.Add(d)
	return worklog.Session{ID: worklog.SessionID(id), StartTime: start, EndTime: &end}
}

func TestStore_InsertAndList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Insert(ctx, closedSession("a", base, time.Hour)))
	require.NoError(t, store.Insert(ctx, closedSession("b", base.Add(24*time.Hour), 2*time.Hour)))
	require.NoError(t, store.Insert(ctx, worklog.Session{ID: "open", StartTime: base.Add(48 * time.Hour), Note: "today"}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, worklog.SessionID("open"), all[0].ID)
	assert.True(t, all[0].IsOpen())
	assert.Equal(t, "today", all[0].Note)
	assert.Equal(t, 2*time.Hour, all[1].Duration())

	recent, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, worklog.SessionID("open"), latest.ID)
}

func TestStore_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, worklog.ErrSessionNotFound)
}

func TestStore_PreservesMillisecondInstants(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	start := base.Add(123 * time.Millisecond)

	require.NoError(t, store.Insert(ctx, closedSession("a", start, 90*time.Minute)))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.StartTime.Equal(start))
	assert.Equal(t, 90*time.Minute, got.Duration())
}

func TestStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.Insert(ctx, closedSession("a", base, time.Hour)))

	assert.ErrorIs(t, store.Update(ctx, closedSession("nope", base, time.Hour)), worklog.ErrSessionNotFound)

	s, err := store.Get(ctx, "a")
	require.NoError(t, err)
	s.IsHoliday = true
	s.Note = "national day"
	require.NoError(t, store.Update(ctx, s))

	got, _ := store.Get(ctx, "a")
	assert.True(t, got.IsHoliday)
	assert.Equal(t, "national day", got.Note)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, worklog.ErrSessionNotFound)
}

func TestStore_InsertAllUpserts(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.Insert(ctx, closedSession("a", base, time.Hour)))

	err := store.InsertAll(ctx, []worklog.Session{
		closedSession("a", base, 3*time.Hour),
		closedSession("b", base.Add(time.Hour), time.Hour),
	})
	require.NoError(t, err)

	a, _ := store.Get(ctx, "a")
	assert.Equal(t, 3*time.Hour, a.Duration())

	all, _ := store.All(ctx)
	assert.Len(t, all, 2)

	require.NoError(t, store.DeleteAll(ctx))
	all, _ = store.All(ctx)
	assert.Empty(t, all)
}

func TestStore_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.InsertAll(ctx, []worklog.Session{
		closedSession("epoch", time.Unix(0, 0), time.Hour),
		closedSession("y2k", worklog.InvalidDataThreshold, time.Hour),
		closedSession("now", base, time.Hour),
	}))

	n, err := store.DeleteBefore(ctx, worklog.InvalidDataThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, _ := store.All(ctx)
	assert.Len(t, all, 2, "a session exactly at the threshold is kept")
}

func TestStore_ChangesFireOnWrites(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	sessions, cancelSessions := store.Changes()
	defer cancelSessions()
	settings, cancelSettings := store.SettingsView().Changes()
	defer cancelSettings()

	require.NoError(t, store.Insert(ctx, closedSession("a", base, time.Hour)))

	select {
	case <-sessions:
	case <-time.After(time.Second):
		t.Fatal("session write did not notify")
	}
	select {
	case <-settings:
		t.Fatal("session write must not notify settings subscribers")
	default:
	}

	require.NoError(t, store.SaveSettings(ctx, worklog.DefaultSettings()))
	select {
	case <-settings:
	case <-time.After(time.Second):
		t.Fatal("settings write did not notify")
	}
}

func TestStore_SettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	defaults, err := store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, worklog.DefaultSettings(), defaults)

	want := worklog.Settings{
		AnnualSalary:    "360000.50",
		StartTime:       "10:00",
		EndTime:         "19:30",
		WorkingDays:     []time.Weekday{time.Monday, time.Wednesday, time.Saturday},
		ReminderEnabled: true,
	}
	require.NoError(t, store.SettingsView().SaveSettings(ctx, want))

	got, err := store.SettingsView().Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "worklog.db")

	first, err := sqlite.New(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Insert(ctx, closedSession("a", base, time.Hour)))
	require.NoError(t, first.Close())

	second, err := sqlite.New(path, nil)
	require.NoError(t, err)
	defer second.Close()

	all, err := second.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, worklog.SessionID("a"), all[0].ID)
}
