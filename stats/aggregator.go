/*
aggregator.go - Reactive glue around Derive

PURPOSE:
  Keeps one current State for the presentation layer. Whenever the session
  list, the settings, or the selected period/unit changes, it re-reads point
  in time snapshots of both sources and re-runs Derive from scratch.

STATE MACHINE:
  loading -> ready | error, and ready <-> error on later recomputes.
  An error state carries a diagnostic string and no snapshot.

CONCURRENCY:
  Run owns the recompute loop. Refresh may also be called directly (e.g. by
  an HTTP handler wanting a synchronous answer). Both publish through the same
  lock; the last completed recompute wins.

USAGE:
  agg := stats.NewAggregator(sessions, settings, stats.WithLogger(log))
  go agg.Run(ctx)
  states, cancel := agg.Subscribe()
  defer cancel()
  for st := range states { ... }

SEE ALSO:
  - derive.go: The pure computation
  - worklog/store.go: Source interfaces
*/
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/worklog-engine/worklog"
)

type Aggregator struct {
	sessions worklog.SessionSource
	settings worklog.SettingsSource

	now    func() time.Time
	loc    *time.Location
	labels Labels
	logger *zap.Logger

	mu      sync.RWMutex
	request Request
	state   State

	requestChanged chan struct{}

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan State
}

type Option func(*Aggregator)

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option { return func(a *Aggregator) { a.now = now } }

func WithLocation(loc *time.Location) Option { return func(a *Aggregator) { a.loc = loc } }

func WithLabels(l Labels) Option { return func(a *Aggregator) { a.labels = l } }

func WithLogger(l *zap.Logger) Option { return func(a *Aggregator) { a.logger = l } }

func WithRequest(r Request) Option { return func(a *Aggregator) { a.request = r.normalized() } }

func NewAggregator(sessions worklog.SessionSource, settings worklog.SettingsSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		sessions:       sessions,
		settings:       settings,
		now:            time.Now,
		loc:            time.Local,
		labels:         LabelsFor("zh"),
		logger:         zap.NewNop(),
		request:        DefaultRequest(),
		requestChanged: make(chan struct{}, 1),
		subs:           make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	a.state = State{Status: StatusLoading, Request: a.request}
	return a
}

// Current returns the latest published state.
func (a *Aggregator) Current() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Aggregator) Request() Request {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.request
}

// SetRequest changes the selected period/unit and wakes Run.
func (a *Aggregator) SetRequest(r Request) {
	a.mu.Lock()
	a.request = r.normalized()
	a.mu.Unlock()

	select {
	case a.requestChanged <- struct{}{}:
	default:
	}
}

// Refresh recomputes synchronously and publishes the result. A result
// computed for a request that SetRequest replaced meanwhile is discarded and
// recomputed for the new request.
func (a *Aggregator) Refresh(ctx context.Context) State {
	for {
		st := a.compute(ctx, a.Request())
		if a.publish(st) {
			return st
		}
	}
}

func (a *Aggregator) compute(ctx context.Context, req Request) State {
	sessions, err := a.sessions.All(ctx)
	if err != nil {
		a.logger.Error("Failed to read sessions", zap.Error(err))
		return State{Status: StatusError, Request: req, Err: fmt.Sprintf("read sessions: %v", err)}
	}
	settings, err := a.settings.Settings(ctx)
	if err != nil {
		a.logger.Error("Failed to read settings", zap.Error(err))
		return State{Status: StatusError, Request: req, Err: fmt.Sprintf("read settings: %v", err)}
	}

	snap, err := Derive(Input{
		Sessions: sessions,
		Settings: settings,
		Request:  req,
		Now:      a.now(),
		Location: a.loc,
		Labels:   a.labels,
	})
	if err != nil {
		a.logger.Error("Stats derivation failed", zap.Error(err))
		return State{Status: StatusError, Request: req, Err: err.Error()}
	}

	a.logger.Debug("Stats recomputed",
		zap.String("period", string(req.Period)),
		zap.String("unit", string(req.Unit)),
		zap.Int("sessions", snap.SessionCount),
	)
	return State{Status: StatusReady, Request: req, Snapshot: snap}
}

// publish stores st unless its request is stale, and reports whether it did.
func (a *Aggregator) publish(st State) bool {
	a.mu.Lock()
	if st.Request != a.request {
		a.mu.Unlock()
		return false
	}
	a.state = st
	a.mu.Unlock()

	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		// Replace any unread state: subscribers only need the latest.
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
	return true
}

// Subscribe returns a channel receiving every published state (latest only
// if the reader falls behind) and a cancel func that closes it.
func (a *Aggregator) Subscribe() (<-chan State, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextID
	a.nextID++
	ch := make(chan State, 1)
	a.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subMu.Lock()
			defer a.subMu.Unlock()
			delete(a.subs, id)
			close(ch)
		})
	}
}

// Run recomputes once, then on every source or request change, until ctx is done.
func (a *Aggregator) Run(ctx context.Context) error {
	sessCh, cancelSess := a.sessions.Changes()
	defer cancelSess()
	setCh, cancelSet := a.settings.Changes()
	defer cancelSet()

	a.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-sessCh:
			if !ok {
				return nil
			}
		case _, ok := <-setCh:
			if !ok {
				return nil
			}
		case <-a.requestChanged:
		}
		a.Refresh(ctx)
	}
}
