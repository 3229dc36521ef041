/*
scheduler.go - Periodic stats refresh

PURPOSE:
  The aggregator recomputes on data changes, but "today" also moves on its
  own: at midnight the current day's bucket changes and at the start of a
  week, month or year the whole period does. The scheduler refreshes the
  aggregator on a fixed interval so the live snapshot follows the clock
  even when nobody writes.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Refreshes immediately on start, then on every tick
  - Logs period rollovers (PeriodStart changed between refreshes)

USAGE:
  scheduler := NewRefreshScheduler(agg, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - stats/aggregator.go: Refresh
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/worklog-engine/stats"
)

// RefreshScheduler periodically recomputes the live stats.
type RefreshScheduler struct {
	Aggregator    *stats.Aggregator
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker     *time.Ticker
	stop       chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	lastPeriod time.Time
	lastReq    stats.Request
}

// NewRefreshScheduler creates a scheduler with a one minute interval.
func NewRefreshScheduler(agg *stats.Aggregator, log *zap.Logger) *RefreshScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RefreshScheduler{
		Aggregator:    agg,
		Logger:        log.Named("scheduler"),
		CheckInterval: time.Minute,
		Enabled:       true,
	}
}

// Start begins the scheduler. Calling Start twice is a no-op.
func (rs *RefreshScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Info("disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	rs.Logger.Info("started", zap.Duration("interval", rs.CheckInterval))
}

// Stop stops the scheduler and waits for an in-flight refresh.
func (rs *RefreshScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info("stopped")
	}
}

func (rs *RefreshScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.refresh()

	for {
		select {
		case <-ticker.C:
			rs.refresh()
		case <-stop:
			return
		}
	}
}

func (rs *RefreshScheduler) refresh() {
	st := rs.Aggregator.Refresh(context.Background())
	if st.Snapshot == nil {
		return
	}

	start := st.Snapshot.PeriodStart
	if !rs.lastPeriod.IsZero() && rs.lastReq == st.Request && !rs.lastPeriod.Equal(start) {
		rs.Logger.Info("stats period rolled over",
			zap.String("period", string(st.Request.Period)),
			zap.Time("from", rs.lastPeriod),
			zap.Time("to", start),
		)
	}
	rs.lastPeriod = start
	rs.lastReq = st.Request
}
