package worklog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/worklog-engine/worklog"
)

func TestBroadcaster_FanOutAndCoalesce(t *testing.T) {
	var b worklog.Broadcaster
	first, cancelFirst := b.Subscribe()
	second, cancelSecond := b.Subscribe()
	defer cancelSecond()

	b.Notify()
	b.Notify()

	assert.Len(t, first, 1, "pending signals coalesce")
	assert.Len(t, second, 1)

	cancelFirst()
	cancelFirst() // idempotent
	<-first
	_, ok := <-first
	assert.False(t, ok, "cancel closes the channel")

	<-second
	b.Notify()
	assert.Len(t, second, 1, "remaining subscribers still notified")
}

func TestBroadcaster_NotifyWithoutSubscribers(t *testing.T) {
	var b worklog.Broadcaster
	assert.NotPanics(t, b.Notify)
}
