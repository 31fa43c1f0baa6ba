package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshCounter_DropsSupersededRefreshes(t *testing.T) {
	var rc refreshCounter

	first := rc.begin()
	assert.False(t, rc.superseded(first))

	// A second refresh starts while the first fetch is still in flight: the
	// first result must be dropped and only the second written.
	second := rc.begin()
	assert.True(t, rc.superseded(first))
	assert.False(t, rc.superseded(second))
}

func TestNotifyLiveSubscribers(t *testing.T) {
	ch := subscribeLive()
	defer unsubscribeLive(ch)

	NotifyLiveSubscribers()
	select {
	case <-ch:
	default:
		t.Fatal("expected a wakeup signal")
	}

	// A subscriber with a pending wakeup is skipped, never blocked on.
	NotifyLiveSubscribers()
	NotifyLiveSubscribers()
	assert.Len(t, ch, 1)
}
