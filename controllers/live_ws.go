package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/models"
)

// liveHub fans snapshot-worker sweeps out to open dashboard connections so
// they refresh right away instead of waiting for their next tick.
var liveHub = struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}{subs: make(map[chan struct{}]struct{})}

func subscribeLive() chan struct{} {
	ch := make(chan struct{}, 1)
	liveHub.mu.Lock()
	liveHub.subs[ch] = struct{}{}
	liveHub.mu.Unlock()
	return ch
}

func unsubscribeLive(ch chan struct{}) {
	liveHub.mu.Lock()
	delete(liveHub.subs, ch)
	liveHub.mu.Unlock()
}

// NotifyLiveSubscribers wakes every live dashboard connection. Safe to call
// from any goroutine; a subscriber that already has a pending wakeup is
// skipped rather than blocked on.
func NotifyLiveSubscribers() {
	liveHub.mu.Lock()
	defer liveHub.mu.Unlock()
	for ch := range liveHub.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

type LiveController struct {
	CRM             crm.Service
	Opt             funnel.Options
	ActivityLimit   int
	RefreshInterval time.Duration
	Logger          *logrus.Entry
}

func NewLiveController(svc crm.Service, opt funnel.Options, activityLimit int, refreshInterval time.Duration, logger *logrus.Logger) *LiveController {
	return &LiveController{
		CRM:             svc,
		Opt:             opt,
		ActivityLimit:   activityLimit,
		RefreshInterval: refreshInterval,
		Logger:          logger.WithField("component", "live"),
	}
}

type liveFrame struct {
	Generation uint64               `json:"generation"`
	Funnel     *models.FunnelResult `json:"funnel"`
}

// refreshCounter numbers a connection's refreshes. A refresh whose number is
// no longer current was superseded while its fetch was in flight and must be
// dropped instead of written.
type refreshCounter struct {
	n uint64
}

func (rc *refreshCounter) begin() uint64 {
	return atomic.AddUint64(&rc.n, 1)
}

func (rc *refreshCounter) superseded(gen uint64) bool {
	return atomic.LoadUint64(&rc.n) != gen
}

// HandleDashboardLiveWS streams recomputed funnel counts for one project and
// channel. Refreshes run in their own goroutines so a slow CRM fetch never
// blocks the next tick or a worker wakeup; when refreshes overlap, the
// generation check keeps a stale result from overwriting a newer frame.
func (lc *LiveController) HandleDashboardLiveWS(conn *websocket.Conn) {
	defer conn.Close()

	projectID := conn.Query("projectId")
	channel, ok := parseChannel(conn.Query("channel", "call"))
	if projectID == "" || !ok {
		_ = conn.WriteJSON(map[string]string{"error": "projectId and a valid channel are required"})
		return
	}
	logger := lc.Logger.WithField("project_id", projectID)

	var (
		counter   refreshCounter
		writeMu   sync.Mutex
		closeOnce sync.Once
	)
	closed := make(chan struct{})
	shutdown := func() { closeOnce.Do(func() { close(closed) }) }

	refresh := func() {
		gen := counter.begin()

		ctx, cancel := context.WithTimeout(context.Background(), lc.RefreshInterval)
		contacts, activities, err := fetchProjectData(ctx, lc.CRM, projectID, lc.ActivityLimit)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("live refresh failed, keeping previous frame")
			return
		}
		if counter.superseded(gen) {
			return
		}

		frame := liveFrame{
			Generation: gen,
			Funnel:     classify(projectID, contacts, activities, channel, funnel.VariantCurrent, lc.Opt),
		}
		writeMu.Lock()
		err = conn.WriteJSON(frame)
		writeMu.Unlock()
		if err != nil {
			logger.WithError(err).Debug("live connection closed on write")
			shutdown()
		}
	}

	// Drain reads so we notice when the client goes away.
	go func() {
		defer shutdown()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	wakeup := subscribeLive()
	defer unsubscribeLive(wakeup)

	ticker := time.NewTicker(lc.RefreshInterval)
	defer ticker.Stop()

	go refresh()
	for {
		select {
		case <-closed:
			return
		case <-wakeup:
			go refresh()
		case <-ticker.C:
			go refresh()
		}
	}
}
