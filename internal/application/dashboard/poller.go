package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/data/cache"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// refreshInto runs one refresh and publishes its outcome to state.
// It reports whether a new snapshot was stored.
func refreshInto(ctx context.Context, refresher Refresher, state *StateManager, force bool) bool {
	if force {
		ctx = cache.WithBypass(ctx)
	}

	state.SetLoadingState(true, "Refreshing data...")
	snap, err := refresher.Refresh(ctx)
	switch {
	case errors.Is(err, ErrRefreshInProgress):
		util.LogDebug("Refresh skipped, another one is running")
		return false
	case err != nil:
		util.LogCtx(ctx, util.LevelError, "refresh failed", util.F("error", err))
		state.SetLastError(err.Error())
		state.SetLoadingState(false, "")
		return false
	}

	state.SetSnapshot(snap)
	state.SetLoadingState(false, "")
	return true
}

// Poller refreshes on a fixed interval without a terminal. The web
// dashboard reads its snapshots from the shared StateManager.
type Poller struct {
	refresher Refresher
	state     *StateManager
	interval  time.Duration
	watcher   FileMonitor
	trigger   chan struct{}
}

// NewPoller creates a poller. watcher may be nil.
func NewPoller(refresher Refresher, state *StateManager, interval time.Duration, watcher FileMonitor) *Poller {
	return &Poller{
		refresher: refresher,
		state:     state,
		interval:  interval,
		watcher:   watcher,
		trigger:   make(chan struct{}, 1),
	}
}

// Trigger requests an immediate refresh. Requests made while one is
// pending are coalesced.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	util.LogWith(util.LevelInfo, "starting refresh poller", util.F("interval", p.interval))

	var fileEvents <-chan source.FileEvent
	if p.watcher != nil {
		fileEvents = p.watcher.Events()
	}

	refreshInto(ctx, p.refresher, p.state, false)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Refresh poller stopped")
			return nil
		case <-ticker.C:
			refreshInto(ctx, p.refresher, p.state, false)
		case <-p.trigger:
			refreshInto(ctx, p.refresher, p.state, true)
		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			util.LogDebugf("Source file changed: %s (%s)", event.Path, event.Operation)
			refreshInto(ctx, p.refresher, p.state, false)
		}
	}
}
