package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/merge"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// ErrRefreshInProgress is returned when Refresh is called during another refresh.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// RefreshController runs the load, parse and merge pipeline
type RefreshController struct {
	loader  Loader
	running atomic.Bool
	seq     atomic.Uint64
	now     func() time.Time
}

// NewRefreshController creates a new RefreshController instance
func NewRefreshController(loader Loader) *RefreshController {
	return &RefreshController{loader: loader, now: time.Now}
}

// Refresh produces a new snapshot. Refreshes never overlap: a concurrent
// call returns ErrRefreshInProgress without touching the sources.
func (rc *RefreshController) Refresh(ctx context.Context) (*model.Snapshot, error) {
	if !rc.running.CompareAndSwap(false, true) {
		return nil, ErrRefreshInProgress
	}
	defer rc.running.Store(false)

	seq := rc.seq.Add(1)
	ctx = util.WithRefreshID(ctx, seq)
	start := time.Now()

	loaded := rc.loader.Load(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, err := merge.Merge(loaded.Archive, loaded.Recent)
	if err != nil {
		return nil, fmt.Errorf("failed to merge sources: %w", err)
	}

	snap := &model.Snapshot{
		Seq:         seq,
		Series:      series,
		Recent:      loaded.RecentStatus,
		Archive:     loaded.ArchiveStatus,
		RefreshedAt: rc.now(),
		Duration:    time.Since(start),
	}

	util.LogCtx(ctx, util.LevelInfo, "refresh complete",
		util.F("rows", series.Len()),
		util.F("archive_rows", series.ArchiveRows),
		util.F("recent_rows", series.RecentRows),
		util.F("dropped_recent", series.DroppedRecent),
		util.F("degraded", snap.Degraded()),
		util.F("duration", snap.Duration))
	return snap, nil
}

// InProgress reports whether a refresh is running.
func (rc *RefreshController) InProgress() bool {
	return rc.running.Load()
}
