package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

type bypassKey struct{}

// WithBypass marks ctx so CachedSource fetches fresh data and overwrites
// the current cycle's entry.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// Bypassed reports whether ctx was marked with WithBypass.
func Bypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}

// CachedSource serves a source from cache for the rest of its cycle.
type CachedSource struct {
	inner source.Source
	cache Cache
	ttl   time.Duration
	now   func() time.Time

	fetches atomic.Uint64
}

func NewCachedSource(inner source.Source, c Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, cache: c, ttl: ttl, now: time.Now}
}

func (s *CachedSource) Name() string {
	return s.inner.Name()
}

// Fetches returns how many times the wrapped source was called.
func (s *CachedSource) Fetches() uint64 {
	return s.fetches.Load()
}

func (s *CachedSource) Fetch(ctx context.Context) (source.Grid, error) {
	now := s.now()
	key := KeyFor(s.inner.Name(), now, s.ttl)

	if !Bypassed(ctx) {
		grid, err := s.cache.Get(key)
		if err == nil {
			util.LogCtx(ctx, util.LevelDebug, "cache hit", util.F("key", key.String()))
			return grid, nil
		}
		if !errors.Is(err, ErrMiss) {
			util.LogWarnf("Cache lookup for %s failed: %v", key, err)
		}
	}

	s.fetches.Add(1)
	grid, err := s.inner.Fetch(ctx)
	if err != nil {
		return source.Grid{}, err
	}

	if ttl := CycleEnd(now, s.ttl).Sub(now); ttl > 0 {
		if err := s.cache.Set(key, grid, ttl); err != nil {
			util.LogWarnf("Failed to cache %s: %v", key, err)
		}
	}
	return grid, nil
}
