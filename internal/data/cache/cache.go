// Package cache keeps fetched worksheet grids for the length of their
// refresh cycle, in memory and optionally on disk.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/data/source"
)

// ErrMiss is returned by Get when no live entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Key identifies one grid: a source during one refresh cycle.
type Key struct {
	Source string
	Cycle  int64
}

func (k Key) String() string {
	return fmt.Sprintf("grid/%s/%d", k.Source, k.Cycle)
}

// Cycle returns floor(now / ttl), counting ttl sized windows since the Unix
// epoch. All fetches inside the same window share a cache entry.
func Cycle(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		return now.UnixNano()
	}
	return now.UnixNano() / int64(ttl)
}

// CycleEnd returns the instant the cycle containing now expires.
func CycleEnd(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return now
	}
	return time.Unix(0, (Cycle(now, ttl)+1)*int64(ttl))
}

// KeyFor builds the key of source at now.
func KeyFor(sourceName string, now time.Time, ttl time.Duration) Key {
	return Key{Source: sourceName, Cycle: Cycle(now, ttl)}
}

// Cache stores grids with a lifetime.
type Cache interface {
	Get(key Key) (source.Grid, error)
	Set(key Key, grid source.Grid, ttl time.Duration) error
	Clear() error
	Close() error
}

// Stats counts lookups.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

func copyGrid(g source.Grid) source.Grid {
	out := source.Grid{Header: append([]string(nil), g.Header...)}
	if g.Rows != nil {
		out.Rows = make([][]string, len(g.Rows))
		for i, r := range g.Rows {
			out.Rows[i] = append([]string(nil), r...)
		}
	}
	return out
}
