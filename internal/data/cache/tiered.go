package cache

import (
	"errors"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// Tiered reads through a memory tier to an optional disk tier.
type Tiered struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewTiered combines the tiers; disk may be nil.
func NewTiered(memory *MemoryCache, disk *DiskCache) *Tiered {
	if memory == nil {
		memory = NewMemoryCache(DefaultMemoryCapacity)
	}
	return &Tiered{memory: memory, disk: disk}
}

func (t *Tiered) Get(key Key) (source.Grid, error) {
	grid, err := t.memory.Get(key)
	if err == nil || t.disk == nil {
		return grid, err
	}

	grid, expiresAt, err := t.disk.lookup(key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			util.LogWarnf("Disk cache read failed for %s: %v", key, err)
			return source.Grid{}, ErrMiss
		}
		return source.Grid{}, err
	}

	// Promote with the lifetime left on disk.
	if ttl := time.Until(expiresAt); ttl > 0 {
		_ = t.memory.Set(key, grid, ttl)
	}
	return grid, nil
}

func (t *Tiered) Set(key Key, grid source.Grid, ttl time.Duration) error {
	if err := t.memory.Set(key, grid, ttl); err != nil {
		return err
	}
	if t.disk == nil {
		return nil
	}
	return t.disk.Set(key, grid, ttl)
}

func (t *Tiered) Clear() error {
	_ = t.memory.Clear()
	if t.disk == nil {
		return nil
	}
	return t.disk.Clear()
}

func (t *Tiered) Close() error {
	_ = t.memory.Close()
	if t.disk == nil {
		return nil
	}
	return t.disk.Close()
}

// Stats returns the memory tier counters.
func (t *Tiered) Stats() Stats {
	return t.memory.Stats()
}
