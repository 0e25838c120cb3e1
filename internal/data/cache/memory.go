package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/data/source"
)

// DefaultMemoryCapacity bounds the in-memory tier.
const DefaultMemoryCapacity = 32

// MemoryCache is an LRU of grids with per-entry expiry.
type MemoryCache struct {
	capacity int
	mu       sync.Mutex
	entries  map[Key]*memoryEntry
	lru      *list.List
	now      func() time.Time

	hits   uint64
	misses uint64
}

type memoryEntry struct {
	key       Key
	grid      source.Grid
	expiresAt time.Time
	element   *list.Element
}

func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryCache{
		capacity: capacity,
		entries:  make(map[Key]*memoryEntry),
		lru:      list.New(),
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(key Key) (source.Grid, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return source.Grid{}, ErrMiss
	}
	if !c.now().Before(entry.expiresAt) {
		c.removeLocked(key)
		c.misses++
		return source.Grid{}, ErrMiss
	}

	c.lru.MoveToFront(entry.element)
	c.hits++
	return copyGrid(entry.grid), nil
}

func (c *MemoryCache) Set(key Key, grid source.Grid, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if entry, ok := c.entries[key]; ok {
		entry.grid = copyGrid(grid)
		entry.expiresAt = expiresAt
		c.lru.MoveToFront(entry.element)
		return nil
	}

	entry := &memoryEntry{key: key, grid: copyGrid(grid), expiresAt: expiresAt}
	entry.element = c.lru.PushFront(entry)
	c.entries[key] = entry

	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.removeLocked(oldest.Value.(*memoryEntry).key)
	}
	return nil
}

// removeLocked drops key; the caller holds mu.
func (c *MemoryCache) removeLocked(key Key) {
	if entry, ok := c.entries[key]; ok {
		c.lru.Remove(entry.element)
		delete(c.entries, key)
	}
}

func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*memoryEntry)
	c.lru = list.New()
	return nil
}

func (c *MemoryCache) Close() error {
	return c.Clear()
}

func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
