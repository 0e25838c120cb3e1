package cache

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// DiskOptions configures the badger backed tier.
type DiskOptions struct {
	Dir string
	// InMemory keeps the store in RAM; Dir is ignored.
	InMemory bool
}

// DiskCache persists grids across process restarts. Values are zstd
// compressed JSON and expire through badger's entry TTL.
type DiskCache struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	hits   atomic.Uint64
	misses atomic.Uint64
}

func OpenDiskCache(opts DiskOptions) (*DiskCache, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, errors.New("cache directory is required")
		}
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &DiskCache{db: db, encoder: encoder, decoder: decoder}, nil
}

func (c *DiskCache) Get(key Key) (source.Grid, error) {
	grid, _, err := c.lookup(key)
	return grid, err
}

// lookup returns the grid and the instant badger expires it.
func (c *DiskCache) lookup(key Key) (source.Grid, time.Time, error) {
	var (
		compressed []byte
		expiresAt  time.Time
	)
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		if exp := item.ExpiresAt(); exp > 0 {
			expiresAt = time.Unix(int64(exp), 0)
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.misses.Add(1)
		return source.Grid{}, time.Time{}, ErrMiss
	}
	if err != nil {
		return source.Grid{}, time.Time{}, fmt.Errorf("failed to read %s: %w", key, err)
	}

	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return source.Grid{}, time.Time{}, fmt.Errorf("decompression failed for %s: %w", key, err)
	}

	var grid source.Grid
	if err := sonic.Unmarshal(data, &grid); err != nil {
		return source.Grid{}, time.Time{}, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	c.hits.Add(1)
	return grid, expiresAt, nil
}

func (c *DiskCache) Set(key Key, grid source.Grid, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := sonic.Marshal(grid)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)/4))

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key.String()), compressed).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	util.LogDebugf("Cached %s: %d bytes (%d raw)", key, len(compressed), len(data))
	return nil
}

// Clear drops every stored grid.
func (c *DiskCache) Clear() error {
	return c.db.DropAll()
}

func (c *DiskCache) Stats() Stats {
	entries := 0
	_ = c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: entries}
}

func (c *DiskCache) Close() error {
	c.encoder.Close()
	c.decoder.Close()
	return c.db.Close()
}
