// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is a thread-safe in-memory Cacher.
type MemoryCache struct {
	data       sync.Map
	defaultTTL time.Duration
	maxItems   int // 0 = unlimited
	stopCh     chan struct{}
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
	size   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	size      int64
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxItems        int           // 0 = unlimited
	CleanupInterval time.Duration // 0 = no background cleanup
}

// NewMemoryCache creates a memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		defaultTTL: opts.DefaultTTL,
		maxItems:   opts.MaxItems,
		stopCh:     make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache creates an unbounded memory cache with the given TTL
// and minutely cleanup.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      ttl,
		CleanupInterval: time.Minute,
	})
}

// Get implements Cacher.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, ok := c.data.Load(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.deleteEntry(key, entry)
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	// Copy so callers cannot mutate the cached bytes.
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set implements Cacher.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if c.maxItems > 0 && c.count() >= c.maxItems {
		c.removeExpired()
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := &memoryEntry{
		value:     valueCopy,
		expiresAt: time.Now().Add(ttl),
		size:      int64(len(value)),
	}

	if old, loaded := c.data.Swap(key, entry); loaded {
		c.size.Add(-old.(*memoryEntry).size)
	}
	c.size.Add(entry.size)
	c.sets.Add(1)
	return nil
}

// Delete implements Cacher.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if val, loaded := c.data.LoadAndDelete(key); loaded {
		c.size.Add(-val.(*memoryEntry).size)
	}
	return nil
}

// DeleteByPrefix implements Cacher.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.data.Range(func(key, value any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.deleteEntry(key.(string), value.(*memoryEntry))
		}
		return true
	})
	return nil
}

// Clear implements Cacher.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.data.Range(func(key, _ any) bool {
		c.data.Delete(key)
		return true
	})
	c.size.Store(0)
	return nil
}

// Has implements Cacher.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	val, ok := c.data.Load(key)
	if !ok {
		return false, nil
	}

	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.deleteEntry(key, entry)
		return false, nil
	}
	return true, nil
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   c.count(),
		HitRate: hitRate,
		Size:    c.size.Load(),
	}
}

// ResetStats resets the cache statistics.
func (c *MemoryCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

func (c *MemoryCache) count() int {
	count := 0
	c.data.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (c *MemoryCache) deleteEntry(key string, entry *memoryEntry) {
	if _, loaded := c.data.LoadAndDelete(key); loaded {
		c.size.Add(-entry.size)
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()
	c.data.Range(func(key, value any) bool {
		entry := value.(*memoryEntry)
		if now.After(entry.expiresAt) {
			c.deleteEntry(key.(string), entry)
		}
		return true
	})
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
