// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching layer for the portal: a byte-level
// cache backed by memory or Redis, typed wrappers over it, and the
// content and sitemap caches built on top.
package cache

import (
	"context"
	"time"
)

// Cacher is the byte-level cache contract. All implementations must be
// safe for concurrent use.
type Cacher interface {
	// Get retrieves a value. Returns ErrCacheMiss when the key is absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL uses the
	// implementation's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes all keys starting with the given prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Has checks whether a key exists and is not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the cache.
	Close() error
}

// Stats holds cache statistics.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
	Size    int64   `json:"size_bytes,omitempty"`
}

// StatsProvider is an optional interface for caches that report statistics.
type StatsProvider interface {
	Stats() Stats
	ResetStats()
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
