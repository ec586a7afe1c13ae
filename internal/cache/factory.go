// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// Type is the backend: "memory" or "redis".
	Type string

	// RedisURL is the Redis connection URL (redis type only).
	RedisURL string

	// Prefix is the key prefix (redis type only).
	Prefix string

	// DefaultTTL is the default TTL for entries.
	DefaultTTL time.Duration

	// MaxItems bounds the memory cache (0 = unlimited).
	MaxItems int

	// CleanupInterval is the memory cache's expired-entry sweep interval.
	CleanupInterval time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour,
		MaxItems:        10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache from the configuration.
func New(cfg Config) (Cacher, error) {
	switch cfg.Type {
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("cache type %q requires a redis URL", cfg.Type)
		}
		return NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	case "", "memory":
		return NewMemoryCache(MemoryCacheOptions{
			DefaultTTL:      cfg.DefaultTTL,
			MaxItems:        cfg.MaxItems,
			CleanupInterval: cfg.CleanupInterval,
		}), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
