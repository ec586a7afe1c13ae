// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed Cacher for multi-instance deployments.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// RedisCacheOptions configures the Redis cache.
type RedisCacheOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0).
	URL string

	// Prefix is prepended to all keys.
	Prefix string

	// DefaultTTL is the default expiration for cache entries.
	DefaultTTL time.Duration

	// PoolSize is the maximum number of connections (0 = driver default).
	PoolSize int

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout bounds read operations.
	ReadTimeout time.Duration

	// WriteTimeout bounds write operations.
	WriteTimeout time.Duration
}

// DefaultRedisCacheOptions returns sensible defaults.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:         "portal:",
		DefaultTTL:     time.Hour,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisCache creates a Redis cache and verifies the connection.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{
		client:     client,
		prefix:     opts.Prefix,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

// NewRedisCacheFromURL creates a Redis cache from a URL with default options.
func NewRedisCacheFromURL(url, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	opts := DefaultRedisCacheOptions()
	opts.URL = url
	if prefix != "" {
		opts.Prefix = prefix
	}
	if defaultTTL > 0 {
		opts.DefaultTTL = defaultTTL
	}
	return NewRedisCache(opts)
}

func (c *RedisCache) prefixKey(key string) string {
	return c.prefix + key
}

// Get implements Cacher.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, err := c.client.Get(ctx, c.prefixKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	c.hits.Add(1)
	return val, nil
}

// Set implements Cacher.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, c.prefixKey(key), value, ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete implements Cacher.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Del(ctx, c.prefixKey(key)).Err()
}

// DeleteByPrefix implements Cacher. The prefix is added to the cache's base
// prefix.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.scanDelete(ctx, c.prefix+prefix+"*")
}

// Clear implements Cacher. Uses SCAN + DEL which is safer than KEYS on a
// shared Redis.
func (c *RedisCache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.scanDelete(ctx, c.prefix+"*")
}

func (c *RedisCache) scanDelete(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}

// Has implements Cacher.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	exists, err := c.client.Exists(ctx, c.prefixKey(key)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		return c.client.Close()
	}
	return nil
}

// Ping checks whether the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Ping(ctx).Err()
}

// Stats returns local hit/miss counters. Redis does not track per-prefix
// stats server-side.
func (c *RedisCache) Stats() Stats {
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
		HitRate: hitRate,
	}
}

// ResetStats resets the cache statistics.
func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

var (
	_ Cacher        = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
)
