// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache provides type-safe caching over a Cacher using JSON encoding.
type TypedCache[T any] struct {
	cache      Cacher
	defaultTTL time.Duration
}

// NewTypedCache creates a TypedCache wrapping the given cache.
func NewTypedCache[T any](cache Cacher, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value. Returns the value and true on a hit; decode
// failures count as a miss.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return &value, true
}

// Set stores a value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a custom TTL.
func (c *TypedCache[T]) SetWithTTL(ctx context.Context, key string, value *T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, ttl)
}

// Delete removes a key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// DeleteByPrefix removes all keys with the given prefix.
func (c *TypedCache[T]) DeleteByPrefix(ctx context.Context, prefix string) error {
	return c.cache.DeleteByPrefix(ctx, prefix)
}
