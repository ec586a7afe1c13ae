// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/seo"
	"github.com/pentalingo/portal-go/internal/service"
)

// SitemapCache serves the sitemap XML, regenerating it from published
// content when invalidated or when the TTL expires.
type SitemapCache struct {
	content *service.ContentService
	siteURL string
	ttl     time.Duration

	mu       sync.RWMutex
	xml      []byte
	cachedAt time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewSitemapCache creates a sitemap cache. TTL defaults to one hour.
func NewSitemapCache(content *service.ContentService, siteURL string, ttl time.Duration) *SitemapCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &SitemapCache{
		content: content,
		siteURL: siteURL,
		ttl:     ttl,
	}
}

// Get returns the cached sitemap XML, generating it if needed.
func (c *SitemapCache) Get(ctx context.Context) ([]byte, error) {
	c.mu.RLock()
	if c.xml != nil && time.Since(c.cachedAt) < c.ttl {
		xml := c.xml
		c.mu.RUnlock()
		c.hits.Add(1)
		return xml, nil
	}
	c.mu.RUnlock()

	return c.regenerate(ctx)
}

func (c *SitemapCache) regenerate(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if c.xml != nil && time.Since(c.cachedAt) < c.ttl {
		c.hits.Add(1)
		return c.xml, nil
	}
	c.misses.Add(1)

	published := false
	articles, err := c.content.Query(ctx, model.CollectionArticles, service.Filter{Draft: &published})
	if err != nil {
		return nil, err
	}
	pages, err := c.content.Query(ctx, model.CollectionPages, service.Filter{Draft: &published})
	if err != nil {
		return nil, err
	}

	xml, err := seo.GenerateSitemap(c.siteURL, articles, pages)
	if err != nil {
		return nil, err
	}

	c.xml = xml
	c.cachedAt = time.Now()
	return xml, nil
}

// Invalidate clears the cached sitemap, forcing regeneration on the next
// request. Call on any content write.
func (c *SitemapCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.xml = nil
	c.cachedAt = time.Time{}
}

// Refresh regenerates the sitemap immediately, replacing any cached copy.
func (c *SitemapCache) Refresh(ctx context.Context) error {
	c.Invalidate()
	_, err := c.regenerate(ctx)
	return err
}

// IsCached reports whether a fresh sitemap is currently cached.
func (c *SitemapCache) IsCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.xml != nil && time.Since(c.cachedAt) < c.ttl
}

// CachedAt returns when the sitemap was last generated.
func (c *SitemapCache) CachedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cachedAt
}

// Stats returns cache statistics.
func (c *SitemapCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	stats := Stats{
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
	c.mu.RLock()
	if c.xml != nil {
		stats.Items = 1
		stats.Size = int64(len(c.xml))
	}
	c.mu.RUnlock()
	return stats
}

// ResetStats resets the cache statistics.
func (c *SitemapCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}
