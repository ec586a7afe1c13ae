// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/service"
)

const contentKeyPrefix = "content:"

// ContentCache caches published content listings per collection, language
// and taxonomy filter. Listings are the hot path of every localized page
// and change only on admin writes, so they are cached aggressively and
// invalidated wholesale.
type ContentCache struct {
	content  *service.ContentService
	lists    *TypedCache[[]model.Content]
	entities *TypedCache[model.Content]
}

// NewContentCache creates a content listing cache over the given backend.
func NewContentCache(content *service.ContentService, backend Cacher, ttl time.Duration) *ContentCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &ContentCache{
		content:  content,
		lists:    NewTypedCache[[]model.Content](backend, ttl),
		entities: NewTypedCache[model.Content](backend, ttl),
	}
}

// listKey builds a stable cache key for a filtered listing.
func listKey(collection string, f service.Filter) string {
	draft := "any"
	if f.Draft != nil {
		draft = fmt.Sprintf("%t", *f.Draft)
	}
	return fmt.Sprintf("%s%s:%s:%s:%s:%s", contentKeyPrefix, collection, f.Language, f.Category, f.Subcategory, draft)
}

// Query returns a filtered listing, from cache when possible.
func (c *ContentCache) Query(ctx context.Context, collection string, f service.Filter) ([]model.Content, error) {
	key := listKey(collection, f)
	if cached, ok := c.lists.Get(ctx, key); ok {
		return *cached, nil
	}

	entities, err := c.content.Query(ctx, collection, f)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed cache write must not fail the read.
	_ = c.lists.Set(ctx, key, &entities)
	return entities, nil
}

// BySlug returns a single entity, from cache when possible. Misses are not
// cached: a not-found keeps hitting the store until the entity appears.
func (c *ContentCache) BySlug(ctx context.Context, collection, slug string) (*model.Content, error) {
	key := contentKeyPrefix + collection + ":slug:" + slug
	if cached, ok := c.entities.Get(ctx, key); ok {
		return cached, nil
	}

	entity, err := c.content.BySlug(ctx, collection, slug)
	if err != nil {
		return nil, err
	}

	_ = c.entities.Set(ctx, key, entity)
	return entity, nil
}

// Invalidate drops all cached listings and entities. Call on any content
// write.
func (c *ContentCache) Invalidate(ctx context.Context) {
	_ = c.lists.DeleteByPrefix(ctx, contentKeyPrefix)
}
