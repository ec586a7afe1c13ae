// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the portal's business logic: content querying,
// search, favorites aggregation and profile maintenance.
package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

// htmlSanitizer strips unsafe HTML from rendered markdown bodies.
var htmlSanitizer = bluemonday.UGCPolicy()

// Filter narrows a content query. Draft is a store-side predicate; the
// category, subcategory and language refinements are applied client-side
// because the store cannot express them (they reach into per-language
// translation fields).
type Filter struct {
	Category    string
	Subcategory string
	Language    string
	Draft       *bool
}

// ContentService reads and writes content entities in the document store.
type ContentService struct {
	store  store.Store
	logger *slog.Logger
}

// NewContentService creates a content service.
func NewContentService(st store.Store, logger *slog.Logger) *ContentService {
	return &ContentService{store: st, logger: logger}
}

// Query fetches entities matching the filter, newest first.
func (s *ContentService) Query(ctx context.Context, collection string, f Filter) ([]model.Content, error) {
	var predicates []store.Predicate
	if f.Draft != nil {
		predicates = append(predicates, store.Predicate{Field: "draft", Value: *f.Draft})
	}

	var entities []model.Content
	if err := s.store.Query(ctx, collection, predicates, &entities); err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}

	filtered := entities[:0]
	for _, e := range entities {
		if f.Category != "" && !e.MatchesCategory(f.Category) {
			continue
		}
		if f.Subcategory != "" && !e.MatchesSubcategory(f.Subcategory) {
			continue
		}
		if f.Language != "" && !e.HasLanguage(f.Language) {
			continue
		}
		filtered = append(filtered, e)
	}

	SortByNewest(filtered)
	return filtered, nil
}

// SortByNewest orders entities by creation time, newest first. Entities with
// a zero timestamp sort as oldest. The sort is stable so store order breaks
// ties.
func SortByNewest(entities []model.Content) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].CreatedAt.After(entities[j].CreatedAt)
	})
}

// BySlug fetches a single entity by its slug.
func (s *ContentService) BySlug(ctx context.Context, collection, slug string) (*model.Content, error) {
	var entities []model.Content
	err := s.store.Query(ctx, collection, []store.Predicate{{Field: "slug", Value: slug}}, &entities)
	if err != nil {
		return nil, fmt.Errorf("querying %s by slug: %w", collection, err)
	}
	if len(entities) == 0 {
		return nil, store.ErrNotFound
	}
	return &entities[0], nil
}

// ByID fetches a single entity by its store id.
func (s *ContentService) ByID(ctx context.Context, collection, id string) (*model.Content, error) {
	var entity model.Content
	if err := s.store.Get(ctx, collection, id, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// ValidationError reports per-field problems that blocked a save.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Fields))
}

// Save validates and upserts an entity. The write is unconditional; a
// concurrent editor's changes are silently overwritten (last-write-wins).
func (s *ContentService) Save(ctx context.Context, collection string, entity *model.Content) (string, error) {
	if problems := entity.Validate(); problems != nil {
		return "", &ValidationError{Fields: problems}
	}

	id, err := s.store.Put(ctx, collection, entity.ID, entity)
	if err != nil {
		return "", fmt.Errorf("saving %s/%s: %w", collection, entity.Slug, err)
	}
	entity.ID = id
	s.logger.Info("content saved", "collection", collection, "id", id, "slug", entity.Slug, "draft", entity.Draft)
	return id, nil
}

// Delete removes an entity.
func (s *ContentService) Delete(ctx context.Context, collection, id string) error {
	if err := s.store.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	s.logger.Info("content deleted", "collection", collection, "id", id)
	return nil
}

// RenderMarkdown converts a markdown body to sanitized HTML.
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}
