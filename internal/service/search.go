// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"

	"github.com/pentalingo/portal-go/internal/model"
)

// SearchParams holds search parameters. Language is required: search is
// deliberately narrower than display resolution and never falls back across
// languages — an article without a translation in the requested language is
// excluded from its results.
type SearchParams struct {
	Query    string
	Language string
	Limit    int
}

// SearchResult is one matched entity with its requested-language view.
type SearchResult struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// SearchService evaluates free-text search over published articles.
type SearchService struct {
	content *ContentService
}

// NewSearchService creates a search service.
func NewSearchService(content *ContentService) *SearchService {
	return &SearchService{content: content}
}

// Search runs a case-insensitive substring match against the requested
// language's translation only: title, summary, and each section's title and
// paragraph. Drafts are excluded. Results keep the default newest-first
// order of the underlying query.
func (s *SearchService) Search(ctx context.Context, collection string, params SearchParams) ([]SearchResult, error) {
	query := strings.ToLower(strings.TrimSpace(params.Query))
	if query == "" {
		return []SearchResult{}, nil
	}

	published := false
	entities, err := s.content.Query(ctx, collection, Filter{
		Language: params.Language,
		Draft:    &published,
	})
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0)
	for _, e := range entities {
		tr, ok := e.Translations[params.Language]
		if !ok || tr.Title == "" {
			continue
		}

		match := strings.Contains(strings.ToLower(tr.Title), query) ||
			strings.Contains(strings.ToLower(tr.Summary), query) ||
			strings.Contains(strings.ToLower(tr.Body), query)
		if !match {
			for _, section := range tr.Sections {
				if strings.Contains(strings.ToLower(section.Title), query) ||
					strings.Contains(strings.ToLower(section.Paragraph), query) {
					match = true
					break
				}
			}
		}
		if !match {
			continue
		}

		results = append(results, SearchResult{
			ID:          e.ID,
			Slug:        e.Slug,
			Title:       tr.Title,
			Excerpt:     excerptFor(tr, query, 200),
			Category:    tr.Category,
			Subcategory: tr.Subcategory,
		})
		if params.Limit > 0 && len(results) >= params.Limit {
			break
		}
	}
	return results, nil
}

// excerptFor builds a short excerpt centered on the first match, preferring
// the summary, then section paragraphs, then the body.
func excerptFor(tr model.Translation, query string, maxLen int) string {
	candidates := []string{tr.Summary}
	for _, section := range tr.Sections {
		candidates = append(candidates, section.Paragraph)
	}
	candidates = append(candidates, tr.Body)

	for _, text := range candidates {
		if text == "" {
			continue
		}
		if idx := strings.Index(strings.ToLower(text), query); idx != -1 {
			return clip(text, idx, maxLen)
		}
	}
	// No body match (the title matched): fall back to the summary head.
	for _, text := range candidates {
		if text != "" {
			return clip(text, 0, maxLen)
		}
	}
	return ""
}

// clip extracts a window of roughly maxLen bytes around the match position.
func clip(text string, matchIdx, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	// Center the window a third of the way before the match.
	start := matchIdx - maxLen/3
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(text) {
		end = len(text)
		start = end - maxLen
	}

	out := strings.TrimSpace(text[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}
