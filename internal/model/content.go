// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Content collections in the document store.
const (
	CollectionArticles = "articles"
	CollectionPages    = "pages"
)

// Section is one titled block of an article body.
type Section struct {
	Title     string `bson:"title" json:"title"`
	Paragraph string `bson:"paragraph" json:"paragraph"`
}

// Translation is the localized payload of a content entity for one language.
// Articles carry Summary, Sections and a taxonomy assignment; static pages
// carry Body (markdown). Title is required for every declared language.
type Translation struct {
	Title       string    `bson:"title" json:"title"`
	Summary     string    `bson:"summary,omitempty" json:"summary,omitempty"`
	Body        string    `bson:"body,omitempty" json:"body,omitempty"`
	Keywords    []string  `bson:"keywords,omitempty" json:"keywords,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory string    `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Sections    []Section `bson:"sections,omitempty" json:"sections,omitempty"`
}

// Content is a multilingual content entity: an article or a static page,
// discriminated by the collection it is stored in.
//
// The top-level Category/Subcategory fields are the legacy single-language
// form; multilingual entities carry the assignment inside each translation.
// Both are honored when filtering.
type Content struct {
	ID                 string                 `bson:"_id,omitempty" json:"id"`
	Slug               string                 `bson:"slug" json:"slug"`
	AvailableLanguages []string               `bson:"availableLanguages" json:"available_languages"`
	Translations       map[string]Translation `bson:"translations" json:"translations"`
	Category           string                 `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory        string                 `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Draft              bool                   `bson:"draft" json:"draft"`
	AuthorID           string                 `bson:"authorId,omitempty" json:"author_id,omitempty"`
	CreatedAt          time.Time              `bson:"createdAt" json:"created_at"`
}

// Resolve projects the entity into the best-available language.
// Fallback order: requested language (with a non-empty title), then English,
// then the first declared available language. The returned code names the
// language the payload actually came from. ok is false only when the entity
// has no translations at all. Pure and deterministic.
func (c *Content) Resolve(lang string) (Translation, string, bool) {
	if tr, ok := c.Translations[lang]; ok && tr.Title != "" {
		return tr, lang, true
	}
	if tr, ok := c.Translations[DefaultLanguage]; ok {
		return tr, DefaultLanguage, true
	}
	// Declared-language order; skip declared codes whose translation is
	// missing (invariant violation tolerated at read time).
	for _, code := range c.AvailableLanguages {
		if tr, ok := c.Translations[code]; ok {
			return tr, code, true
		}
	}
	return Translation{}, "", false
}

// HasLanguage reports whether lang is one of the entity's declared languages.
func (c *Content) HasLanguage(lang string) bool {
	for _, code := range c.AvailableLanguages {
		if code == lang {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether the entity belongs to the category slug,
// either via the legacy top-level field or via ANY translation's assignment.
// Articles may be categorized differently per language, so the match is not
// limited to the active language.
func (c *Content) MatchesCategory(slug string) bool {
	if c.Category == slug {
		return true
	}
	for _, tr := range c.Translations {
		if tr.Category == slug {
			return true
		}
	}
	return false
}

// MatchesSubcategory mirrors MatchesCategory for subcategory slugs.
func (c *Content) MatchesSubcategory(slug string) bool {
	if c.Subcategory == slug {
		return true
	}
	for _, tr := range c.Translations {
		if tr.Subcategory == slug {
			return true
		}
	}
	return false
}

// Validate checks the declared-language invariant: AvailableLanguages is
// non-empty, every declared code is a supported language and has a
// translation with a non-empty title. Returns a map of field -> problem for
// ValidationFailure reporting; nil when the entity is valid.
func (c *Content) Validate() map[string]string {
	problems := make(map[string]string)

	if c.Slug == "" {
		problems["slug"] = "slug is required"
	}
	if len(c.AvailableLanguages) == 0 {
		problems["availableLanguages"] = "at least one language is required"
	}
	for _, code := range c.AvailableLanguages {
		if !IsSupportedLanguage(code) {
			problems["availableLanguages"] = "unsupported language: " + code
			continue
		}
		tr, ok := c.Translations[code]
		if !ok {
			problems["translations."+code] = "missing translation for declared language"
			continue
		}
		if tr.Title == "" {
			problems["translations."+code+".title"] = "title is required"
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
