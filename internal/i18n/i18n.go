// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the static translation table for UI strings and
// taxonomy display names. Unlike per-entity content resolution, lookups here
// never fail: the fallback chain ends at the key literal so screens stay
// legible even for missing translations.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/pentalingo/portal-go/internal/model"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds the static translations for all supported languages.
// It is built once at startup and passed explicitly to consumers; lookups
// after construction are read-only and safe for concurrent use.
type Catalog struct {
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	logger       *slog.Logger
}

// New loads the embedded message catalogs for every portal language.
func New(logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		logger:       logger,
	}

	codes := model.LanguageCodes()
	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tags = append(tags, language.MustParse(code))
	}
	c.supported = tags
	c.matcher = language.NewMatcher(tags)

	for _, code := range codes {
		if err := c.loadLanguage(code); err != nil {
			return nil, fmt.Errorf("loading language %s: %w", code, err)
		}
	}

	if logger != nil {
		logger.Info("i18n catalog loaded", "languages", codes)
	}
	return c, nil
}

// loadLanguage loads translations for a specific language.
func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}
	return nil
}

// T translates a message key to the specified language.
// Fallback chain: requested language, then English, then the key itself.
// The key-literal fallback is a deliberate last resort and is logged.
// Supports optional arguments for string formatting.
func (c *Catalog) T(lang, key string, args ...any) string {
	if translation, ok := c.translations[lang][key]; ok {
		return format(translation, args)
	}

	if lang != model.DefaultLanguage {
		if translation, ok := c.translations[model.DefaultLanguage][key]; ok {
			if c.logger != nil {
				c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
			}
			return format(translation, args)
		}
	}

	if c.logger != nil {
		c.logger.Debug("missing translation, returning key literal", "key", key, "lang", lang)
	}
	return key
}

func format(translation string, args []any) string {
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// CategoryName returns the display name for a category slug.
func (c *Catalog) CategoryName(lang, slug string) string {
	return c.T(lang, "categories."+slug)
}

// SubcategoryName returns the display name for a subcategory slug.
func (c *Catalog) SubcategoryName(lang, slug string) string {
	return c.T(lang, "subcategories."+slug)
}

// MatchLanguage finds the best matching portal language for an
// Accept-Language header or a bare language code.
func (c *Catalog) MatchLanguage(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return model.DefaultLanguage
		}
		tags = []language.Tag{tag}
	}

	_, idx, _ := c.matcher.Match(tags...)
	if idx >= 0 && idx < len(c.supported) {
		return c.supported[idx].String()
	}
	return model.DefaultLanguage
}

// TranslationCount returns the number of translations loaded for a language.
func (c *Catalog) TranslationCount(lang string) int {
	return len(c.translations[lang])
}
