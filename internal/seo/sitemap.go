// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt for the portal.
package seo

import (
	"encoding/xml"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/taxonomy"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder builds sitemap XML for the portal's multilingual URL
// surface. Article and taxonomy entries are emitted once per language the
// content is available in, plus one unprefixed legacy URL.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder. siteURL must not carry a
// trailing slash.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepages adds the bare homepage and one per supported language.
func (b *SitemapBuilder) AddHomepages() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
	for _, code := range model.LanguageCodes() {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + "/" + code + "/",
			ChangeFreq: ChangeFreqDaily,
			Priority:   "1.0",
		})
	}
}

// AddStaticRoutes adds the fixed portal routes, legacy and per-language.
func (b *SitemapBuilder) AddStaticRoutes() {
	routes := []string{"/categories", "/search"}

	prefixes := []string{""}
	for _, code := range model.LanguageCodes() {
		prefixes = append(prefixes, "/"+code)
	}

	for _, route := range routes {
		for _, prefix := range prefixes {
			b.urls = append(b.urls, SitemapURL{
				Loc:        b.siteURL + prefix + route,
				ChangeFreq: ChangeFreqWeekly,
				Priority:   "0.4",
			})
		}
	}
}

// AddArticle adds one legacy URL plus one URL per language the article is
// available in. Drafts are the caller's responsibility to exclude.
func (b *SitemapBuilder) AddArticle(article model.Content) {
	lastMod := ""
	if !article.CreatedAt.IsZero() {
		lastMod = article.CreatedAt.Format(time.RFC3339)
	}

	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/article/" + article.Slug,
		LastMod:    lastMod,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	})
	for _, code := range article.AvailableLanguages {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + "/" + code + "/article/" + article.Slug,
			LastMod:    lastMod,
			ChangeFreq: ChangeFreqWeekly,
			Priority:   "0.8",
		})
	}
}

// AddArticles adds multiple articles to the sitemap.
func (b *SitemapBuilder) AddArticles(articles []model.Content) {
	for _, a := range articles {
		b.AddArticle(a)
	}
}

// AddPage adds a standalone page the same way articles are added.
func (b *SitemapBuilder) AddPage(page model.Content) {
	lastMod := ""
	if !page.CreatedAt.IsZero() {
		lastMod = page.CreatedAt.Format(time.RFC3339)
	}

	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/page/" + page.Slug,
		LastMod:    lastMod,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.6",
	})
	for _, code := range page.AvailableLanguages {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + "/" + code + "/page/" + page.Slug,
			LastMod:    lastMod,
			ChangeFreq: ChangeFreqMonthly,
			Priority:   "0.6",
		})
	}
}

// AddPages adds multiple pages to the sitemap.
func (b *SitemapBuilder) AddPages(pages []model.Content) {
	for _, p := range pages {
		b.AddPage(p)
	}
}

// AddTaxonomy adds category and subcategory archive URLs for every supported
// language plus the legacy unprefixed form.
func (b *SitemapBuilder) AddTaxonomy() {
	prefixes := []string{""}
	for _, code := range model.LanguageCodes() {
		prefixes = append(prefixes, "/"+code)
	}

	for _, cat := range taxonomy.Categories() {
		for _, prefix := range prefixes {
			b.urls = append(b.urls, SitemapURL{
				Loc:        b.siteURL + prefix + "/categories/" + cat.Slug,
				ChangeFreq: ChangeFreqWeekly,
				Priority:   "0.6",
			})
		}
		for _, sub := range cat.Subcategories {
			for _, prefix := range prefixes {
				b.urls = append(b.urls, SitemapURL{
					Loc:        b.siteURL + prefix + "/categories/" + cat.Slug + "/" + sub.Slug,
					ChangeFreq: ChangeFreqWeekly,
					Priority:   "0.5",
				})
			}
		}
	}
}

// URLCount reports the number of entries added so far.
func (b *SitemapBuilder) URLCount() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds the full portal sitemap from published content.
func GenerateSitemap(siteURL string, articles, pages []model.Content) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepages()
	builder.AddStaticRoutes()
	builder.AddTaxonomy()
	builder.AddArticles(articles)
	builder.AddPages(pages)
	return builder.Build()
}
