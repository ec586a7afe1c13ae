// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pentalingo/portal-go/internal/cache"
	"github.com/pentalingo/portal-go/internal/i18n"
	"github.com/pentalingo/portal-go/internal/middleware"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/seo"
	"github.com/pentalingo/portal-go/internal/service"
	"github.com/pentalingo/portal-go/internal/store"
	"github.com/pentalingo/portal-go/internal/taxonomy"
)

// FrontendHandler serves the public JSON surface.
type FrontendHandler struct {
	content *cache.ContentCache
	search  *service.SearchService
	sitemap *cache.SitemapCache
	catalog *i18n.Catalog
	siteURL string
	isDev   bool
	logger  *slog.Logger
}

// NewFrontendHandler creates a frontend handler.
func NewFrontendHandler(content *cache.ContentCache, search *service.SearchService,
	sitemap *cache.SitemapCache, catalog *i18n.Catalog, siteURL string, isDev bool,
	logger *slog.Logger) *FrontendHandler {
	return &FrontendHandler{
		content: content,
		search:  search,
		sitemap: sitemap,
		catalog: catalog,
		siteURL: siteURL,
		isDev:   isDev,
		logger:  logger,
	}
}

// ArticleSummary is the listing view of an article, resolved into one
// language.
type ArticleSummary struct {
	ID                 string    `json:"id"`
	Slug               string    `json:"slug"`
	Title              string    `json:"title"`
	Summary            string    `json:"summary,omitempty"`
	Language           string    `json:"language"`
	AvailableLanguages []string  `json:"available_languages"`
	Category           string    `json:"category,omitempty"`
	Subcategory        string    `json:"subcategory,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ArticleDetail is the full view of an article in the resolved language.
type ArticleDetail struct {
	ArticleSummary
	Keywords []string        `json:"keywords,omitempty"`
	Sections []model.Section `json:"sections,omitempty"`
}

// PageDetail is a static page with its markdown body rendered to HTML.
type PageDetail struct {
	ID                 string   `json:"id"`
	Slug               string   `json:"slug"`
	Title              string   `json:"title"`
	BodyHTML           string   `json:"body_html"`
	Language           string   `json:"language"`
	AvailableLanguages []string `json:"available_languages"`
}

// LanguageInfo describes the active language for the response.
type LanguageInfo struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
}

func languageInfo(lang model.Language) LanguageInfo {
	return LanguageInfo{Code: lang.Code, Name: lang.Name, Direction: lang.Direction}
}

// summarize projects an entity into its listing view. ok is false when the
// entity has no usable translation.
func summarize(e model.Content, lang string) (ArticleSummary, bool) {
	tr, resolved, ok := e.Resolve(lang)
	if !ok {
		return ArticleSummary{}, false
	}
	category := tr.Category
	if category == "" {
		category = e.Category
	}
	subcategory := tr.Subcategory
	if subcategory == "" {
		subcategory = e.Subcategory
	}
	return ArticleSummary{
		ID:                 e.ID,
		Slug:               e.Slug,
		Title:              tr.Title,
		Summary:            tr.Summary,
		Language:           resolved,
		AvailableLanguages: e.AvailableLanguages,
		Category:           category,
		Subcategory:        subcategory,
		CreatedAt:          e.CreatedAt,
	}, true
}

// Summarize builds listing views for a set of entities, skipping the ones
// with no translations at all.
func Summarize(entities []model.Content, lang string) []ArticleSummary {
	summaries := make([]ArticleSummary, 0, len(entities))
	for _, e := range entities {
		if s, ok := summarize(e, lang); ok {
			summaries = append(summaries, s)
		}
	}
	return summaries
}

// writeQueryError logs a failed content read and answers with either a 502
// (store unreachable) or a 500. The store never gets retried.
func (h *FrontendHandler) writeQueryError(w http.ResponseWriter, lang string, err error) {
	h.logger.Error(LogContentFetchFailed, "error", err)
	if errors.Is(err, store.ErrUnavailable) {
		WriteFetchFailure(w, h.catalog.T(lang, "error.fetch_failed"))
		return
	}
	WriteInternalError(w, h.catalog.T(lang, "error.fetch_failed"))
}

// publishedArticles fetches non-draft articles carrying the active language.
func (h *FrontendHandler) publishedArticles(r *http.Request, lang string, f service.Filter) ([]model.Content, error) {
	published := false
	f.Draft = &published
	f.Language = lang
	return h.content.Query(r.Context(), model.CollectionArticles, f)
}

// Home handles GET / — the newest published articles in the active language
// plus the localized category tree.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	entities, err := h.publishedArticles(r, lang.Code, service.Filter{})
	if err != nil {
		h.writeQueryError(w, lang.Code, err)
		return
	}

	type homeView struct {
		Articles   []ArticleSummary `json:"articles"`
		Categories []taxonomy.View  `json:"categories"`
		Language   LanguageInfo     `json:"language"`
	}
	summaries := Summarize(entities, lang.Code)
	WriteSuccess(w, homeView{
		Articles:   summaries,
		Categories: taxonomy.Localize(h.catalog, lang.Code),
		Language:   languageInfo(lang),
	}, &Meta{Total: len(summaries), Language: lang.Code})
}

// Categories handles GET /categories.
func (h *FrontendHandler) Categories(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	views := taxonomy.Localize(h.catalog, lang)
	WriteSuccess(w, views, &Meta{Total: len(views), Language: lang})
}

// Category handles GET /categories/{category}.
func (h *FrontendHandler) Category(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	catSlug := chi.URLParam(r, "category")

	cat, ok := taxonomy.CategoryBySlug(catSlug)
	if !ok {
		WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang+RouteCategories)
		return
	}

	entities, err := h.publishedArticles(r, lang, service.Filter{Category: cat.Slug})
	if err != nil {
		h.writeQueryError(w, lang, err)
		return
	}

	type categoryView struct {
		Slug          string                     `json:"slug"`
		Name          string                     `json:"name"`
		Subcategories []taxonomy.SubcategoryView `json:"subcategories"`
		Articles      []ArticleSummary           `json:"articles"`
	}
	subViews := make([]taxonomy.SubcategoryView, 0, len(cat.Subcategories))
	for _, sub := range cat.Subcategories {
		subViews = append(subViews, taxonomy.SubcategoryView{
			Slug: sub.Slug,
			Name: h.catalog.SubcategoryName(lang, sub.Slug),
		})
	}
	summaries := Summarize(entities, lang)
	WriteSuccess(w, categoryView{
		Slug:          cat.Slug,
		Name:          h.catalog.CategoryName(lang, cat.Slug),
		Subcategories: subViews,
		Articles:      summaries,
	}, &Meta{Total: len(summaries), Language: lang})
}

// Subcategory handles GET /categories/{category}/{subcategory}.
func (h *FrontendHandler) Subcategory(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	catSlug := chi.URLParam(r, "category")
	subSlug := chi.URLParam(r, "subcategory")

	if _, ok := taxonomy.CategoryBySlug(catSlug); !ok {
		WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang+RouteCategories)
		return
	}
	sub, ok := taxonomy.SubcategoryBySlug(catSlug, subSlug)
	if !ok {
		WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang+RouteCategories+"/"+catSlug)
		return
	}

	entities, err := h.publishedArticles(r, lang, service.Filter{Category: catSlug, Subcategory: sub.Slug})
	if err != nil {
		h.writeQueryError(w, lang, err)
		return
	}

	type subcategoryView struct {
		Slug     string           `json:"slug"`
		Name     string           `json:"name"`
		Category string           `json:"category"`
		Articles []ArticleSummary `json:"articles"`
	}
	summaries := Summarize(entities, lang)
	WriteSuccess(w, subcategoryView{
		Slug:     sub.Slug,
		Name:     h.catalog.SubcategoryName(lang, sub.Slug),
		Category: catSlug,
		Articles: summaries,
	}, &Meta{Total: len(summaries), Language: lang})
}

// Article handles GET /article/{slug} and the category-scoped variant.
// Drafts are invisible here.
func (h *FrontendHandler) Article(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	slug := chi.URLParam(r, "slug")

	entity, err := h.content.BySlug(r.Context(), model.CollectionArticles, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang+RouteCategories)
			return
		}
		h.writeQueryError(w, lang, err)
		return
	}
	if entity.Draft {
		WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang+RouteCategories)
		return
	}

	summary, ok := summarize(*entity, lang)
	if !ok {
		WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang+RouteCategories)
		return
	}
	tr, _, _ := entity.Resolve(lang)
	WriteSuccess(w, ArticleDetail{
		ArticleSummary: summary,
		Keywords:       tr.Keywords,
		Sections:       tr.Sections,
	}, &Meta{Language: lang})
}

// Page handles GET /page/{slug}. The markdown body arrives rendered and
// sanitized.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	slug := chi.URLParam(r, "slug")

	entity, err := h.content.BySlug(r.Context(), model.CollectionPages, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang)
			return
		}
		h.writeQueryError(w, lang, err)
		return
	}
	if entity.Draft {
		WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang)
		return
	}

	tr, resolved, ok := entity.Resolve(lang)
	if !ok {
		WriteNotFound(w, h.catalog.T(lang, "error.not_found"), "/"+lang)
		return
	}
	bodyHTML, err := service.RenderMarkdown(tr.Body)
	if err != nil {
		h.logger.Error("markdown rendering failed", "slug", slug, "error", err)
		WriteInternalError(w, h.catalog.T(lang, "error.fetch_failed"))
		return
	}
	WriteSuccess(w, PageDetail{
		ID:                 entity.ID,
		Slug:               entity.Slug,
		Title:              tr.Title,
		BodyHTML:           bodyHTML,
		Language:           resolved,
		AvailableLanguages: entity.AvailableLanguages,
	}, &Meta{Language: lang})
}

// maxSearchLimit caps the number of search results per request.
const maxSearchLimit = 50

// Search handles GET /search?q=. Matching is restricted to the active
// language; no fallback across languages.
func (h *FrontendHandler) Search(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteBadRequest(w, "Invalid limit", nil)
			return
		}
		limit = n
	}
	if limit == 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := h.search.Search(r.Context(), model.CollectionArticles, service.SearchParams{
		Query:    query,
		Language: lang,
		Limit:    limit,
	})
	if err != nil {
		h.writeQueryError(w, lang, err)
		return
	}

	type searchView struct {
		Query   string                 `json:"query"`
		Results []service.SearchResult `json:"results"`
	}
	WriteSuccess(w, searchView{Query: query, Results: results}, &Meta{Total: len(results), Language: lang})
}

// Sitemap handles GET /sitemap.xml from the cache.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	xml, err := h.sitemap.Get(r.Context())
	if err != nil {
		h.logger.Error("sitemap generation failed", "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(xml)
}

// Robots handles GET /robots.txt. Development deployments disallow all
// crawling.
func (h *FrontendHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.siteURL, h.isDev)))
}
