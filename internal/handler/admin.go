// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pentalingo/portal-go/internal/cache"
	"github.com/pentalingo/portal-go/internal/imagesearch"
	"github.com/pentalingo/portal-go/internal/middleware"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/service"
	"github.com/pentalingo/portal-go/internal/store"
	"github.com/pentalingo/portal-go/internal/taxonomy"
	"github.com/pentalingo/portal-go/internal/util"
)

// AdminHandler serves the session-gated authoring console: content CRUD,
// taxonomy mirror writes and the image search convenience endpoint.
type AdminHandler struct {
	store        store.Store
	content      *service.ContentService
	contentCache *cache.ContentCache
	sitemap      *cache.SitemapCache
	photos       *imagesearch.Client
	logger       *slog.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(st store.Store, content *service.ContentService, contentCache *cache.ContentCache,
	sitemap *cache.SitemapCache, photos *imagesearch.Client, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store:        st,
		content:      content,
		contentCache: contentCache,
		sitemap:      sitemap,
		photos:       photos,
		logger:       logger,
	}
}

// invalidateCaches drops cached listings and the sitemap after any write.
func (h *AdminHandler) invalidateCaches(r *http.Request) {
	h.contentCache.Invalidate(r.Context())
	h.sitemap.Invalidate()
}

// list fetches a full collection including drafts, newest first.
func (h *AdminHandler) list(w http.ResponseWriter, r *http.Request, collection string) {
	entities, err := h.content.Query(r.Context(), collection, service.Filter{})
	if err != nil {
		h.logger.Error(LogContentFetchFailed, "collection", collection, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}
	WriteSuccess(w, entities, &Meta{Total: len(entities)})
}

// create validates and stores a new entity.
func (h *AdminHandler) create(w http.ResponseWriter, r *http.Request, collection string) {
	var entity model.Content
	if !DecodeJSON(w, r, &entity) {
		return
	}
	entity.ID = ""
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}
	if entity.AuthorID == "" {
		entity.AuthorID = middleware.GetUserID(r)
	}

	if entity.Slug == "" {
		if tr, ok := entity.Translations[model.DefaultLanguage]; ok {
			entity.Slug = util.Slugify(tr.Title)
		}
	}
	if !util.IsValidSlug(entity.Slug) {
		WriteValidationError(w, "Validation failed", map[string]string{
			"slug": "Slug must contain only lowercase letters, numbers and hyphens",
		})
		return
	}

	// Slug uniqueness within the collection.
	if _, err := h.content.BySlug(r.Context(), collection, entity.Slug); err == nil {
		WriteValidationError(w, "Validation failed", map[string]string{
			"slug": "Slug already exists",
		})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("slug check failed", "collection", collection, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	if !h.save(w, r, collection, &entity) {
		return
	}
	WriteCreated(w, entity)
}

// update validates and overwrites an existing entity (last-write-wins).
func (h *AdminHandler) update(w http.ResponseWriter, r *http.Request, collection string) {
	id := chi.URLParam(r, "id")

	existing, err := h.content.ByID(r.Context(), collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Not found", RouteAdminArticles)
			return
		}
		h.logger.Error(LogContentFetchFailed, "collection", collection, "id", id, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	var entity model.Content
	if !DecodeJSON(w, r, &entity) {
		return
	}
	entity.ID = id
	if entity.Slug == "" {
		entity.Slug = existing.Slug
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = existing.CreatedAt
	}
	if !util.IsValidSlug(entity.Slug) {
		WriteValidationError(w, "Validation failed", map[string]string{
			"slug": "Slug must contain only lowercase letters, numbers and hyphens",
		})
		return
	}

	if !h.save(w, r, collection, &entity) {
		return
	}
	WriteSuccess(w, entity, nil)
}

// save runs the validated write and cache invalidation. A false return means
// the error response has been written.
func (h *AdminHandler) save(w http.ResponseWriter, r *http.Request, collection string, entity *model.Content) bool {
	if _, err := h.content.Save(r.Context(), collection, entity); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			WriteValidationError(w, "Validation failed", verr.Fields)
			return false
		}
		h.logger.Error("content save failed", "collection", collection, "slug", entity.Slug, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return false
	}
	h.invalidateCaches(r)
	return true
}

// delete removes an entity. Deleting a missing one is not an error.
func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request, collection string) {
	id := chi.URLParam(r, "id")
	if err := h.content.Delete(r.Context(), collection, id); err != nil {
		h.logger.Error("content delete failed", "collection", collection, "id", id, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}
	h.invalidateCaches(r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ListArticles handles GET /admin/articles.
func (h *AdminHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.CollectionArticles)
}

// CreateArticle handles POST /admin/articles.
func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, model.CollectionArticles)
}

// UpdateArticle handles PUT /admin/articles/{id}.
func (h *AdminHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, model.CollectionArticles)
}

// DeleteArticle handles DELETE /admin/articles/{id}.
func (h *AdminHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, model.CollectionArticles)
}

// ListPages handles GET /admin/pages.
func (h *AdminHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.CollectionPages)
}

// CreatePage handles POST /admin/pages.
func (h *AdminHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, model.CollectionPages)
}

// UpdatePage handles PUT /admin/pages/{id}.
func (h *AdminHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, model.CollectionPages)
}

// DeletePage handles DELETE /admin/pages/{id}.
func (h *AdminHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, model.CollectionPages)
}

// SyncTaxonomy handles POST /admin/taxonomy: upserts the canonical in-memory
// tree into the taxonomy mirror collection. The mirror is write-only from the
// portal's point of view and never feeds back into the tree.
func (h *AdminHandler) SyncTaxonomy(w http.ResponseWriter, r *http.Request) {
	synced := 0
	for _, cat := range taxonomy.Categories() {
		if _, err := h.store.Put(r.Context(), taxonomy.CollectionTaxonomy, cat.Slug, cat); err != nil {
			h.logger.Error("taxonomy mirror write failed", "category", cat.Slug, "error", err)
			WriteFetchFailure(w, "Service temporarily unavailable")
			return
		}
		synced++
	}
	h.logger.Info("taxonomy mirror synced", "categories", synced)
	WriteSuccess(w, map[string]int{"synced": synced}, nil)
}

// SearchPhoto handles GET /admin/photo?query= — an authoring convenience
// that never fails hard: on provider trouble the fallback URL is returned.
func (h *AdminHandler) SearchPhoto(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		WriteBadRequest(w, "Missing query parameter", nil)
		return
	}

	url, err := h.photos.RandomPhoto(r.Context(), query)
	if err != nil {
		h.logger.Warn("photo lookup degraded to fallback", "query", query, "error", err)
	}
	WriteSuccess(w, map[string]string{"url": url}, nil)
}
