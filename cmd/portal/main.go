// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pentalingo/portal-go/internal/cache"
	"github.com/pentalingo/portal-go/internal/config"
	"github.com/pentalingo/portal-go/internal/handler"
	"github.com/pentalingo/portal-go/internal/i18n"
	"github.com/pentalingo/portal-go/internal/imagesearch"
	"github.com/pentalingo/portal-go/internal/logging"
	"github.com/pentalingo/portal-go/internal/middleware"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/scheduler"
	"github.com/pentalingo/portal-go/internal/service"
	"github.com/pentalingo/portal-go/internal/session"
	"github.com/pentalingo/portal-go/internal/store"
	"github.com/pentalingo/portal-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// registerFrontendRoutes registers the public content routes on the given
// router. They are mounted twice: once unprefixed (the language middleware
// redirects content paths to their canonical prefixed form) and once under
// the /{lang} prefix.
func registerFrontendRoutes(r chi.Router, h *handler.FrontendHandler) {
	r.Get(handler.RouteRoot, h.Home)
	r.Get(handler.RouteCategories, h.Categories)
	r.Get(handler.RouteCategory, h.Category)
	r.Get(handler.RouteSubcat, h.Subcategory)
	r.Get(handler.RouteCatArticle, h.Article)
	r.Get(handler.RouteArticle, h.Article)
	r.Get(handler.RoutePage, h.Page)
	r.Get(handler.RouteSearch, h.Search)
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Pentalingo Portal - multilingual content portal\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_MONGO_URI         MongoDB connection URI (default: mongodb://localhost:27017)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_MONGO_DB          MongoDB database name (default: portal)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SESSION_DB_PATH   Session SQLite path (default: ./data/sessions.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SITE_URL          Canonical base URL for sitemap entries\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SITEMAP_SCHEDULE  Sitemap rebuild cron expression (default: @hourly)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_PHOTO_API_KEY     Image search provider key (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("portal %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	// Connect the document store
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.NewMongoStore(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	cancelConnect()
	if err != nil {
		return fmt.Errorf("connecting document store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			slog.Error("error closing document store", "error", err)
		}
	}()
	slog.Info("document store connected", "database", cfg.MongoDatabase)

	// Upgrade logger to also persist WARN and ERROR records as events
	logger = slog.New(logging.NewEventHandler(textHandler, st))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Localization catalog
	catalog, err := i18n.New(logger)
	if err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n catalog loaded", "languages", len(model.Languages))

	// Session store lives in SQLite next to the binary
	if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	sessionDB, err := store.NewSessionDB(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("initializing session database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing session database", "error", err)
		}
	}(sessionDB)
	if err := store.MigrateSessionDB(sessionDB); err != nil {
		return fmt.Errorf("migrating session database: %w", err)
	}
	sessionManager := session.New(sessionDB, cfg.IsDevelopment())
	slog.Info("session manager initialized", "path", cfg.SessionDBPath)

	// Cache backend: in-process memory by default, Redis when configured
	cacheConfig := cache.Config{
		Type:            "memory",
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxItems:        cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	cacheBackend, err := cache.New(cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacheBackend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cacheConfig.Type)

	// Services
	contentService := service.NewContentService(st, logger)
	searchService := service.NewSearchService(contentService)
	profileService := service.NewProfileService(st, logger)

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	contentCache := cache.NewContentCache(contentService, cacheBackend, cacheTTL)
	sitemapCache := cache.NewSitemapCache(contentService, cfg.SiteURL, cacheTTL)

	photos := imagesearch.New(cfg.PhotoAPIURL, cfg.PhotoAPIKey, logger)

	// Background jobs: sitemap refresh and event log pruning
	sched := scheduler.New(st, sitemapCache, logger)
	if err := sched.Start(cfg.SitemapSchedule); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Handlers
	frontendHandler := handler.NewFrontendHandler(contentCache, searchService, sitemapCache,
		catalog, cfg.SiteURL, cfg.IsDevelopment(), logger)
	authHandler := handler.NewAuthHandler(st, profileService, sessionManager, loginProtection, logger)
	profileHandler := handler.NewProfileHandler(st, profileService, sessionManager, logger)
	adminHandler := handler.NewAdminHandler(st, contentService, contentCache, sitemapCache, photos, logger)
	healthHandler := handler.NewHealthHandler(st, versionInfo)

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5)) // Gzip compression with level 5
	r.Use(chimw.GetHead)     // Handle HEAD requests for uptime monitoring
	r.Use(chimw.Timeout(30 * time.Second))

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Health endpoints stay outside the language group
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteHealth+"/live", healthHandler.Liveness)
	r.Get(handler.RouteHealth+"/ready", healthHandler.Readiness)

	// Public content routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Language(sessionManager, catalog))
		r.Use(middleware.OptionalLoadUser(sessionManager, st))

		r.Get(handler.RouteSitemap, frontendHandler.Sitemap)
		r.Get(handler.RouteRobots, frontendHandler.Robots)

		registerFrontendRoutes(r, frontendHandler)

		// Language-prefixed content URLs, e.g. /ar/categories/science
		r.Route("/{lang:[a-z]{2}}", func(r chi.Router) {
			registerFrontendRoutes(r, frontendHandler)
		})
	})

	// Auth routes with rate limiting
	r.Group(func(r chi.Router) {
		r.Use(middleware.IPRateLimit(10.0, 20))
		r.Use(csrfMiddleware)

		r.Post(handler.RouteRegister, authHandler.Register)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Authenticated profile routes. The language middleware canonicalizes
	// bare content paths (/favorites -> /en/favorites), so each route is
	// registered both unprefixed and under the language prefix.
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireUser(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, st))
		r.Use(middleware.Language(sessionManager, catalog))

		for _, prefix := range []string{"", "/{lang:[a-z]{2}}"} {
			r.Get(prefix+handler.RouteProfile, profileHandler.Profile)
			r.Put(prefix+handler.RouteProfileLanguage, profileHandler.SetLanguage)
			r.Get(prefix+handler.RouteFavorites, profileHandler.Favorites)
			r.Post(prefix+handler.RouteFavoritesID, profileHandler.ToggleFavorite)
			r.Get(prefix+handler.RouteSuggestions, profileHandler.Suggestions)
			r.Post(prefix+handler.RouteSuggestions, profileHandler.SubmitSuggestion)
		}
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireUser(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, st))
		r.Use(middleware.RequireAdmin())

		r.Get(handler.RouteAdminArticles, adminHandler.ListArticles)
		r.Post(handler.RouteAdminArticles, adminHandler.CreateArticle)
		r.Put(handler.RouteAdminArticlesID, adminHandler.UpdateArticle)
		r.Delete(handler.RouteAdminArticlesID, adminHandler.DeleteArticle)

		r.Get(handler.RouteAdminPages, adminHandler.ListPages)
		r.Post(handler.RouteAdminPages, adminHandler.CreatePage)
		r.Put(handler.RouteAdminPagesID, adminHandler.UpdatePage)
		r.Delete(handler.RouteAdminPagesID, adminHandler.DeletePage)

		r.Post(handler.RouteAdminTaxonomy, adminHandler.SyncTaxonomy)
		r.Get(handler.RouteAdminPhoto, adminHandler.SearchPhoto)
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second, // Mitigates slowloris attacks
		MaxHeaderBytes:    1 << 20,          // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
