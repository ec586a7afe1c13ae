// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	MongoURI      string `env:"PORTAL_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"PORTAL_MONGO_DB" envDefault:"portal"`
	SessionDBPath string `env:"PORTAL_SESSION_DB_PATH" envDefault:"./data/sessions.db"`
	SessionSecret string `env:"PORTAL_SESSION_SECRET,required"`
	ServerHost    string `env:"PORTAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PORTAL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PORTAL_ENV" envDefault:"development"`
	LogLevel      string `env:"PORTAL_LOG_LEVEL" envDefault:"info"`

	// SiteURL is the canonical base URL used in sitemap entries.
	SiteURL string `env:"PORTAL_SITE_URL" envDefault:"http://localhost:8080"`

	// Cache configuration
	RedisURL     string `env:"PORTAL_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"PORTAL_CACHE_PREFIX" envDefault:"portal:"` // Redis key prefix
	CacheTTL     int    `env:"PORTAL_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"PORTAL_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Sitemap rebuild schedule (cron expression)
	SitemapSchedule string `env:"PORTAL_SITEMAP_SCHEDULE" envDefault:"@hourly"`

	// Image search provider (authoring convenience)
	PhotoAPIURL string `env:"PORTAL_PHOTO_API_URL" envDefault:"https://api.unsplash.com/photos/random"`
	PhotoAPIKey string `env:"PORTAL_PHOTO_API_KEY"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PORTAL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	u, err := url.Parse(cfg.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("PORTAL_SITE_URL must be an absolute URL, got %q", cfg.SiteURL)
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	return cfg, nil
}
