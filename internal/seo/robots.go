// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // Base URL for sitemap reference
	DisallowAll   bool     // Block all crawlers (for staging sites)
	ExtraRules    string   // Additional custom rules
	DisallowPaths []string // Paths to disallow beyond the defaults
}

// RobotsBuilder builds robots.txt content.
type RobotsBuilder struct {
	config RobotsConfig
}

// NewRobotsBuilder creates a new robots.txt builder.
func NewRobotsBuilder(config RobotsConfig) *RobotsBuilder {
	return &RobotsBuilder{config: config}
}

// Build generates the robots.txt content.
func (b *RobotsBuilder) Build() string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")

	if b.config.DisallowAll {
		sb.WriteString("Disallow: /\n")
	} else {
		defaultDisallow := []string{
			"/admin",
			"/login",
			"/register",
			"/logout",
			"/profile",
		}

		allPaths := defaultDisallow
		allPaths = append(allPaths, b.config.DisallowPaths...)

		for _, path := range allPaths {
			sb.WriteString("Disallow: ")
			sb.WriteString(path)
			sb.WriteString("\n")
		}

		sb.WriteString("Allow: /\n")
	}

	if b.config.ExtraRules != "" {
		sb.WriteString("\n")
		sb.WriteString(b.config.ExtraRules)
		if !strings.HasSuffix(b.config.ExtraRules, "\n") {
			sb.WriteString("\n")
		}
	}

	if b.config.SiteURL != "" && !b.config.DisallowAll {
		sb.WriteString("\n")
		sb.WriteString("Sitemap: ")
		sb.WriteString(strings.TrimSuffix(b.config.SiteURL, "/"))
		sb.WriteString("/sitemap.xml\n")
	}

	return sb.String()
}

// GenerateRobots is a convenience function to generate robots.txt content.
func GenerateRobots(siteURL string, disallowAll bool) string {
	builder := NewRobotsBuilder(RobotsConfig{
		SiteURL:     siteURL,
		DisallowAll: disallowAll,
	})
	return builder.Build()
}
