// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imagesearch fetches illustrative photo URLs for the admin authoring
// screens. Failures never surface to the caller as errors worth blocking on:
// the client degrades to a static placeholder.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// FallbackPhotoURL is returned whenever the provider is unreachable,
// unconfigured, or answers with something unusable.
const FallbackPhotoURL = "https://images.pentalingo.org/static/placeholder.jpg"

const requestTimeout = 10 * time.Second

// Client talks to a random-photo API (Unsplash-compatible response shape).
type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
	logger *slog.Logger
}

// New creates a photo search client. apiKey may be empty, in which case every
// lookup returns the fallback URL.
func New(apiURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger,
	}
}

// photoResponse covers the subset of the provider payload we use.
type photoResponse struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

// RandomPhoto returns the URL of a random photo matching query. It never
// returns an empty URL: on any failure the fallback placeholder is returned
// along with the error for logging.
func (c *Client) RandomPhoto(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" {
		return FallbackPhotoURL, nil
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return FallbackPhotoURL, fmt.Errorf("invalid photo API URL: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("orientation", "landscape")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return FallbackPhotoURL, fmt.Errorf("building photo request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("photo API request failed", "query", query, "error", err)
		return FallbackPhotoURL, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("photo API returned status %d", resp.StatusCode)
		c.logger.Warn("photo API request failed", "query", query, "error", err)
		return FallbackPhotoURL, err
	}

	var photo photoResponse
	if err := json.NewDecoder(resp.Body).Decode(&photo); err != nil {
		return FallbackPhotoURL, fmt.Errorf("decoding photo response: %w", err)
	}
	if photo.URLs.Regular == "" {
		return FallbackPhotoURL, fmt.Errorf("photo API returned no usable URL")
	}
	return photo.URLs.Regular, nil
}
