// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the portal's periodic jobs: sitemap refresh and
// event log pruning.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pentalingo/portal-go/internal/cache"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

// eventRetention is how long persisted log events are kept.
const eventRetention = 30 * 24 * time.Hour

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron    *cron.Cron
	store   store.Store
	sitemap *cache.SitemapCache
	logger  *slog.Logger
}

// New creates a scheduler.
func New(st store.Store, sitemap *cache.SitemapCache, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		store:   st,
		sitemap: sitemap,
		logger:  logger,
	}
}

// Start registers the jobs and begins the cron runner. sitemapSchedule is a
// cron expression (descriptors like @hourly are accepted).
func (s *Scheduler) Start(sitemapSchedule string) error {
	if _, err := s.cron.AddFunc(sitemapSchedule, s.refreshSitemap); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.pruneEvents); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshSitemap() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.sitemap.Refresh(ctx); err != nil {
		s.logger.Error("sitemap refresh failed", "error", err)
		return
	}
	s.logger.Info("sitemap refreshed")
}

// pruneEvents deletes persisted log events past the retention window.
func (s *Scheduler) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var events []model.Event
	if err := s.store.Query(ctx, model.CollectionEvents, nil, &events); err != nil {
		s.logger.Error("event pruning query failed", "error", err)
		return
	}

	cutoff := time.Now().Add(-eventRetention)
	pruned := 0
	for _, e := range events {
		if e.CreatedAt.Before(cutoff) {
			if err := s.store.Delete(ctx, model.CollectionEvents, e.ID); err != nil {
				s.logger.Error("event pruning delete failed", "event_id", e.ID, "error", err)
				continue
			}
			pruned++
		}
	}
	if pruned > 0 {
		s.logger.Info("pruned old events", "count", pruned)
	}
}
