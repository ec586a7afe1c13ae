// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartAndStop(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close(context.Background())

	s := New(st, nil, testLogger())
	if err := s.Start("@hourly"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(store.NewMemoryStore(), nil, testLogger())
	if err := s.Start("not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestPruneEvents(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close(ctx)

	old := model.Event{
		Level:     model.EventLevelError,
		Message:   "stale",
		CreatedAt: time.Now().Add(-45 * 24 * time.Hour),
	}
	recent := model.Event{
		Level:     model.EventLevelWarning,
		Message:   "fresh",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	if _, err := st.Put(ctx, model.CollectionEvents, "", old); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := st.Put(ctx, model.CollectionEvents, "", recent); err != nil {
		t.Fatalf("Put: %v", err)
	}

	s := New(st, nil, testLogger())
	s.pruneEvents()

	var remaining []model.Event
	if err := st.Query(ctx, model.CollectionEvents, nil, &remaining); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("got %d events, want 1", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Fatalf("kept event %q, want %q", remaining[0].Message, "fresh")
	}
}
