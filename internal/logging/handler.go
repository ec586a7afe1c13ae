// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that persists WARN and ERROR
// records to the events collection for later inspection.
package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

// writeTimeout bounds the event write so a slow store cannot stall logging.
const writeTimeout = 5 * time.Second

// EventHandler is a slog.Handler that wraps another handler and also writes
// records at or above a threshold level to the events collection.
type EventHandler struct {
	inner slog.Handler
	store store.Store
	level slog.Level
	attrs []slog.Attr
}

// NewEventHandler creates an EventHandler persisting WARN and above.
func NewEventHandler(inner slog.Handler, st store.Store) *EventHandler {
	return NewEventHandlerWithLevel(inner, st, slog.LevelWarn)
}

// NewEventHandlerWithLevel creates an EventHandler with a custom threshold.
func NewEventHandlerWithLevel(inner slog.Handler, st store.Store, level slog.Level) *EventHandler {
	return &EventHandler{
		inner: inner,
		store: st,
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *EventHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventHandler{
		inner: h.inner.WithAttrs(attrs),
		store: h.store,
		level: h.level,
		attrs: merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventHandler) WithGroup(name string) slog.Handler {
	return &EventHandler{
		inner: h.inner.WithGroup(name),
		store: h.store,
		level: h.level,
		attrs: h.attrs,
	}
}

// persist writes a record to the events collection. Failures are dropped;
// the record already reached the inner handler. A detached context is used
// so a cancelled request cannot lose the event.
func (h *EventHandler) persist(r slog.Record) {
	event := &model.Event{
		Level:     eventLevel(r.Level),
		Message:   r.Message,
		Metadata:  h.metadata(r),
		CreatedAt: r.Time,
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, _ = h.store.Put(ctx, model.CollectionEvents, "", event)
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// metadata flattens the record's attributes, including those bound via
// WithAttrs, into a string map.
func (h *EventHandler) metadata(r slog.Record) map[string]string {
	if len(h.attrs) == 0 && r.NumAttrs() == 0 {
		return nil
	}

	meta := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		meta[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		meta[a.Key] = a.Value.String()
		return true
	})
	return meta
}
