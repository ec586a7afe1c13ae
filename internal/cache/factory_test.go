// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"testing"
)

func TestNewDefaultsToMemory(t *testing.T) {
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("got %T, want *MemoryCache", c)
	}
}

func TestNewEmptyTypeIsMemory(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("got %T, want *MemoryCache", c)
	}
}

func TestNewRejectsRedisWithoutURL(t *testing.T) {
	if _, err := New(Config{Type: "redis"}); err == nil {
		t.Error("redis without a URL should fail")
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	if _, err := New(Config{Type: "memcached"}); err == nil {
		t.Error("unknown cache type should fail")
	}
}
