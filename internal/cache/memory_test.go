// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package cache

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestMemoryCacheSetGet(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(15*time.Minute, newFakeClock())
	defer c.Close()

	if err := c.Set("college\x00iit bombay", []byte(`{"id":"c1"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get("college\x00iit bombay")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte(`{"id":"c1"}`)) {
		t.Errorf("Get = %s, want stored value", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := NewMemoryCache(15*time.Minute, clk)
	defer c.Close()

	if err := c.SetWithTTL("k", []byte("v"), 2*time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	clk.Advance(time.Minute)
	if _, err := c.Get("k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	clk.Advance(2 * time.Minute)
	if _, err := c.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after expiry = %v, want ErrNotFound", err)
	}

	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries = %d, want 0 after lazy eviction", stats.Entries)
	}
}

func TestMemoryCacheLastWriterWins(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(15*time.Minute, newFakeClock())
	defer c.Close()

	c.Set("k", []byte("first"))
	c.Set("k", []byte("second"))

	got, err := c.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get = %q, want second write", got)
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(15*time.Minute, newFakeClock())
	defer c.Close()

	c.Set("college\x00a", []byte("1"))
	c.Set("college\x00b", []byte("2"))
	c.Set("course\x00a", []byte("3"))

	if err := c.DeletePrefix("college\x00"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if _, err := c.Get("college\x00a"); !errors.Is(err, ErrNotFound) {
		t.Error("college entry survived prefix delete")
	}
	if _, err := c.Get("course\x00a"); err != nil {
		t.Errorf("course entry evicted by unrelated prefix: %v", err)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(15*time.Minute, newFakeClock())
	defer c.Close()

	c.Set("k", []byte("v"))
	c.Get("k")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("Stats = %+v, want 1 hit, 1 miss, 1 entry", stats)
	}
}

func TestMemoryCacheSweep(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := NewMemoryCache(time.Minute, clk)
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	clk.Advance(2 * time.Minute)
	c.sweep()

	if stats := c.Stats(); stats.Entries != 0 || stats.Evictions != 2 {
		t.Errorf("after sweep Stats = %+v, want 0 entries, 2 evictions", stats)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(time.Minute, newFakeClock())
	defer c.Close()

	c.Set("a", []byte("1"))
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Error("entry survived Clear")
	}
}
