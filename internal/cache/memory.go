// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package cache

import (
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries are evicted
// lazily on Get and in bulk by an optional background sweep.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	clock      Clock
	defaultTTL time.Duration

	hits      uint64
	misses    uint64
	evictions uint64

	stopSweep chan struct{}
	sweepOnce sync.Once
}

// NewMemoryCache creates a memory cache with the given default TTL.
// A nil clock falls back to the system clock.
func NewMemoryCache(defaultTTL time.Duration, clock Clock) *MemoryCache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		clock:      clock,
		defaultTTL: defaultTTL,
		stopSweep:  make(chan struct{}),
	}
}

// StartSweep launches a background goroutine that removes expired entries
// every interval. Stopped by Close.
func (c *MemoryCache) StartSweep(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-c.stopSweep:
				return
			}
		}
	}()
}

func (c *MemoryCache) sweep() {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			c.evictions++
		}
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.clock.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Recheck under the write lock; a concurrent Set may have renewed it.
		if cur, still := c.entries[key]; still && c.clock.Now().After(cur.expiresAt) {
			delete(c.entries, key)
			c.evictions++
		}
		c.mu.Unlock()
		ok = false
	}

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return e.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(key string, value []byte) error {
	return c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL implements Cache. Same-key writes are last-writer-wins.
func (c *MemoryCache) SetWithTTL(key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

// Stats implements Cache.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Close implements Cache.
func (c *MemoryCache) Close() error {
	c.sweepOnce.Do(func() { close(c.stopSweep) })
	return nil
}
