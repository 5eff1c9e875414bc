// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package cache

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/admitra/admitra/internal/logging"
)

// BadgerCache is a persistent resolution cache backed by BadgerDB with
// native per-entry TTLs. Used when cached resolutions should survive
// process restarts.
type BadgerCache struct {
	db         *badger.DB
	defaultTTL time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64

	stopGC chan struct{}
}

// NewBadgerCache opens (or creates) a Badger store at path and starts the
// value-log GC loop.
func NewBadgerCache(path string, defaultTTL time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is noisy; errors surface via return values

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %s: %w", path, err)
	}

	c := &BadgerCache{
		db:         db,
		defaultTTL: defaultTTL,
		stopGC:     make(chan struct{}),
	}
	go c.gcLoop()
	return c, nil
}

func (c *BadgerCache) gcLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("badger cache value log GC failed")
			}
		case <-c.stopGC:
			return
		}
	}
}

// Get implements Cache.
func (c *BadgerCache) Get(key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.misses.Add(1)
		return nil, ErrNotFound
	}
	if err != nil {
		c.misses.Add(1)
		return nil, fmt.Errorf("badger get: %w", err)
	}
	c.hits.Add(1)
	return value, nil
}

// Set implements Cache.
func (c *BadgerCache) Set(key string, value []byte) error {
	return c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL implements Cache.
func (c *BadgerCache) SetWithTTL(key string, value []byte, ttl time.Duration) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// Delete implements Cache.
func (c *BadgerCache) Delete(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

// DeletePrefix implements Cache.
func (c *BadgerCache) DeletePrefix(prefix string) error {
	if err := c.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("badger delete prefix: %w", err)
	}
	return nil
}

// Clear implements Cache.
func (c *BadgerCache) Clear() error {
	if err := c.db.DropAll(); err != nil {
		return fmt.Errorf("badger clear: %w", err)
	}
	return nil
}

// Stats implements Cache. Entry count requires a key-only scan; badger does
// not track live-key counts, and eviction happens inside badger's TTL
// machinery, so Evictions is always 0 for this backend.
func (c *BadgerCache) Stats() Stats {
	entries := 0
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})
	return Stats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// Close implements Cache.
func (c *BadgerCache) Close() error {
	close(c.stopGC)
	return c.db.Close()
}
