/*
 * Copyright 2026 The Couchkit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cache provides an expiring LRU cache that counts its hits.
package cache

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	// ErrInvalidMaxSize is returned when the given max size is not positive.
	ErrInvalidMaxSize = errors.New("max size must be > 0")
)

// Stats counts the lookups of a cache.
type Stats struct {
	hits   int64
	misses int64
}

// Hits returns the number of cache hits.
func (s *Stats) Hits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Misses returns the number of cache misses.
func (s *Stats) Misses() int64 {
	return atomic.LoadInt64(&s.misses)
}

// LRUExpireCache is an LRU cache whose entries expire after a fixed ttl.
type LRUExpireCache[K comparable, V any] struct {
	lru   *expirable.LRU[K, V]
	stats Stats
}

// NewLRUExpireCache creates a cache of at most maxSize entries.
func NewLRUExpireCache[K comparable, V any](maxSize int, ttl time.Duration) (*LRUExpireCache[K, V], error) {
	if maxSize <= 0 {
		return nil, ErrInvalidMaxSize
	}

	return &LRUExpireCache[K, V]{
		lru: expirable.NewLRU[K, V](maxSize, nil, ttl),
	}, nil
}

// Add adds the value to the cache at key, evicting the least recently used
// entry when the cache is full.
func (c *LRUExpireCache[K, V]) Add(key K, value V) {
	c.lru.Add(key, value)
}

// Get returns the unexpired value of key.
func (c *LRUExpireCache[K, V]) Get(key K) (V, bool) {
	value, ok := c.lru.Get(key)
	if ok {
		atomic.AddInt64(&c.stats.hits, 1)
	} else {
		atomic.AddInt64(&c.stats.misses, 1)
	}
	return value, ok
}

// Remove removes key from the cache.
func (c *LRUExpireCache[K, V]) Remove(key K) {
	c.lru.Remove(key)
}

// Purge removes every entry.
func (c *LRUExpireCache[K, V]) Purge() {
	c.lru.Purge()
}

// Len returns the number of entries, expired ones included until they are
// reaped.
func (c *LRUExpireCache[K, V]) Len() int {
	return c.lru.Len()
}

// Stats returns the lookup counters of the cache.
func (c *LRUExpireCache[K, V]) Stats() *Stats {
	return &c.stats
}
