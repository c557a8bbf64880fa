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

package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/couchkit/couchkit/pkg/cache"
)

func TestCache(t *testing.T) {
	t.Run("create lru expire cache test", func(t *testing.T) {
		lruCache, err := cache.NewLRUExpireCache[string, string](1, time.Minute)
		assert.NoError(t, err)
		assert.NotNil(t, lruCache)

		lruCache, err = cache.NewLRUExpireCache[string, string](0, time.Minute)
		assert.ErrorIs(t, err, cache.ErrInvalidMaxSize)
		assert.Nil(t, lruCache)
	})

	t.Run("add test", func(t *testing.T) {
		lruCache, err := cache.NewLRUExpireCache[string, string](1, time.Minute)
		assert.NoError(t, err)

		lruCache.Add("request1", "response1")
		response1, ok := lruCache.Get("request1")
		assert.True(t, ok)
		assert.Equal(t, "response1", response1)

		lruCache.Add("request2", "response2")
		response2, ok := lruCache.Get("request2")
		assert.True(t, ok)
		assert.Equal(t, "response2", response2)

		// max size of the current cache is 1
		response1, ok = lruCache.Get("request1")
		assert.False(t, ok)
		assert.Empty(t, response1)

		assert.Equal(t, int64(2), lruCache.Stats().Hits())
		assert.Equal(t, int64(1), lruCache.Stats().Misses())
	})

	t.Run("get expired cache test", func(t *testing.T) {
		ttl := 10 * time.Millisecond
		lruCache, err := cache.NewLRUExpireCache[string, string](1, ttl)
		assert.NoError(t, err)

		lruCache.Add("request", "response")
		assert.Eventually(t, func() bool {
			_, ok := lruCache.Get("request")
			return !ok
		}, time.Second, ttl)
	})

	t.Run("remove and purge test", func(t *testing.T) {
		lruCache, err := cache.NewLRUExpireCache[string, int](2, time.Minute)
		assert.NoError(t, err)

		lruCache.Add("a", 1)
		lruCache.Add("b", 2)
		lruCache.Remove("a")
		_, ok := lruCache.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 1, lruCache.Len())

		lruCache.Purge()
		assert.Equal(t, 0, lruCache.Len())
	})
}
