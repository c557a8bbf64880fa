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

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	metrics, err := NewMetrics()
	require.NoError(t, err)

	t.Run("document writes test", func(t *testing.T) {
		metrics.AddDocumentWrite("users", WriteCreated)
		metrics.AddDocumentWrite("users", WriteCreated)
		metrics.AddDocumentWrite("users", WriteConflict)

		created := metrics.documentWritesTotal.WithLabelValues("users", WriteCreated)
		assert.Equal(t, float64(2), testutil.ToFloat64(created))
		conflict := metrics.documentWritesTotal.WithLabelValues("users", WriteConflict)
		assert.Equal(t, float64(1), testutil.ToFloat64(conflict))
	})

	t.Run("handled counter test", func(t *testing.T) {
		metrics.AddServerHandledCounter("GET", "/{db}", "200")
		metrics.SetDatabases(3)

		assert.Equal(t, float64(1), testutil.ToFloat64(
			metrics.serverHandledCounter.WithLabelValues("GET", "/{db}", "200"),
		))
		assert.Equal(t, float64(3), testutil.ToFloat64(metrics.databasesTotal))
	})

	t.Run("registry test", func(t *testing.T) {
		families, err := metrics.Registry().Gather()
		assert.NoError(t, err)
		assert.NotEmpty(t, families)
	})
}
