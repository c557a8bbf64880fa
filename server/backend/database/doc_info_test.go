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

package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchkit/couchkit/server/backend/database"
)

func TestDocInfo(t *testing.T) {
	t.Run("deep copy test", func(t *testing.T) {
		info := &database.DocInfo{DB: "users", ID: "alice", Rev: "1-abc", Body: []byte(`{"a":1}`)}
		copied := info.DeepCopy()
		assert.Equal(t, info, copied)

		copied.Body[0] = '['
		assert.Equal(t, `{"a":1}`, string(info.Body))

		var nilInfo *database.DocInfo
		assert.Nil(t, nilInfo.DeepCopy())
	})

	t.Run("next revision test", func(t *testing.T) {
		first := database.NextRevision("", false, []byte(`{"a":1}`))
		generation, hash, err := database.ParseRevision(first)
		assert.NoError(t, err)
		assert.Equal(t, 1, generation)
		assert.Len(t, hash, 32)

		second := database.NextRevision(first, false, []byte(`{"a":1}`))
		assert.Equal(t, 2, (&database.DocInfo{Rev: second}).Generation())
		assert.NotEqual(t, first, second)

		assert.Equal(t, first, database.NextRevision("", false, []byte(`{"a":1}`)))
		assert.NotEqual(t, second, database.NextRevision(first, true, []byte(`{"a":1}`)))
	})

	t.Run("parse revision test", func(t *testing.T) {
		for _, rev := range []string{"", "1", "1-", "x-abc", "0-abc"} {
			_, _, err := database.ParseRevision(rev)
			assert.ErrorIs(t, err, database.ErrInvalidRevision, rev)
		}
		assert.Equal(t, 0, (&database.DocInfo{}).Generation())
	})
}
