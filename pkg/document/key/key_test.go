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

package key

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchkit/couchkit/pkg/errors"
)

func TestKey(t *testing.T) {
	t.Run("combined key test", func(t *testing.T) {
		k, err := FromCombinedKey("users:alice")
		assert.NoError(t, err)
		assert.Equal(t, Key{Collection: "users", Document: "alice"}, k)
		assert.Equal(t, "users:alice", k.CombinedKey())

		k, err = FromCombinedKey("users:urn:alice")
		assert.NoError(t, err)
		assert.Equal(t, "urn:alice", k.Document)

		for _, combined := range []string{"users", ":alice", "users:", ""} {
			_, err = FromCombinedKey(combined)
			assert.ErrorIs(t, err, ErrInvalidCombinedKey, combined)
		}

		_, err = FromCombinedKey("Users:alice")
		assert.ErrorIs(t, err, ErrInvalidCollectionName)
	})

	t.Run("normalize collection test", func(t *testing.T) {
		name, err := NormalizeCollection("orders_2024")
		assert.NoError(t, err)
		assert.Equal(t, "orders_2024", name)

		_, err = NormalizeCollection("Orders")
		assert.ErrorIs(t, err, ErrInvalidCollectionName)
		assert.Equal(t, errors.ErrCodeInvalidArgument, errors.StatusOf(err))
	})

	t.Run("document id test", func(t *testing.T) {
		assert.NoError(t, ValidateDocumentID("_design/app"))
		assert.ErrorIs(t, ValidateDocumentID("_users"), ErrInvalidDocumentID)
		assert.ErrorIs(t, Key{Collection: "users"}.Validate(), ErrInvalidDocumentID)
	})
}
