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

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	t.Run("collection name test", func(t *testing.T) {
		for _, name := range []string{"users", "a", "db_1", "a$b", "a(b)", "a+b-c", "team/users"} {
			assert.NoError(t, ValidateValue(name, "collection_name"), name)
			normalized, ok := CollectionName(name)
			assert.True(t, ok)
			assert.Equal(t, name, normalized)
		}

		for _, name := range []string{"", "Users", "1users", "_users", "user name", "users!", "éa"} {
			err := ValidateValue(name, "collection_name")
			assert.Equal(t, "collection_name", err.(Violation).Tag, name)
			_, ok := CollectionName(name)
			assert.False(t, ok)
		}
	})

	t.Run("document id test", func(t *testing.T) {
		for _, id := range []string{"alice", "_design/views", "_local/checkpoint", "a_b", "Mixed-Case.1"} {
			assert.NoError(t, ValidateValue(id, "document_id"), id)
		}
		for _, id := range []string{"", "_secret", "_design/", "_local"} {
			err := ValidateValue(id, "document_id")
			assert.Equal(t, "document_id", err.(Violation).Tag, id)
		}
	})

	t.Run("duration test", func(t *testing.T) {
		assert.NoError(t, ValidateValue("1h30m20s", "duration,min=2"))
		err := ValidateValue("one hour", "duration,min=2")
		assert.Equal(t, "duration", err.(Violation).Tag)
	})

	t.Run("custom rule test", func(t *testing.T) {
		errNotAdmin := errors.New("{0} must be admin")
		rules := []interface{}{"required", CustomRule{
			Tag: "admin_only",
			Func: func(fl FieldLevel) bool {
				return fl.Field().String() == "admin"
			},
			Err: errNotAdmin,
		}}

		assert.NoError(t, Validate("admin", rules))
		err := Validate("guest", rules)
		assert.Equal(t, "admin_only", err.(Violation).Tag)
	})

	t.Run("ValidateStruct test", func(t *testing.T) {
		type Server struct {
			Database string `validate:"required,collection_name"`
			Interval string `validate:"required,duration"`
		}

		assert.NoError(t, ValidateStruct(Server{Database: "users", Interval: "10s"}))

		err := ValidateStruct(Server{Database: "Users", Interval: "ten"})
		structErr, ok := err.(*StructError)
		assert.True(t, ok)
		assert.Len(t, structErr.Violations, 2)
		assert.Equal(t, "Database", structErr.Violations[0].Field)
		assert.Equal(t, "collection_name", structErr.Violations[0].Tag)
		assert.Equal(t, "duration", structErr.Violations[1].Tag)
	})
}
