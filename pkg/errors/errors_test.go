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

package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	t.Run("string test", func(t *testing.T) {
		tests := []struct {
			code StatusCode
			want string
		}{
			{ErrCodeInvalidArgument, "invalid_argument"},
			{ErrCodeNotFound, "not_found"},
			{ErrCodeAlreadyExists, "already_exists"},
			{ErrCodePermissionDenied, "permission_denied"},
			{ErrCodeFailedPrecondition, "failed_precondition"},
			{ErrCodeAborted, "aborted"},
			{ErrCodeInternal, "internal"},
			{ErrCodeUnavailable, "unavailable"},
			{ErrCodeUnauthenticated, "unauthenticated"},
			{StatusCode(999), "code_999"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, tt.code.String())
		}
	})

	t.Run("client and server classification test", func(t *testing.T) {
		assert.True(t, ErrCodeAborted.IsClientError())
		assert.False(t, ErrCodeAborted.IsServerError())
		assert.True(t, ErrCodeUnavailable.IsServerError())
		assert.False(t, StatusCode(0).IsClientError())
		assert.False(t, StatusCode(0).IsServerError())
	})

	t.Run("http mapping test", func(t *testing.T) {
		tests := []struct {
			http int
			code StatusCode
		}{
			{http.StatusCreated, 0},
			{http.StatusBadRequest, ErrCodeInvalidArgument},
			{http.StatusUnauthorized, ErrCodeUnauthenticated},
			{http.StatusForbidden, ErrCodePermissionDenied},
			{http.StatusNotFound, ErrCodeNotFound},
			{http.StatusConflict, ErrCodeAborted},
			{http.StatusPreconditionFailed, ErrCodeAlreadyExists},
			{http.StatusServiceUnavailable, ErrCodeUnavailable},
			{http.StatusTeapot, ErrCodeInternal},
		}
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%d", tt.http), func(t *testing.T) {
				code := StatusFromHTTP(tt.http)
				assert.Equal(t, tt.code, code)
				if code != 0 && code != ErrCodeInternal {
					assert.Equal(t, tt.http, code.HTTPStatus())
				}
			})
		}
	})
}

func TestStatusError(t *testing.T) {
	errConflict := Aborted("document update conflict").WithCode("ErrConflict")

	t.Run("wrapped status test", func(t *testing.T) {
		err := fmt.Errorf("write document: %w", errConflict)
		assert.ErrorIs(t, err, errConflict)
		assert.Equal(t, ErrCodeAborted, StatusOf(err))
		assert.Equal(t, "ErrConflict", CodeOf(err))
		assert.True(t, IsStatus(err, ErrCodeAborted))
		assert.True(t, IsClientError(err))
	})

	t.Run("plain error test", func(t *testing.T) {
		err := fmt.Errorf("plain")
		assert.Equal(t, StatusCode(0), StatusOf(err))
		assert.Equal(t, "", CodeOf(err))
		assert.Equal(t, StatusCode(0), StatusOf(nil))
	})

	t.Run("error info test", func(t *testing.T) {
		err := WithMetadata(fmt.Errorf("update: %w", errConflict), map[string]string{"id": "doc-1"})
		info := ErrorInfoOf(err)
		assert.Equal(t, ErrCodeAborted, info.Status)
		assert.Equal(t, "ErrConflict", info.Code)
		assert.Equal(t, "aborted", info.StatusString)
		assert.Equal(t, "doc-1", info.Metadata["id"])
		assert.True(t, info.IsClient)
		assert.Equal(t, ErrorInfo{}, ErrorInfoOf(nil))
	})
}

func TestMetadata(t *testing.T) {
	errIncompatible := InvalidArgument("incompatible collection").WithCode("ErrIncompatibleCollection")

	t.Run("attach and merge test", func(t *testing.T) {
		err := WithMetadata(errIncompatible, map[string]string{"expected": "users"})
		err = WithMetadata(err, map[string]string{"actual": "posts", "expected": "people"})

		assert.ErrorIs(t, err, errIncompatible)
		assert.Equal(t, map[string]string{"expected": "people", "actual": "posts"}, Metadata(err))
		assert.Equal(t, ErrCodeInvalidArgument, StatusOf(err))
	})

	t.Run("empty metadata test", func(t *testing.T) {
		assert.Equal(t, errIncompatible, WithMetadata(errIncompatible, nil))
		assert.Nil(t, WithMetadata(nil, map[string]string{"a": "b"}))
		assert.Nil(t, Metadata(errIncompatible))
	})

	t.Run("copy test", func(t *testing.T) {
		err := WithMetadata(errIncompatible, map[string]string{"a": "b"})
		md := Metadata(err)
		md["a"] = "changed"
		assert.Equal(t, "b", Metadata(err)["a"])
	})
}
