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

package logging

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		err      error
		expected RequestLogLevel
	}{
		{name: "ok", status: http.StatusOK, expected: RequestLogDebug},
		{name: "created", status: http.StatusCreated, expected: RequestLogDebug},
		{name: "canceled", status: http.StatusInternalServerError, err: context.Canceled, expected: RequestLogDebug},
		{name: "not found", status: http.StatusNotFound, err: errors.New("missing"), expected: RequestLogInfo},
		{name: "conflict", status: http.StatusConflict, err: errors.New("conflict"), expected: RequestLogInfo},
		{name: "unauthorized", status: http.StatusUnauthorized, expected: RequestLogWarn},
		{name: "forbidden", status: http.StatusForbidden, expected: RequestLogWarn},
		{name: "internal", status: http.StatusInternalServerError, expected: RequestLogError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toRequestLogLevel(tt.status, tt.err))
		})
	}

	t.Run("string test", func(t *testing.T) {
		assert.Equal(t, "debug", RequestLogDebug.String())
		assert.Equal(t, "warn", RequestLogWarn.String())
	})
}

func TestContext(t *testing.T) {
	logger := New("test")
	ctx := With(context.Background(), logger)
	assert.Equal(t, logger, From(ctx))
	assert.Equal(t, DefaultLogger(), From(context.Background()))
}
