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

package interceptors

import (
	"net/http"
	"time"

	"github.com/couchkit/couchkit/server/logging"
)

// LoggingInterceptor gives every request its own logger and logs the request
// when it completes.
type LoggingInterceptor struct {
	requestID *requestID
}

// NewLoggingInterceptor creates a new instance of LoggingInterceptor.
func NewLoggingInterceptor() *LoggingInterceptor {
	return &LoggingInterceptor{
		requestID: newRequestID("r"),
	}
}

// Middleware wraps the given handler.
func (i *LoggingInterceptor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := logging.New(i.requestID.next())
		rec := record(w)

		next.ServeHTTP(rec, r.WithContext(logging.With(r.Context(), reqLogger)))

		logging.LogRequest(reqLogger, r.Method, r.URL.EscapedPath(), rec.status, time.Since(start), rec.err)
	})
}
