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

// Package interceptors provides the middlewares of the HTTP API of the store.
package interceptors

import (
	"net/http"
	"strconv"
	"sync/atomic"
)

// requestID is used to generate a unique request ID.
type requestID struct {
	prefix string
	id     int32
}

// newRequestID creates a new requestID.
func newRequestID(prefix string) *requestID {
	return &requestID{
		prefix: prefix,
		id:     0,
	}
}

// next generates a new request ID.
func (r *requestID) next() string {
	next := atomic.AddInt32(&r.id, 1)
	return r.prefix + strconv.Itoa(int(next))
}

// responseRecorder keeps the status and the error of a response for the
// interceptors that run after the handler.
type responseRecorder struct {
	http.ResponseWriter

	status int
	err    error
}

// record returns the recorder of the writer, wrapping it when needed.
func record(w http.ResponseWriter) *responseRecorder {
	if rec, ok := w.(*responseRecorder); ok {
		return rec
	}
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the status and writes it.
func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RecordError keeps the error of a failed request so that it is logged with
// the request.
func RecordError(w http.ResponseWriter, err error) {
	if rec, ok := w.(*responseRecorder); ok {
		rec.err = err
	}
}
