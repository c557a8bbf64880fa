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
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/rpc/httphelper"
)

// MetricsInterceptor records the handled requests in the metrics of the
// backend.
type MetricsInterceptor struct {
	backend *backend.Backend
}

// NewMetricsInterceptor creates a new instance of MetricsInterceptor.
func NewMetricsInterceptor(be *backend.Backend) *MetricsInterceptor {
	return &MetricsInterceptor{backend: be}
}

// Middleware wraps the given handler.
func (i *MetricsInterceptor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.backend.Metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := record(w)
		next.ServeHTTP(rec, r)

		route := routeOf(r)
		i.backend.Metrics.AddServerHandledCounter(r.Method, route, strconv.Itoa(rec.status))
		i.backend.Metrics.ObserveResponseSeconds(r.Method, route, time.Since(start).Seconds())

		if sdkType, sdkVersion := httphelper.SDKTypeAndVersion(r.Header); sdkType != "" {
			i.backend.Metrics.AddUserAgent(i.backend.Config.Hostname, sdkType, sdkVersion, r.Method)
		}
	})
}

// routeOf returns the path template of the matched route, which keeps the
// label values of the metrics bounded.
func routeOf(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return template
}
