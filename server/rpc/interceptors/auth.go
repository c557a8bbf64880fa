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
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/logging"
	"github.com/couchkit/couchkit/server/rpc/auth"
	"github.com/couchkit/couchkit/server/rpc/httphelper"
)

// AuthInterceptor resolves the user of every request. Anonymous requests are
// rejected when the backend requires authentication. Public routes are served
// to anonymous users and ignore invalid credentials.
type AuthInterceptor struct {
	backend       *backend.Backend
	authenticator *auth.Authenticator
	public        map[string]bool
}

// NewAuthInterceptor creates a new instance of AuthInterceptor.
func NewAuthInterceptor(
	be *backend.Backend,
	authenticator *auth.Authenticator,
	publicRoutes ...string,
) *AuthInterceptor {
	public := make(map[string]bool, len(publicRoutes))
	for _, name := range publicRoutes {
		public[name] = true
	}

	return &AuthInterceptor{
		backend:       be,
		authenticator: authenticator,
		public:        public,
	}
}

// Middleware wraps the given handler.
func (i *AuthInterceptor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := i.authenticator.Authenticate(r)
		if err != nil {
			if !i.isPublic(r) {
				Fail(w, r, err)
				return
			}
			user = nil
		}

		if user == nil && i.backend.Config.RequireAuth && !i.isPublic(r) {
			Fail(w, r, fmt.Errorf("%s %s: %w", r.Method, r.URL.EscapedPath(), auth.ErrAuthRequired))
			return
		}

		if user != nil {
			logging.From(r.Context()).Debugf("authenticated %s", user.Name)
		}
		next.ServeHTTP(w, r.WithContext(auth.With(r.Context(), user)))
	})
}

func (i *AuthInterceptor) isPublic(r *http.Request) bool {
	route := mux.CurrentRoute(r)
	return route != nil && i.public[route.GetName()]
}

// Fail records the error of the request and writes its error response. HEAD
// responses carry the status only.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	RecordError(w, err)
	if r.Method == http.MethodHead {
		status, _ := httphelper.ToErrorResponse(err)
		w.WriteHeader(status)
		return
	}
	httphelper.WriteError(w, err)
}
