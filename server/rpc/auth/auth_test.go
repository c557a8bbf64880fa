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

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchkit/couchkit/api/types"
	pkgauth "github.com/couchkit/couchkit/pkg/auth"
	"github.com/couchkit/couchkit/server/rpc/auth"
)

func TestAuthenticator(t *testing.T) {
	tokenManager := pkgauth.NewTokenManager("secret", time.Minute)
	authenticator, err := auth.NewAuthenticator("admin", "password", tokenManager)
	require.NoError(t, err)

	t.Run("check password test", func(t *testing.T) {
		user, err := authenticator.CheckPassword("admin", "password")
		assert.NoError(t, err)
		assert.True(t, user.IsAdmin())

		_, err = authenticator.CheckPassword("admin", "wrong")
		assert.ErrorIs(t, err, auth.ErrBadCredentials)
		_, err = authenticator.CheckPassword("guest", "password")
		assert.ErrorIs(t, err, auth.ErrBadCredentials)
	})

	t.Run("credential cache test", func(t *testing.T) {
		authenticator, err := auth.NewAuthenticator("admin", "password", tokenManager)
		require.NoError(t, err)

		_, err = authenticator.CheckPassword("admin", "password")
		require.NoError(t, err)
		assert.Equal(t, int64(0), authenticator.CacheStats().Hits())

		user, err := authenticator.CheckPassword("admin", "password")
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Name)
		assert.Equal(t, int64(1), authenticator.CacheStats().Hits())

		_, err = authenticator.CheckPassword("admin", "wrong")
		assert.ErrorIs(t, err, auth.ErrBadCredentials)
		assert.Equal(t, int64(1), authenticator.CacheStats().Hits())
	})

	t.Run("basic auth test", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("admin", "password")
		user, err := authenticator.Authenticate(req)
		assert.NoError(t, err)
		assert.Equal(t, "admin", user.Name)
	})

	t.Run("bearer token test", func(t *testing.T) {
		token, err := tokenManager.Generate("alice", "reader")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(types.AuthorizationKey, "Bearer "+token)
		user, err := authenticator.Authenticate(req)
		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Name)
		assert.Equal(t, []string{"reader"}, user.Roles)
		assert.False(t, user.IsAdmin())

		req.Header.Set(types.AuthorizationKey, "Bearer invalid")
		_, err = authenticator.Authenticate(req)
		assert.ErrorIs(t, err, pkgauth.ErrInvalidToken)

		req.Header.Set(types.AuthorizationKey, "Digest abc")
		_, err = authenticator.Authenticate(req)
		assert.ErrorIs(t, err, auth.ErrBadCredentials)
	})

	t.Run("session cookie test", func(t *testing.T) {
		user, err := authenticator.CheckPassword("admin", "password")
		require.NoError(t, err)
		session, err := authenticator.NewSession(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: types.SessionCookieName, Value: session})
		found, err := authenticator.Authenticate(req)
		assert.NoError(t, err)
		assert.True(t, found.IsAdmin())
	})

	t.Run("anonymous test", func(t *testing.T) {
		user, err := authenticator.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("context test", func(t *testing.T) {
		user := &auth.User{Name: "admin"}
		assert.Equal(t, user, auth.From(auth.With(context.Background(), user)))
		assert.Nil(t, auth.From(context.Background()))
	})
}
