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

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/pkg/auth"
)

// Authenticator attaches credentials to outgoing requests.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// refresher is implemented by authenticators whose credentials can expire
// while the client is running.
type refresher interface {
	Invalidate()
}

// BasicAuth authenticates with HTTP basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Authenticate sets the basic credentials.
func (a BasicAuth) Authenticate(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// BearerAuth authenticates with a pre-issued token.
type BearerAuth struct {
	Token string
}

// Authenticate sets the bearer token.
func (a BearerAuth) Authenticate(_ context.Context, req *http.Request) error {
	req.Header.Set(types.AuthorizationKey, "Bearer "+a.Token)
	return nil
}

// JWTAuth signs a token for every request with the secret shared with the
// store.
type JWTAuth struct {
	manager  *auth.TokenManager
	username string
	roles    []string
}

// NewJWTAuth creates a JWTAuth.
func NewJWTAuth(manager *auth.TokenManager, username string, roles ...string) *JWTAuth {
	return &JWTAuth{manager: manager, username: username, roles: roles}
}

// Authenticate signs a fresh token and sets it as the bearer token.
func (a *JWTAuth) Authenticate(_ context.Context, req *http.Request) error {
	token, err := a.manager.Generate(a.username, a.roles...)
	if err != nil {
		return fmt.Errorf("authenticate %s: %w", a.username, err)
	}
	req.Header.Set(types.AuthorizationKey, "Bearer "+token)
	return nil
}

// SessionAuth logs in once and lets the cookie jar of the HTTP client carry
// the session cookie.
type SessionAuth struct {
	username string
	password string
	client   *http.Client
	endpoint string

	mu       sync.Mutex
	loggedIn bool
}

// NewSessionAuth creates a SessionAuth. The given client must have a cookie
// jar.
func NewSessionAuth(client *http.Client, baseURL, username, password string) *SessionAuth {
	return &SessionAuth{
		username: username,
		password: password,
		client:   client,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/_session",
	}
}

// Authenticate logs in if there is no session yet.
func (a *SessionAuth) Authenticate(ctx context.Context, _ *http.Request) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.loggedIn {
		return nil
	}
	if err := a.login(ctx); err != nil {
		return err
	}
	a.loggedIn = true
	return nil
}

// Invalidate forgets the session, the next request logs in again.
func (a *SessionAuth) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = false
}

func (a *SessionAuth) login(ctx context.Context) error {
	form := url.Values{"name": {a.username}, "password": {a.password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("login %s: %w", a.username, err)
	}
	req.Header.Set(types.ContentTypeKey, "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("login %s: %w: %w", a.username, ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("login %s: %w: %w", a.username, ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(http.MethodPost, "/_session", &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		})
	}
	return nil
}
