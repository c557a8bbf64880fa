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

// Package auth provides the authentication of the requests to the store.
package auth

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/couchkit/couchkit/api/types"
	pkgauth "github.com/couchkit/couchkit/pkg/auth"
	"github.com/couchkit/couchkit/pkg/cache"
	"github.com/couchkit/couchkit/pkg/errors"
)

// AdminRole is the role of the administrator.
const AdminRole = "_admin"

const (
	// credentialCacheSize is the number of verified credentials kept.
	credentialCacheSize = 256

	// credentialCacheTTL is how long verified credentials skip bcrypt.
	credentialCacheTTL = time.Minute
)

var (
	// ErrBadCredentials is returned when the name or the password is wrong.
	ErrBadCredentials = errors.Unauthenticated("bad credentials").WithCode("ErrBadCredentials")

	// ErrAuthRequired is returned when an anonymous request reaches a server
	// that requires authentication.
	ErrAuthRequired = errors.Unauthenticated("authentication required").WithCode("ErrAuthRequired")
)

// Authenticator resolves the user of a request from basic credentials,
// bearer tokens or session cookies.
type Authenticator struct {
	adminUser    string
	adminHash    []byte
	tokenManager *pkgauth.TokenManager
	verified     *cache.LRUExpireCache[[sha256.Size]byte, *User]
}

// NewAuthenticator creates an Authenticator of the given administrator.
func NewAuthenticator(
	adminUser, adminPassword string,
	tokenManager *pkgauth.TokenManager,
) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	verified, err := cache.NewLRUExpireCache[[sha256.Size]byte, *User](credentialCacheSize, credentialCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("create credential cache: %w", err)
	}

	return &Authenticator{
		adminUser:    adminUser,
		adminHash:    hash,
		tokenManager: tokenManager,
		verified:     verified,
	}, nil
}

// CheckPassword returns the user of the given credentials. Credentials that
// were verified recently are answered from a cache, only digests of them are
// kept.
func (a *Authenticator) CheckPassword(name, password string) (*User, error) {
	if name != a.adminUser {
		return nil, fmt.Errorf("check password of %s: %w", name, ErrBadCredentials)
	}

	digest := sha256.Sum256([]byte(name + ":" + password))
	if user, ok := a.verified.Get(digest); ok {
		return user, nil
	}
	if err := bcrypt.CompareHashAndPassword(a.adminHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("check password of %s: %w", name, ErrBadCredentials)
	}

	user := &User{Name: name, Roles: []string{AdminRole}}
	a.verified.Add(digest, user)
	return user, nil
}

// CacheStats returns the lookup counters of the credential cache.
func (a *Authenticator) CacheStats() *cache.Stats {
	return a.verified.Stats()
}

// NewSession signs a session token for the user.
func (a *Authenticator) NewSession(user *User) (string, error) {
	return a.tokenManager.Generate(user.Name, user.Roles...)
}

// Authenticate returns the user of the request, or nil for an anonymous
// request. Invalid credentials are reported as errors.
func (a *Authenticator) Authenticate(r *http.Request) (*User, error) {
	if name, password, ok := r.BasicAuth(); ok {
		return a.CheckPassword(name, password)
	}

	if authorization := r.Header.Get(types.AuthorizationKey); authorization != "" {
		token, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok {
			return nil, fmt.Errorf("authorization scheme: %w", ErrBadCredentials)
		}
		return a.verify(token)
	}

	if cookie, err := r.Cookie(types.SessionCookieName); err == nil && cookie.Value != "" {
		return a.verify(cookie.Value)
	}

	return nil, nil
}

func (a *Authenticator) verify(token string) (*User, error) {
	claims, err := a.tokenManager.Verify(token)
	if err != nil {
		return nil, err
	}

	return &User{Name: claims.Username(), Roles: claims.Roles}, nil
}
