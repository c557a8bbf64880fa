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
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/couchkit/couchkit/pkg/scheme"
)

// AuthMode is the way the client authenticates against the store.
type AuthMode string

// The supported authentication modes.
const (
	AuthNone    AuthMode = ""
	AuthBasic   AuthMode = "basic"
	AuthSession AuthMode = "session"
	AuthToken   AuthMode = "token"
	AuthJWT     AuthMode = "jwt"
)

// DefaultTokenDuration is the lifetime of tokens signed by the client.
const DefaultTokenDuration = 5 * time.Minute

// Option configures Options.
type Option func(*Options)

// Options configures how we set up the client.
type Options struct {
	// AuthMode selects how requests are authenticated.
	AuthMode AuthMode

	// Username and Password are the credentials of basic and session auth.
	Username string
	Password string

	// Token is a pre-issued bearer token.
	Token string

	// JWTSecret signs the bearer tokens of AuthJWT. The tokens carry Username
	// as the subject and Roles as the roles.
	JWTSecret     string
	Roles         []string
	TokenDuration time.Duration

	// CertFile is the path to a PEM encoded CA certificate used to verify
	// the store.
	CertFile string

	// Timeout bounds every request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient replaces the client of the HTTP transport.
	HTTPClient *http.Client

	// Transport replaces the HTTP transport entirely.
	Transport Transport

	// FieldProvider lists the fields of application objects.
	FieldProvider scheme.FieldProvider

	// TypeIdentity names application types and their collections.
	TypeIdentity scheme.TypeIdentity

	// Logger is the Logger of the client.
	Logger *zap.Logger
}

// WithBasicAuth authenticates every request with the given credentials.
func WithBasicAuth(username, password string) Option {
	return func(o *Options) {
		o.AuthMode = AuthBasic
		o.Username = username
		o.Password = password
	}
}

// WithSessionAuth logs in with the given credentials and authenticates
// requests with the session cookie of the store.
func WithSessionAuth(username, password string) Option {
	return func(o *Options) {
		o.AuthMode = AuthSession
		o.Username = username
		o.Password = password
	}
}

// WithToken authenticates every request with the given bearer token.
func WithToken(token string) Option {
	return func(o *Options) {
		o.AuthMode = AuthToken
		o.Token = token
	}
}

// WithJWT signs a bearer token for the given user with the shared secret of
// the store.
func WithJWT(secret, username string, roles ...string) Option {
	return func(o *Options) {
		o.AuthMode = AuthJWT
		o.JWTSecret = secret
		o.Username = username
		o.Roles = roles
	}
}

// WithTokenDuration configures the lifetime of tokens signed by WithJWT.
func WithTokenDuration(d time.Duration) Option {
	return func(o *Options) { o.TokenDuration = d }
}

// WithCertFile configures the CA certificate file used to verify the store.
func WithCertFile(certFile string) Option {
	return func(o *Options) { o.CertFile = certFile }
}

// WithTimeout configures the timeout of every request.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.Timeout = timeout }
}

// WithHTTPClient configures the HTTP client of the transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) { o.HTTPClient = client }
}

// WithTransport replaces the transport of the client.
func WithTransport(transport Transport) Option {
	return func(o *Options) { o.Transport = transport }
}

// WithFieldProvider configures how the fields of objects are listed.
func WithFieldProvider(provider scheme.FieldProvider) Option {
	return func(o *Options) { o.FieldProvider = provider }
}

// WithTypeIdentity configures how types and their collections are named.
func WithTypeIdentity(identity scheme.TypeIdentity) Option {
	return func(o *Options) { o.TypeIdentity = identity }
}

// WithLogger configures the Logger of the client.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
