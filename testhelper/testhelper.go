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

// Package testhelper provides helpers to run an in-process store in tests.
package testhelper

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchkit/couchkit/client"
	"github.com/couchkit/couchkit/server"
	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/profiling/prometheus"
	"github.com/couchkit/couchkit/server/rpc"
)

// Credentials of the admin of test servers.
const (
	AdminUser     = server.DefaultAdminUser
	AdminPassword = server.DefaultAdminPassword
	SecretKey     = server.DefaultSecretKey
)

// Server is a store served by httptest.
type Server struct {
	*httptest.Server

	Backend *backend.Backend
	Metrics *prometheus.Metrics
}

// TestConfig returns the configuration of test servers.
func TestConfig() *server.Config {
	conf := server.NewConfig()
	conf.Profiling = nil
	conf.Backend.Hostname = "test"
	return conf
}

// NewServer starts a store for the test. The options adjust the test
// configuration before the server is created. The server is closed when the
// test finishes.
func NewServer(t testing.TB, opts ...func(*server.Config)) *Server {
	conf := TestConfig()
	for _, opt := range opts {
		opt(conf)
	}
	require.NoError(t, conf.Validate())

	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	be, err := backend.New(conf.Backend, metrics)
	require.NoError(t, err)

	rpcServer, err := rpc.NewServer(conf.RPC, be)
	require.NoError(t, err)

	srv := &Server{
		Server:  httptest.NewServer(rpcServer.Handler()),
		Backend: be,
		Metrics: metrics,
	}
	t.Cleanup(func() {
		srv.Close()
		assert.NoError(t, be.Shutdown())
	})
	return srv
}

// RequireAuth makes the server reject anonymous requests.
func RequireAuth(conf *server.Config) {
	conf.Backend.RequireAuth = true
}

// NewClient creates a client of the server, authenticated as the admin with
// basic auth unless other options are given.
func NewClient(t testing.TB, srv *Server, opts ...client.Option) *client.Client {
	if len(opts) == 0 {
		opts = []client.Option{client.WithBasicAuth(AdminUser, AdminPassword)}
	}
	cli, err := client.New(srv.URL, opts...)
	require.NoError(t, err)
	return cli
}

// TestDBName returns a database name derived from the name of the test.
func TestDBName(t testing.TB) string {
	name := t.Name()
	if len(name) > 100 {
		name = name[:100]
	}

	sb := strings.Builder{}
	sb.WriteString("test_")
	for _, c := range name {
		if c >= 'A' && c <= 'Z' {
			sb.WriteRune(c + ('a' - 'A'))
		} else if c >= 'a' && c <= 'z' {
			sb.WriteRune(c)
		} else if c >= '0' && c <= '9' {
			sb.WriteRune(c)
		} else {
			sb.WriteRune('_')
		}
	}

	return sb.String()
}

// CreateDatabase creates the named database through the client.
func CreateDatabase(t testing.TB, cli *client.Client, name string) *client.Database {
	db, err := cli.Database(name)
	require.NoError(t, err, fmt.Sprintf("database %s", name))
	require.NoError(t, db.Create(context.Background()))
	return db
}
