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

// Package backend provides the backend of the store server. It holds the
// database, the token manager for sessions and the metrics.
package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/couchkit/couchkit/pkg/auth"
	"github.com/couchkit/couchkit/pkg/errors"
	"github.com/couchkit/couchkit/server/backend/database"
	memdb "github.com/couchkit/couchkit/server/backend/database/memory"
	"github.com/couchkit/couchkit/server/logging"
	"github.com/couchkit/couchkit/server/profiling/prometheus"
)

// Backend manages the resources shared by the handlers of the server.
type Backend struct {
	Config *Config

	// DB is the database instance.
	DB database.Database
	// TokenManager signs and verifies session cookies and bearer tokens.
	TokenManager *auth.TokenManager
	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
}

// New creates a new instance of Backend.
func New(conf *Config, metrics *prometheus.Metrics) (*Backend, error) {
	// 01. Resolve the hostname used by metrics.
	if conf.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("os.Hostname: %w", err)
		}
		conf.Hostname = hostname
	}

	// 02. Create the token manager for sessions.
	duration, err := conf.ParseSessionTokenDuration()
	if err != nil {
		return nil, err
	}
	tokenManager := auth.NewTokenManager(conf.SecretKey, duration)

	// 03. Create the database instance.
	db, err := memdb.New()
	if err != nil {
		return nil, err
	}

	logging.DefaultLogger().Infof("backend created: db: memory, admin: %s", conf.AdminUser)

	return &Backend{
		Config:       conf,
		DB:           db,
		TokenManager: tokenManager,
		Metrics:      metrics,
	}, nil
}

// EnsureDatabase creates the database if it does not exist yet.
func (b *Backend) EnsureDatabase(ctx context.Context, name string) (*database.DBInfo, error) {
	info, err := b.DB.FindDatabase(ctx, name)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, database.ErrDatabaseNotFound) {
		return nil, err
	}

	info, err = b.DB.CreateDatabase(ctx, name)
	if err != nil {
		return nil, err
	}
	b.RefreshDatabaseCount(ctx)
	return info, nil
}

// RefreshDatabaseCount updates the database gauge of the metrics.
func (b *Backend) RefreshDatabaseCount(ctx context.Context) {
	if b.Metrics == nil {
		return
	}
	names, err := b.DB.ListDatabases(ctx)
	if err != nil {
		logging.From(ctx).Warnf("list databases: %v", err)
		return
	}
	b.Metrics.SetDatabases(len(names))
}

// Shutdown closes all resources of this instance.
func (b *Backend) Shutdown() error {
	if err := b.DB.Close(); err != nil {
		return err
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}
