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

// Package server provides the Couchkit server which is the main entry point
// of the in-process store. The server is responsible for starting the RPC
// server, the profiling server and the seed importer.
package server

import (
	"context"
	"net/http"
	gosync "sync"

	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/profiling"
	"github.com/couchkit/couchkit/server/profiling/prometheus"
	"github.com/couchkit/couchkit/server/rpc"
	"github.com/couchkit/couchkit/server/seed"
)

// Couchkit is a revisioned document store served over HTTP.
type Couchkit struct {
	lock gosync.Mutex

	conf            *Config
	backend         *backend.Backend
	rpcServer       *rpc.Server
	profilingServer *profiling.Server
	importer        *seed.Importer

	cancel     context.CancelFunc
	shutdown   bool
	shutdownCh chan struct{}
}

// New creates a new instance of Couchkit.
func New(conf *Config) (*Couchkit, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	be, err := backend.New(conf.Backend, metrics)
	if err != nil {
		return nil, err
	}

	rpcServer, err := rpc.NewServer(conf.RPC, be)
	if err != nil {
		return nil, err
	}

	var profilingServer *profiling.Server
	if conf.Profiling != nil {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	var importer *seed.Importer
	if conf.Seed != nil {
		importer = seed.New(conf.Seed, be)
	}

	return &Couchkit{
		conf:            conf,
		backend:         be,
		rpcServer:       rpcServer,
		profilingServer: profilingServer,
		importer:        importer,
		shutdownCh:      make(chan struct{}),
	}, nil
}

// Start starts the server by importing the seed and opening the rpc port.
func (c *Couchkit) Start() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	if c.importer != nil {
		if err := c.importer.Start(ctx); err != nil {
			return err
		}
	}

	if c.profilingServer != nil {
		if err := c.profilingServer.Start(); err != nil {
			return err
		}
	}

	return c.rpcServer.Start()
}

// Shutdown shuts down this Couchkit server.
func (c *Couchkit) Shutdown(graceful bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.shutdown {
		return nil
	}

	c.rpcServer.Shutdown(graceful)
	if c.profilingServer != nil {
		c.profilingServer.Shutdown(graceful)
	}

	if c.cancel != nil {
		c.cancel()
	}
	if c.importer != nil {
		if err := c.importer.Close(); err != nil {
			return err
		}
	}

	if err := c.backend.Shutdown(); err != nil {
		return err
	}

	close(c.shutdownCh)
	c.shutdown = true
	return nil
}

// ShutdownCh returns the shutdown channel.
func (c *Couchkit) ShutdownCh() <-chan struct{} {
	return c.shutdownCh
}

// RPCAddr returns the address of the RPC.
func (c *Couchkit) RPCAddr() string {
	return c.conf.RPCAddr()
}

// Handler returns the HTTP API without listening on a port. It is used for
// testing.
func (c *Couchkit) Handler() http.Handler {
	return c.rpcServer.Handler()
}
