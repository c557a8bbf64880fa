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

// Package rpc provides the HTTP API of the store server.
package rpc

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/logging"
	"github.com/couchkit/couchkit/server/rpc/auth"
	"github.com/couchkit/couchkit/server/rpc/httphealth"
	"github.com/couchkit/couchkit/server/rpc/interceptors"
)

// Names of the routes served to anonymous users.
const (
	routeWelcome       = "welcome"
	routeUp            = "up"
	routeSessionCreate = "session.create"
	routeSessionGet    = "session.get"
	routeSessionDelete = "session.delete"
)

// Server is the HTTP server of the store.
type Server struct {
	conf       *Config
	router     *mux.Router
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer creates a new instance of Server.
func NewServer(conf *Config, be *backend.Backend) (*Server, error) {
	authenticator, err := auth.NewAuthenticator(
		be.Config.AdminUser,
		be.Config.AdminPassword,
		be.TokenManager,
	)
	if err != nil {
		return nil, err
	}

	router := newRouter(conf, be, authenticator)
	return &Server{
		conf:   conf,
		router: router,
		httpServer: &http.Server{
			Addr:              conf.Addr(),
			Handler:           router,
			ReadTimeout:       conf.ParseReadTimeout(),
			ReadHeaderTimeout: conf.ParseReadTimeout(),
		},
		logger: logging.New("rpc"),
	}, nil
}

func newRouter(conf *Config, be *backend.Backend, authenticator *auth.Authenticator) *mux.Router {
	couch := &couchServer{
		backend:         be,
		authenticator:   authenticator,
		maxRequestBytes: conf.MaxRequestBytes,
	}

	router := mux.NewRouter().UseEncodedPath()
	router.NotFoundHandler = handle(couch.notFound)
	router.MethodNotAllowedHandler = handle(couch.methodNotAllowed)

	// 01. Server-level routes. They are registered before the database routes
	// which would match them otherwise.
	router.Handle("/", handle(couch.welcome)).Methods(http.MethodGet, http.MethodHead).Name(routeWelcome)
	router.Handle(httphealth.Path, httphealth.NewHandler(couch.checkHealth)).
		Methods(http.MethodGet, http.MethodHead).Name(routeUp)
	router.Handle("/_all_dbs", handle(couch.allDatabases)).Methods(http.MethodGet)
	router.Handle("/_uuids", handle(couch.uuids)).Methods(http.MethodGet)
	router.Handle("/_active_tasks", handle(couch.activeTasks)).Methods(http.MethodGet)
	router.Handle("/_db_updates", handle(couch.dbUpdates)).Methods(http.MethodGet)
	router.Handle("/_stats", handle(couch.stats)).Methods(http.MethodGet)
	router.Handle("/_session", handle(couch.createSession)).Methods(http.MethodPost).Name(routeSessionCreate)
	router.Handle("/_session", handle(couch.getSession)).Methods(http.MethodGet).Name(routeSessionGet)
	router.Handle("/_session", handle(couch.deleteSession)).Methods(http.MethodDelete).Name(routeSessionDelete)

	// 02. Database routes.
	router.Handle("/{db}", handle(couch.createDatabase)).Methods(http.MethodPut)
	router.Handle("/{db}", handle(couch.getDatabase)).Methods(http.MethodGet, http.MethodHead)
	router.Handle("/{db}", handle(couch.deleteDatabase)).Methods(http.MethodDelete)
	router.Handle("/{db}", handle(couch.postDocument)).Methods(http.MethodPost)
	router.Handle("/{db}/_all_docs", handle(couch.allDocs)).Methods(http.MethodGet)

	// 03. Document routes. Design and local documents keep their prefix in
	// the id.
	for _, prefix := range []string{"_design", "_local", ""} {
		template := "/{db}/{id}"
		if prefix != "" {
			template = "/{db}/" + prefix + "/{id}"
		}
		router.Handle(template, handle(couch.getDocument)).Methods(http.MethodGet, http.MethodHead)
		router.Handle(template, handle(couch.putDocument)).Methods(http.MethodPut)
		router.Handle(template, handle(couch.deleteDocument)).Methods(http.MethodDelete)
	}

	router.Use(
		interceptors.NewLoggingInterceptor().Middleware,
		interceptors.NewMetricsInterceptor(be).Middleware,
		interceptors.NewAuthInterceptor(
			be,
			authenticator,
			routeWelcome,
			routeUp,
			routeSessionCreate,
			routeSessionGet,
			routeSessionDelete,
		).Middleware,
	)

	return router
}

// Handler returns the handler of the HTTP API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts this server by opening the rpc port.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.conf.Addr())
	if err != nil {
		s.logger.Error(err)
		return err
	}

	go func() {
		s.logger.Infof("serving RPC on %d", s.conf.Port)

		var err error
		if s.conf.CertFile != "" && s.conf.KeyFile != "" {
			err = s.httpServer.ServeTLS(lis, s.conf.CertFile, s.conf.KeyFile)
		} else {
			err = s.httpServer.Serve(lis)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(err)
		}
	}()

	return nil
}

// Shutdown shuts down this server.
func (s *Server) Shutdown(graceful bool) {
	if graceful {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Errorf("HTTP server Shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		s.logger.Errorf("HTTP server close: %v", err)
	}
}

// handlerFunc is a handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			interceptors.Fail(w, r, err)
		}
	})
}
