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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/couchkit/couchkit/internal/version"
)

const (
	namespace       = "couchkit"
	sdkTypeLabel    = "sdk_type"
	sdkVersionLabel = "sdk_version"
	methodLabel     = "http_method"
	routeLabel      = "http_route"
	codeLabel       = "http_code"
	databaseLabel   = "database"
	writeKindLabel  = "write_kind"
	hostnameLabel   = "hostname"
)

// Kinds of document writes.
const (
	WriteCreated  = "created"
	WriteUpdated  = "updated"
	WriteDeleted  = "deleted"
	WriteConflict = "conflict"
	WriteSeeded   = "seeded"
)

// Metrics manages the metric information that the store server measures.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion        *prometheus.GaugeVec
	serverHandledCounter *prometheus.CounterVec
	responseSeconds      *prometheus.HistogramVec

	documentWritesTotal *prometheus.CounterVec
	databasesTotal      prometheus.Gauge

	userAgentTotal *prometheus.CounterVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		serverHandledCounter: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "server_handled_total",
			Help:      "Total number of requests completed on the server, regardless of success or failure.",
		}, []string{methodLabel, routeLabel, codeLabel}),
		responseSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_seconds",
			Help:      "The response time of requests.",
		}, []string{methodLabel, routeLabel}),
		documentWritesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "writes_total",
			Help:      "The total count of document writes by kind, including rejected conflicts.",
		}, []string{databaseLabel, writeKindLabel}),
		databasesTotal: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "databases",
			Name:      "total",
			Help:      "The number of databases.",
		}),
		userAgentTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "user_agent",
			Name:      "total",
			Help:      "Description",
		}, []string{
			sdkTypeLabel,
			sdkVersionLabel,
			methodLabel,
			hostnameLabel,
		}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// AddServerHandledCounter adds the number of requests completed on the server.
func (m *Metrics) AddServerHandledCounter(method, route, code string) {
	m.serverHandledCounter.With(prometheus.Labels{
		methodLabel: method,
		routeLabel:  route,
		codeLabel:   code,
	}).Inc()
}

// ObserveResponseSeconds adds an observation for the response time of a
// request.
func (m *Metrics) ObserveResponseSeconds(method, route string, seconds float64) {
	m.responseSeconds.With(prometheus.Labels{
		methodLabel: method,
		routeLabel:  route,
	}).Observe(seconds)
}

// AddDocumentWrite adds a document write of the given kind.
func (m *Metrics) AddDocumentWrite(database, kind string) {
	m.documentWritesTotal.With(prometheus.Labels{
		databaseLabel:  database,
		writeKindLabel: kind,
	}).Inc()
}

// SetDatabases sets the number of databases.
func (m *Metrics) SetDatabases(count int) {
	m.databasesTotal.Set(float64(count))
}

// AddUserAgent adds the number of user agent.
func (m *Metrics) AddUserAgent(hostname, sdkType, sdkVersion, method string) {
	m.userAgentTotal.With(prometheus.Labels{
		sdkTypeLabel:    sdkType,
		sdkVersionLabel: sdkVersion,
		methodLabel:     method,
		hostnameLabel:   hostname,
	}).Inc()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
