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

// Package client provides the access layer of a revisioned document store.
// It maps application objects to documents, runs the retrieve, mutate and
// write cycle of updates and reports what changed.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/internal/log"
	"github.com/couchkit/couchkit/pkg/auth"
	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/pkg/errors"
	"github.com/couchkit/couchkit/pkg/scheme"
)

// DefaultAddr is the address of a store running on the local host.
const DefaultAddr = "http://127.0.0.1:5984"

var (
	// ErrConflict is returned when a write presents a stale revision. The
	// whole update may be retried.
	ErrConflict = errors.Aborted("document update conflict").WithCode("ErrConflict")

	// ErrDocumentNotFound is returned when a document does not exist or was
	// deleted.
	ErrDocumentNotFound = errors.NotFound("document not found").WithCode("ErrDocumentNotFound")

	// ErrDatabaseNotFound is returned when a database does not exist.
	ErrDatabaseNotFound = errors.NotFound("database not found").WithCode("ErrDatabaseNotFound")

	// ErrDatabaseExists is returned when creating a database that exists.
	ErrDatabaseExists = errors.AlreadyExists("database already exists").WithCode("ErrDatabaseExists")

	// ErrIncompatibleCollection is returned when an object is written into a
	// collection its type does not belong to.
	ErrIncompatibleCollection = errors.InvalidArgument(
		"incompatible collection",
	).WithCode("ErrIncompatibleCollection")

	// ErrIDMismatch is returned when an object's id differs from the id of the
	// reference it is written through.
	ErrIDMismatch = errors.InvalidArgument("document id mismatch").WithCode("ErrIDMismatch")

	// ErrNoDocumentID is returned when an operation needs a document id the
	// reference does not have.
	ErrNoDocumentID = errors.FailedPrecond("no document id").WithCode("ErrNoDocumentID")

	// ErrBadRequest is returned when the store rejects a request as malformed.
	ErrBadRequest = errors.InvalidArgument("bad request").WithCode("ErrBadRequest")

	// ErrUnauthorized is returned when the store rejects the credentials.
	ErrUnauthorized = errors.Unauthenticated("unauthorized").WithCode("ErrUnauthorized")

	// ErrForbidden is returned when the user may not access a resource.
	ErrForbidden = errors.PermissionDenied("forbidden").WithCode("ErrForbidden")

	// ErrTransport is returned when the store cannot be reached.
	ErrTransport = errors.Unavailable("store unavailable").WithCode("ErrTransport")

	// ErrUnexpectedResponse is returned for responses the client cannot
	// interpret.
	ErrUnexpectedResponse = errors.Internal("unexpected response").WithCode("ErrUnexpectedResponse")
)

// Client is a client of a revisioned document store.
type Client struct {
	transport Transport
	extractor *scheme.Extractor
	logger    *zap.Logger
	options   Options
}

// New creates a client of the store at the given address, e.g.
// "http://127.0.0.1:5984". The address is ignored when a transport is given.
func New(addr string, opts ...Option) (*Client, error) {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	logger := options.Logger
	if logger == nil {
		logger = log.New("client")
	}

	transport := options.Transport
	if transport == nil {
		if addr == "" {
			addr = DefaultAddr
		}
		if _, err := url.ParseRequestURI(addr); err != nil {
			return nil, fmt.Errorf("parse address %q: %w", addr, err)
		}

		httpClient, err := newHTTPClient(options)
		if err != nil {
			return nil, err
		}
		authenticator, err := newAuthenticator(options, httpClient, addr)
		if err != nil {
			return nil, err
		}
		transport = NewHTTPTransport(addr, httpClient, authenticator, logger)
	}

	return &Client{
		transport: transport,
		extractor: scheme.NewExtractor(options.FieldProvider, options.TypeIdentity),
		logger:    logger,
		options:   options,
	}, nil
}

func newAuthenticator(options Options, httpClient *http.Client, addr string) (Authenticator, error) {
	switch options.AuthMode {
	case AuthNone:
		return nil, nil
	case AuthBasic:
		return BasicAuth{Username: options.Username, Password: options.Password}, nil
	case AuthSession:
		return NewSessionAuth(httpClient, addr, options.Username, options.Password), nil
	case AuthToken:
		return BearerAuth{Token: options.Token}, nil
	case AuthJWT:
		duration := options.TokenDuration
		if duration == 0 {
			duration = DefaultTokenDuration
		}
		manager := auth.NewTokenManager(options.JWTSecret, duration)
		return NewJWTAuth(manager, options.Username, options.Roles...), nil
	}
	return nil, fmt.Errorf("auth mode %q: %w", options.AuthMode, errors.InvalidArgument("unknown auth mode"))
}

// Logger returns the logger of the client.
func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// Extractor returns the scheme extractor of the client.
func (c *Client) Extractor() *scheme.Extractor {
	return c.extractor
}

// Database returns a handle of the named database. The name is validated
// but the database is not contacted.
func (c *Client) Database(name string) (*Database, error) {
	normalized, err := key.NormalizeCollection(name)
	if err != nil {
		return nil, err
	}
	return &Database{client: c, name: normalized}, nil
}

// Ping returns the welcome message of the store.
func (c *Client) Ping(ctx context.Context) (*types.ServerInfo, error) {
	info := &types.ServerInfo{}
	if err := c.getJSON(ctx, "/", nil, info); err != nil {
		return nil, err
	}
	return info, nil
}

// AllDatabases lists the names of all databases.
func (c *Client) AllDatabases(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/_all_dbs", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// UUIDs asks the store for count unique ids.
func (c *Client) UUIDs(ctx context.Context, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("uuids %d: %w", count, ErrBadRequest)
	}

	resp := &types.UUIDsResponse{}
	query := url.Values{"count": {strconv.Itoa(count)}}
	if err := c.getJSON(ctx, "/_uuids", query, resp); err != nil {
		return nil, err
	}
	return resp.UUIDs, nil
}

// ActiveTasks lists the tasks running in the store.
func (c *Client) ActiveTasks(ctx context.Context) ([]types.ActiveTask, error) {
	var tasks []types.ActiveTask
	if err := c.getJSON(ctx, "/_active_tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// DBUpdates lists the databases of the store with their latest change.
func (c *Client) DBUpdates(ctx context.Context) (*types.DBUpdatesResponse, error) {
	resp := &types.DBUpdatesResponse{}
	if err := c.getJSON(ctx, "/_db_updates", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Stats returns the statistics of the store.
func (c *Client) Stats(ctx context.Context) (*types.Stats, error) {
	stats := &types.Stats{}
	if err := c.getJSON(ctx, "/_stats", nil, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// do sends the request and turns transport failures and error responses into
// errors.
func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		if errors.StatusOf(err) == 0 {
			err = fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, ErrTransport, err)
		}
		c.logger.Debug("request failed", zap.String("path", req.Path), zap.Error(err))
		return nil, err
	}

	c.logger.Debug(
		"response",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errorFromResponse(req.Method, req.Path, resp)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("GET %s: %v: %w", path, err, ErrUnexpectedResponse)
	}
	return nil
}

// errorFromResponse maps an error response of the store to one of the errors
// of this package. The error and reason reported by the store are kept as
// metadata.
func errorFromResponse(method, path string, resp *Response) error {
	body := types.ErrorResponse{}
	_ = json.Unmarshal(resp.Body, &body)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrDocumentNotFound
		if body.Reason == types.ReasonDatabaseMissing || body.Reason == "no_db_file" {
			sentinel = ErrDatabaseNotFound
		}
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusPreconditionFailed:
		sentinel = ErrDatabaseExists
	default:
		sentinel = ErrUnexpectedResponse
	}

	err := fmt.Errorf("%s %s: %d %s: %w", method, path, resp.StatusCode, body.Reason, sentinel)
	return errors.WithMetadata(err, map[string]string{
		"status": strconv.Itoa(resp.StatusCode),
		"error":  body.Error,
		"reason": body.Reason,
	})
}

// responseMetaOf reads the id and the revision of a write response. The
// unprefixed names the store emits there win over the prefixed names.
func responseMetaOf(body []byte) (string, string) {
	return metaOf(body, "id", "_id", "rev", "_rev")
}

// documentMetaOf reads the id and the revision of a document. Members named
// "id" or "rev" are user data and only stand in when "_id" or "_rev" is
// absent.
func documentMetaOf(body []byte) (string, string) {
	return metaOf(body, "_id", "id", "_rev", "rev")
}

func metaOf(body []byte, idKey, idFallback, revKey, revFallback string) (string, string) {
	results := gjson.GetManyBytes(body, idKey, idFallback, revKey, revFallback)

	id := results[0].String()
	if !results[0].Exists() {
		id = results[1].String()
	}
	rev := results[2].String()
	if !results[2].Exists() {
		rev = results[3].String()
	}
	return id, rev
}

// withMeta writes the id and, when set, the revision into a raw body.
func withMeta(body []byte, id, rev string) ([]byte, error) {
	var err error
	if id != "" {
		if body, err = sjson.SetBytes(body, "_id", id); err != nil {
			return nil, fmt.Errorf("set id: %w", err)
		}
	}
	if rev != "" {
		if body, err = sjson.SetBytes(body, "_rev", rev); err != nil {
			return nil, fmt.Errorf("set revision: %w", err)
		}
	}
	return body, nil
}
