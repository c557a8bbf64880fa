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

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/internal/version"
	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/pkg/errors"
	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/rpc/auth"
	"github.com/couchkit/couchkit/server/rpc/httphelper"
)

const (
	// maxUUIDs is the largest number of ids a single _uuids request returns.
	maxUUIDs = 1000

	idField       = "_id"
	revisionField = "_rev"
)

var (
	// ErrInvalidCount is returned when the number of requested ids is out of
	// range.
	ErrInvalidCount = errors.InvalidArgument("invalid count").WithCode("ErrInvalidCount")

	// ErrRouteNotFound is returned for requests no route matches.
	ErrRouteNotFound = errors.NotFound("route not found").WithCode("ErrRouteNotFound")
)

// couchServer serves the HTTP API of the store.
type couchServer struct {
	backend         *backend.Backend
	authenticator   *auth.Authenticator
	maxRequestBytes int64
}

func (s *couchServer) welcome(w http.ResponseWriter, _ *http.Request) error {
	httphelper.WriteJSON(w, http.StatusOK, types.ServerInfo{
		CouchDB: "Welcome",
		Version: version.Version,
		Vendor:  map[string]string{"name": "couchkit"},
	})
	return nil
}

func (s *couchServer) checkHealth(ctx context.Context) error {
	_, err := s.backend.DB.ListDatabases(ctx)
	return err
}

func (s *couchServer) notFound(_ http.ResponseWriter, r *http.Request) error {
	return fmt.Errorf("%s %s: %w", r.Method, r.URL.EscapedPath(), ErrRouteNotFound)
}

func (s *couchServer) methodNotAllowed(w http.ResponseWriter, r *http.Request) error {
	httphelper.WriteJSON(w, http.StatusMethodNotAllowed, types.ErrorResponse{
		Error:  "method_not_allowed",
		Reason: fmt.Sprintf("Only %s allowed", r.Method),
	})
	return nil
}

func (s *couchServer) allDatabases(w http.ResponseWriter, r *http.Request) error {
	names, err := s.backend.DB.ListDatabases(r.Context())
	if err != nil {
		return err
	}

	httphelper.WriteJSON(w, http.StatusOK, names)
	return nil
}

func (s *couchServer) uuids(w http.ResponseWriter, r *http.Request) error {
	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxUUIDs {
			return fmt.Errorf("uuids %q: %w", raw, ErrInvalidCount)
		}
		count = parsed
	}

	resp := types.UUIDsResponse{UUIDs: make([]string, 0, count)}
	for i := 0; i < count; i++ {
		resp.UUIDs = append(resp.UUIDs, xid.New().String())
	}

	httphelper.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// sessionRequest is the body of a login.
type sessionRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *couchServer) createSession(w http.ResponseWriter, r *http.Request) error {
	req := sessionRequest{}
	if strings.HasPrefix(r.Header.Get(types.ContentTypeKey), types.JSONContentType) {
		body, err := s.readBody(w, r)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return fmt.Errorf("decode session: %v: %w", err, httphelper.ErrInvalidBody)
		}
	} else {
		if s.maxRequestBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
		}
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("parse session form: %v: %w", err, httphelper.ErrInvalidBody)
		}
		req.Name = r.PostForm.Get("name")
		req.Password = r.PostForm.Get("password")
	}

	user, err := s.authenticator.CheckPassword(req.Name, req.Password)
	if err != nil {
		return err
	}
	session, err := s.authenticator.NewSession(user)
	if err != nil {
		return err
	}

	duration, err := s.backend.Config.ParseSessionTokenDuration()
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     types.SessionCookieName,
		Value:    session,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httphelper.WriteJSON(w, http.StatusOK, types.SessionResponse{OK: true, Name: user.Name, Roles: user.Roles})
	return nil
}

func (s *couchServer) getSession(w http.ResponseWriter, r *http.Request) error {
	resp := types.SessionResponse{OK: true, Roles: []string{}}
	if user := auth.From(r.Context()); user != nil {
		resp.Name = user.Name
		resp.Roles = user.Roles
	}

	httphelper.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (s *couchServer) deleteSession(w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     types.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	httphelper.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	return nil
}

// readBody reads the whole body of the request up to the configured limit.
func (s *couchServer) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if s.maxRequestBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %v: %w", err, httphelper.ErrInvalidBody)
	}
	return body, nil
}

// readDocument reads a JSON object body and splits the id and the revision
// off it.
func (s *couchServer) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, string, string, error) {
	body, err := s.readBody(w, r)
	if err != nil {
		return nil, "", "", err
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, "", "", fmt.Errorf("read document: %w", httphelper.ErrInvalidBody)
	}

	results := gjson.GetManyBytes(body, idField, revisionField)
	id, rev := results[0].String(), results[1].String()

	for _, field := range []string{idField, revisionField} {
		if body, err = sjson.DeleteBytes(body, field); err != nil {
			return nil, "", "", fmt.Errorf("strip %s: %w", field, err)
		}
	}
	return body, id, rev, nil
}

// databaseName returns the validated name of the database of the request.
func databaseName(r *http.Request) (string, error) {
	name, err := url.PathUnescape(mux.Vars(r)["db"])
	if err != nil {
		return "", fmt.Errorf("unescape %q: %w", mux.Vars(r)["db"], key.ErrInvalidCollectionName)
	}
	return key.NormalizeCollection(name)
}

// documentID returns the validated id of the document of the request.
func documentID(r *http.Request) (string, error) {
	id, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		return "", fmt.Errorf("unescape %q: %w", mux.Vars(r)["id"], key.ErrInvalidDocumentID)
	}

	template, _ := mux.CurrentRoute(r).GetPathTemplate()
	for _, prefix := range []string{"_design/", "_local/"} {
		if strings.Contains(template, "/"+prefix) {
			id = prefix + id
			break
		}
	}

	if err := key.ValidateDocumentID(id); err != nil {
		return "", err
	}
	return id, nil
}

// revisionOf returns the revision a write presents, from the query, the
// If-Match header or the body in this order.
func revisionOf(r *http.Request, bodyRev string) string {
	if rev := r.URL.Query().Get("rev"); rev != "" {
		return rev
	}
	if rev := strings.Trim(r.Header.Get("If-Match"), `"`); rev != "" {
		return rev
	}
	return bodyRev
}
