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

package rpc_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/testhelper"
)

type response struct {
	status int
	header http.Header
	body   map[string]interface{}
	raw    []byte
}

func request(
	t *testing.T,
	srv *testhelper.Server,
	method, path, body string,
	opts ...func(*http.Request),
) response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set(types.ContentTypeKey, types.JSONContentType)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	result := response{status: resp.StatusCode, header: resp.Header, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &result.body))
	}
	return result
}

func asAdmin(req *http.Request) {
	req.SetBasicAuth(testhelper.AdminUser, testhelper.AdminPassword)
}

func TestServerRoutes(t *testing.T) {
	srv := testhelper.NewServer(t)

	t.Run("welcome test", func(t *testing.T) {
		resp := request(t, srv, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "Welcome", resp.body["couchdb"])

		resp = request(t, srv, http.MethodGet, "/_up", "")
		assert.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "ok", resp.body["status"])
	})

	t.Run("uuids test", func(t *testing.T) {
		resp := request(t, srv, http.MethodGet, "/_uuids?count=3", "")
		assert.Equal(t, http.StatusOK, resp.status)
		uuids := &types.UUIDsResponse{}
		require.NoError(t, json.Unmarshal(resp.raw, uuids))
		assert.Len(t, uuids.UUIDs, 3)
		assert.NotEqual(t, uuids.UUIDs[0], uuids.UUIDs[1])

		resp = request(t, srv, http.MethodGet, "/_uuids?count=0", "")
		assert.Equal(t, http.StatusBadRequest, resp.status)
	})

	t.Run("unknown route test", func(t *testing.T) {
		resp := request(t, srv, http.MethodGet, "/a/b/c/d", "")
		assert.Equal(t, http.StatusNotFound, resp.status)
	})

	t.Run("database lifecycle test", func(t *testing.T) {
		resp := request(t, srv, http.MethodPut, "/orders", "")
		assert.Equal(t, http.StatusCreated, resp.status)
		assert.Equal(t, "/orders", resp.header.Get("Location"))

		resp = request(t, srv, http.MethodPut, "/orders", "")
		assert.Equal(t, http.StatusPreconditionFailed, resp.status)
		assert.Equal(t, types.ErrorFileExists, resp.body["error"])

		resp = request(t, srv, http.MethodHead, "/orders", "")
		assert.Equal(t, http.StatusOK, resp.status)

		resp = request(t, srv, http.MethodGet, "/orders", "")
		assert.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "orders", resp.body["db_name"])

		resp = request(t, srv, http.MethodGet, "/_all_dbs", "")
		assert.Equal(t, http.StatusOK, resp.status)
		assert.Contains(t, string(resp.raw), `"orders"`)

		resp = request(t, srv, http.MethodDelete, "/orders", "")
		assert.Equal(t, http.StatusOK, resp.status)

		resp = request(t, srv, http.MethodHead, "/orders", "")
		assert.Equal(t, http.StatusNotFound, resp.status)

		resp = request(t, srv, http.MethodGet, "/orders", "")
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, types.ReasonDatabaseMissing, resp.body["reason"])

		resp = request(t, srv, http.MethodPut, "/Orders", "")
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.Equal(t, types.ErrorIllegalDBName, resp.body["error"])
	})

	t.Run("document revision test", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, request(t, srv, http.MethodPut, "/users", "").status)

		resp := request(t, srv, http.MethodPut, "/users/alice", `{"name":"alice"}`)
		require.Equal(t, http.StatusCreated, resp.status)
		rev1 := resp.body["rev"].(string)
		assert.True(t, strings.HasPrefix(rev1, "1-"))
		assert.Equal(t, `"`+rev1+`"`, resp.header.Get("ETag"))

		resp = request(t, srv, http.MethodGet, "/users/alice", "")
		assert.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "alice", resp.body["_id"])
		assert.Equal(t, rev1, resp.body["_rev"])
		assert.Equal(t, "alice", resp.body["name"])

		// A write without the current revision conflicts.
		resp = request(t, srv, http.MethodPut, "/users/alice", `{"name":"eve"}`)
		assert.Equal(t, http.StatusConflict, resp.status)
		assert.Equal(t, types.ErrorConflict, resp.body["error"])

		resp = request(t, srv, http.MethodPut, "/users/alice", `{"_rev":"`+rev1+`","name":"alicia"}`)
		require.Equal(t, http.StatusCreated, resp.status)
		rev2 := resp.body["rev"].(string)
		assert.True(t, strings.HasPrefix(rev2, "2-"))

		// The first revision is stale now.
		resp = request(t, srv, http.MethodPut, "/users/alice?rev="+rev1, `{"name":"eve"}`)
		assert.Equal(t, http.StatusConflict, resp.status)

		resp = request(t, srv, http.MethodPut, "/users/alice", `{"_id":"bob"}`)
		assert.Equal(t, http.StatusBadRequest, resp.status)

		resp = request(t, srv, http.MethodPut, "/users/carol", `[1,2]`)
		assert.Equal(t, http.StatusBadRequest, resp.status)

		resp = request(t, srv, http.MethodDelete, "/users/alice", "", func(req *http.Request) {
			req.Header.Set("If-Match", `"`+rev2+`"`)
		})
		require.Equal(t, http.StatusOK, resp.status)

		resp = request(t, srv, http.MethodGet, "/users/alice", "")
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, types.ReasonDeleted, resp.body["reason"])

		resp = request(t, srv, http.MethodGet, "/users/nobody", "")
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, types.ReasonMissing, resp.body["reason"])

		resp = request(t, srv, http.MethodPut, "/users/alice", `{"name":"alice"}`)
		require.Equal(t, http.StatusCreated, resp.status)
		assert.True(t, strings.HasPrefix(resp.body["rev"].(string), "4-"))
	})

	t.Run("post and list documents test", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, request(t, srv, http.MethodPut, "/posts", "").status)

		resp := request(t, srv, http.MethodPost, "/posts", `{"title":"hello"}`)
		require.Equal(t, http.StatusCreated, resp.status)
		generated := resp.body["id"].(string)
		assert.NotEmpty(t, generated)

		resp = request(t, srv, http.MethodPut, "/posts/_design/app", `{"views":{}}`)
		require.Equal(t, http.StatusCreated, resp.status)
		assert.Equal(t, "_design/app", resp.body["id"])

		resp = request(t, srv, http.MethodPut, "/posts/"+url.PathEscape("a/b"), `{}`)
		require.Equal(t, http.StatusCreated, resp.status)
		assert.Equal(t, "a/b", resp.body["id"])

		resp = request(t, srv, http.MethodPut, "/posts/_users", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.status)

		resp = request(t, srv, http.MethodGet, "/posts/_all_docs", "")
		require.Equal(t, http.StatusOK, resp.status)
		all := &types.AllDocsResponse{}
		require.NoError(t, json.Unmarshal(resp.raw, all))
		assert.Equal(t, 3, all.TotalRows)

		var ids []string
		for _, row := range all.Rows {
			ids = append(ids, row.ID)
		}
		assert.ElementsMatch(t, []string{generated, "_design/app", "a/b"}, ids)

		resp = request(t, srv, http.MethodHead, "/posts/_design/app", "")
		assert.Equal(t, http.StatusOK, resp.status)
		assert.NotEmpty(t, resp.header.Get("ETag"))
	})

	t.Run("batch write test", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, request(t, srv, http.MethodPut, "/queue", "").status)

		resp := request(t, srv, http.MethodPost, "/queue?batch=ok", `{"_id":"job","n":1}`)
		require.Equal(t, http.StatusAccepted, resp.status)
		assert.Equal(t, "job", resp.body["id"])
		assert.NotContains(t, resp.body, "rev")

		resp = request(t, srv, http.MethodPut, "/queue/other?batch=ok", `{"n":2}`)
		require.Equal(t, http.StatusAccepted, resp.status)

		resp = request(t, srv, http.MethodGet, "/queue/job", "")
		require.Equal(t, http.StatusOK, resp.status)
		assert.NotEmpty(t, resp.body["_rev"])
	})

	t.Run("server status routes test", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, request(t, srv, http.MethodPut, "/status", "").status)
		require.Equal(t, http.StatusCreated, request(t, srv, http.MethodPut, "/status/a", `{}`).status)

		resp := request(t, srv, http.MethodGet, "/_active_tasks", "")
		require.Equal(t, http.StatusOK, resp.status)
		assert.JSONEq(t, `[]`, string(resp.raw))

		resp = request(t, srv, http.MethodGet, "/_db_updates", "")
		require.Equal(t, http.StatusOK, resp.status)
		updates := &types.DBUpdatesResponse{}
		require.NoError(t, json.Unmarshal(resp.raw, updates))
		assert.Contains(t, updates.Results, types.DBUpdate{DBName: "status", Type: types.DBUpdated, Seq: "1"})

		resp = request(t, srv, http.MethodGet, "/_stats", "")
		require.Equal(t, http.StatusOK, resp.status)
		stats := &types.Stats{}
		require.NoError(t, json.Unmarshal(resp.raw, stats))
		databases, ok := stats.Value("couchkit", "databases")
		require.True(t, ok)
		assert.Equal(t, float64(len(updates.Results)), databases)
	})
}

func TestServerAuth(t *testing.T) {
	srv := testhelper.NewServer(t, testhelper.RequireAuth)

	t.Run("anonymous request test", func(t *testing.T) {
		resp := request(t, srv, http.MethodGet, "/_all_dbs", "")
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Equal(t, types.ErrorUnauthorized, resp.body["error"])

		resp = request(t, srv, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, resp.status)
	})

	t.Run("basic auth test", func(t *testing.T) {
		resp := request(t, srv, http.MethodGet, "/_all_dbs", "", asAdmin)
		assert.Equal(t, http.StatusOK, resp.status)

		resp = request(t, srv, http.MethodGet, "/_all_dbs", "", func(req *http.Request) {
			req.SetBasicAuth(testhelper.AdminUser, "wrong")
		})
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Equal(t, types.ReasonNameOrPassword, resp.body["reason"])
	})

	t.Run("session test", func(t *testing.T) {
		form := url.Values{"name": {testhelper.AdminUser}, "password": {testhelper.AdminPassword}}
		resp := request(t, srv, http.MethodPost, "/_session", "", func(req *http.Request) {
			req.Body = io.NopCloser(strings.NewReader(form.Encode()))
			req.ContentLength = int64(len(form.Encode()))
			req.Header.Set(types.ContentTypeKey, "application/x-www-form-urlencoded")
		})
		require.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, testhelper.AdminUser, resp.body["name"])

		var session *http.Cookie
		for _, cookie := range (&http.Response{Header: resp.header}).Cookies() {
			if cookie.Name == types.SessionCookieName {
				session = cookie
			}
		}
		require.NotNil(t, session)

		withSession := func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
		}
		resp = request(t, srv, http.MethodGet, "/_session", "", withSession)
		assert.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, testhelper.AdminUser, resp.body["name"])

		resp = request(t, srv, http.MethodGet, "/_all_dbs", "", withSession)
		assert.Equal(t, http.StatusOK, resp.status)

		// A stale cookie does not block a new login.
		resp = request(t, srv, http.MethodPost, "/_session",
			`{"name":"admin","password":"admin"}`,
			func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: types.SessionCookieName, Value: "stale"})
			},
		)
		assert.Equal(t, http.StatusOK, resp.status)
	})

	t.Run("bearer token test", func(t *testing.T) {
		token, err := srv.Backend.TokenManager.Generate("reader")
		require.NoError(t, err)

		resp := request(t, srv, http.MethodGet, "/_all_dbs", "", func(req *http.Request) {
			req.Header.Set(types.AuthorizationKey, "Bearer "+token)
		})
		assert.Equal(t, http.StatusOK, resp.status)

		resp = request(t, srv, http.MethodGet, "/_all_dbs", "", func(req *http.Request) {
			req.Header.Set(types.AuthorizationKey, "Bearer invalid")
		})
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})
}
