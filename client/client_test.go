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

package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/client"
	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/testhelper"
)

type User struct {
	ID   string `json:"_id"`
	Rev  string `json:"_rev,omitempty"`
	Type string `json:"type"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type Post struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

func (Post) CollectionName() string { return "blog_posts" }

func TestClient(t *testing.T) {
	ctx := context.Background()
	srv := testhelper.NewServer(t)
	cli := testhelper.NewClient(t, srv)

	t.Run("ping test", func(t *testing.T) {
		info, err := cli.Ping(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Welcome", info.CouchDB)
	})

	t.Run("uuids test", func(t *testing.T) {
		uuids, err := cli.UUIDs(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, uuids, 2)

		_, err = cli.UUIDs(ctx, 0)
		assert.ErrorIs(t, err, client.ErrBadRequest)
	})

	t.Run("invalid database name test", func(t *testing.T) {
		_, err := cli.Database("Users")
		assert.ErrorIs(t, err, key.ErrInvalidCollectionName)
	})

	t.Run("database lifecycle test", func(t *testing.T) {
		db, err := cli.Database(testhelper.TestDBName(t))
		require.NoError(t, err)

		exists, err := db.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = db.Info(ctx)
		assert.ErrorIs(t, err, client.ErrDatabaseNotFound)

		require.NoError(t, db.Create(ctx))
		assert.ErrorIs(t, db.Create(ctx), client.ErrDatabaseExists)
		assert.NoError(t, db.EnsureExists(ctx))

		exists, err = db.Exists(ctx)
		require.NoError(t, err)
		assert.True(t, exists)

		names, err := cli.AllDatabases(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, db.Name())

		_, err = db.Put(ctx, "alice", "", map[string]interface{}{"name": "alice"})
		require.NoError(t, err)

		info, err := db.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, db.Name(), info.Name)
		assert.Equal(t, 1, info.DocCount)

		rows, err := db.AllDocs(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "alice", rows[0].ID)
		assert.NotEmpty(t, rows[0].Revision)

		require.NoError(t, db.Drop(ctx))
		exists, err = db.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("server status test", func(t *testing.T) {
		tasks, err := cli.ActiveTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)

		before, err := cli.Stats(ctx)
		require.NoError(t, err)
		databases, ok := before.Value("couchkit", "databases")
		require.True(t, ok)
		writes, ok := before.Value("couchkit", "document_writes")
		require.True(t, ok)

		db := testhelper.CreateDatabase(t, cli, testhelper.TestDBName(t))
		meta, err := db.Put(ctx, "alice", "", map[string]interface{}{"name": "alice"})
		require.NoError(t, err)
		_, err = db.DeleteDocument(ctx, "alice", meta.Revision)
		require.NoError(t, err)

		after, err := cli.Stats(ctx)
		require.NoError(t, err)
		value, _ := after.Value("couchkit", "databases")
		assert.Equal(t, databases+1, value)
		value, _ = after.Value("couchkit", "document_writes")
		assert.Equal(t, writes+2, value)
		_, ok = after.Value("couchkit", "missing")
		assert.False(t, ok)

		updates, err := cli.DBUpdates(ctx)
		require.NoError(t, err)
		assert.Contains(t, updates.Results, types.DBUpdate{
			DBName: db.Name(),
			Type:   types.DBUpdated,
			Seq:    "2",
		})
		assert.NotEmpty(t, updates.LastSeq)
	})

	t.Run("batch create test", func(t *testing.T) {
		db := testhelper.CreateDatabase(t, cli, testhelper.TestDBName(t))

		meta, err := db.CreateDocument(ctx, map[string]interface{}{"_id": "queued", "n": 1}, client.WithBatch())
		require.NoError(t, err)
		assert.Equal(t, "queued", meta.ID)
		assert.Empty(t, meta.Revision)

		meta, err = db.CreateDocument(ctx, map[string]interface{}{"n": 2}, client.WithBatch())
		require.NoError(t, err)
		assert.NotEmpty(t, meta.ID)

		snapshot, err := db.Retrieve(ctx, "queued")
		require.NoError(t, err)
		assert.NotEmpty(t, snapshot.Revision)

		rows, err := db.AllDocs(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("unreachable store test", func(t *testing.T) {
		unreachable, err := client.New("http://127.0.0.1:1")
		require.NoError(t, err)
		_, err = unreachable.Ping(ctx)
		assert.ErrorIs(t, err, client.ErrTransport)
	})

	t.Run("invalid address test", func(t *testing.T) {
		_, err := client.New("not a url")
		assert.Error(t, err)
	})
}
