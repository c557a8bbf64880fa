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

// Package memory implements the database interface on an in-memory database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/couchkit/couchkit/server/backend/database"
)

// DB is an in-memory database for the store server.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// CreateDatabase creates a database of the given name.
func (d *DB) CreateDatabase(_ context.Context, name string) (*database.DBInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tblDatabases, "id", name)
	if err != nil {
		return nil, fmt.Errorf("find database %s: %w", name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("create database %s: %w", name, database.ErrDatabaseExists)
	}

	info := database.NewDBInfo(name)
	if err := txn.Insert(tblDatabases, info); err != nil {
		return nil, fmt.Errorf("insert database %s: %w", name, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// FindDatabase returns the database of the given name.
func (d *DB) FindDatabase(_ context.Context, name string) (*database.DBInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	info, err := findDatabase(txn, name)
	if err != nil {
		return nil, err
	}
	return info.DeepCopy(), nil
}

// ListDatabases returns the names of all databases.
func (d *DB) ListDatabases(_ context.Context) ([]string, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblDatabases, "id")
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}

	names := []string{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		names = append(names, raw.(*database.DBInfo).Name)
	}
	return names, nil
}

// DeleteDatabase deletes the database and all of its documents.
func (d *DB) DeleteDatabase(_ context.Context, name string) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findDatabase(txn, name)
	if err != nil {
		return err
	}

	if _, err := txn.DeleteAll(tblDocuments, "db", name); err != nil {
		return fmt.Errorf("delete documents of %s: %w", name, err)
	}
	if err := txn.Delete(tblDatabases, info); err != nil {
		return fmt.Errorf("delete database %s: %w", name, err)
	}
	txn.Commit()

	return nil
}

// FindDocInfo returns the current revision of the document.
func (d *DB) FindDocInfo(_ context.Context, db, id string) (*database.DocInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	if _, err := findDatabase(txn, db); err != nil {
		return nil, err
	}

	info, err := findDocInfo(txn, db, id)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("find document %s/%s: %w", db, id, database.ErrDocumentNotFound)
	}
	if info.Deleted {
		return nil, fmt.Errorf("find document %s/%s: %w", db, id, database.ErrDocumentDeleted)
	}

	return info.DeepCopy(), nil
}

// PutDocInfo writes the body as the next revision of the document.
func (d *DB) PutDocInfo(
	_ context.Context,
	db, id, rev string,
	body []byte,
) (*database.DocInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	dbInfo, err := findDatabase(txn, db)
	if err != nil {
		return nil, err
	}
	existing, err := findDocInfo(txn, db, id)
	if err != nil {
		return nil, err
	}

	prev := ""
	switch {
	case existing == nil:
		if rev != "" {
			return nil, fmt.Errorf("put document %s/%s: %w", db, id, database.ErrConflict)
		}
		dbInfo.DocCount++
	case existing.Deleted:
		if rev != "" && rev != existing.Rev {
			return nil, fmt.Errorf("put document %s/%s: %w", db, id, database.ErrConflict)
		}
		prev = existing.Rev
		dbInfo.DocCount++
		dbInfo.DocDelCount--
	default:
		if rev != existing.Rev {
			return nil, fmt.Errorf("put document %s/%s: %w", db, id, database.ErrConflict)
		}
		prev = existing.Rev
	}

	info := &database.DocInfo{
		DB:        db,
		ID:        id,
		Rev:       database.NextRevision(prev, false, body),
		Body:      body,
		UpdatedAt: time.Now(),
	}
	if err := commitRevision(txn, dbInfo, info); err != nil {
		return nil, err
	}

	return info.DeepCopy(), nil
}

// DeleteDocInfo writes a tombstone as the next revision of the document.
func (d *DB) DeleteDocInfo(_ context.Context, db, id, rev string) (*database.DocInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	dbInfo, err := findDatabase(txn, db)
	if err != nil {
		return nil, err
	}
	existing, err := findDocInfo(txn, db, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("delete document %s/%s: %w", db, id, database.ErrDocumentNotFound)
	}
	if existing.Deleted {
		return nil, fmt.Errorf("delete document %s/%s: %w", db, id, database.ErrDocumentDeleted)
	}
	if rev != existing.Rev {
		return nil, fmt.Errorf("delete document %s/%s: %w", db, id, database.ErrConflict)
	}

	dbInfo.DocCount--
	dbInfo.DocDelCount++
	info := &database.DocInfo{
		DB:        db,
		ID:        id,
		Rev:       database.NextRevision(existing.Rev, true, nil),
		Deleted:   true,
		UpdatedAt: time.Now(),
	}
	if err := commitRevision(txn, dbInfo, info); err != nil {
		return nil, err
	}

	return info.DeepCopy(), nil
}

// ListDocInfos returns the live documents of the database.
func (d *DB) ListDocInfos(_ context.Context, db string) ([]*database.DocInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	if _, err := findDatabase(txn, db); err != nil {
		return nil, err
	}

	iter, err := txn.Get(tblDocuments, "db", db)
	if err != nil {
		return nil, fmt.Errorf("list documents of %s: %w", db, err)
	}

	var infos []*database.DocInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		info := raw.(*database.DocInfo)
		if info.Deleted {
			continue
		}
		infos = append(infos, info.DeepCopy())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

// findDatabase returns a copy of the database record that may be modified
// and written back in the same transaction.
func findDatabase(txn *memdb.Txn, name string) (*database.DBInfo, error) {
	raw, err := txn.First(tblDatabases, "id", name)
	if err != nil {
		return nil, fmt.Errorf("find database %s: %w", name, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("find database %s: %w", name, database.ErrDatabaseNotFound)
	}
	return raw.(*database.DBInfo).DeepCopy(), nil
}

func findDocInfo(txn *memdb.Txn, db, id string) (*database.DocInfo, error) {
	raw, err := txn.First(tblDocuments, "id", db, id)
	if err != nil {
		return nil, fmt.Errorf("find document %s/%s: %w", db, id, err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*database.DocInfo), nil
}

func commitRevision(txn *memdb.Txn, dbInfo *database.DBInfo, info *database.DocInfo) error {
	dbInfo.UpdateSeq++
	info.Seq = dbInfo.UpdateSeq

	if err := txn.Insert(tblDatabases, dbInfo); err != nil {
		return fmt.Errorf("update database %s: %w", dbInfo.Name, err)
	}
	if err := txn.Insert(tblDocuments, info.DeepCopy()); err != nil {
		return fmt.Errorf("insert document %s/%s: %w", info.DB, info.ID, err)
	}
	txn.Commit()

	return nil
}
