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

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/pkg/document/diff"
	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/pkg/document/path"
	"github.com/couchkit/couchkit/pkg/document/tree"
	"github.com/couchkit/couchkit/pkg/errors"
)

// Database is a handle of a database of the store, the collection documents
// live in. Handles are cheap and safe for concurrent use.
type Database struct {
	client *Client
	name   string
}

// Name returns the normalized name of the database.
func (d *Database) Name() string {
	return d.name
}

// Client returns the client the handle belongs to.
func (d *Database) Client() *Client {
	return d.client
}

func (d *Database) path() string {
	return "/" + url.PathEscape(d.name)
}

func (d *Database) docPath(id string) string {
	for _, prefix := range []string{"_design/", "_local/"} {
		if strings.HasPrefix(id, prefix) {
			return d.path() + "/" + prefix + url.PathEscape(strings.TrimPrefix(id, prefix))
		}
	}
	return d.path() + "/" + url.PathEscape(id)
}

// Exists checks whether the database exists.
func (d *Database) Exists(ctx context.Context) (bool, error) {
	_, err := d.client.do(ctx, &Request{Method: http.MethodHead, Path: d.path()})
	if errors.IsStatus(err, errors.ErrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create creates the database. It fails with ErrDatabaseExists if the
// database exists.
func (d *Database) Create(ctx context.Context) error {
	if _, err := d.client.do(ctx, &Request{Method: http.MethodPut, Path: d.path()}); err != nil {
		return fmt.Errorf("create database %s: %w", d.name, err)
	}
	return nil
}

// EnsureExists creates the database unless it exists.
func (d *Database) EnsureExists(ctx context.Context) error {
	err := d.Create(ctx)
	if errors.Is(err, ErrDatabaseExists) {
		return nil
	}
	return err
}

// Info returns the summary of the database.
func (d *Database) Info(ctx context.Context) (*types.DatabaseInfo, error) {
	info := &types.DatabaseInfo{}
	if err := d.client.getJSON(ctx, d.path(), nil, info); err != nil {
		return nil, fmt.Errorf("info of %s: %w", d.name, err)
	}
	return info, nil
}

// Drop deletes the database and all of its documents.
func (d *Database) Drop(ctx context.Context) error {
	if _, err := d.client.do(ctx, &Request{Method: http.MethodDelete, Path: d.path()}); err != nil {
		return fmt.Errorf("drop database %s: %w", d.name, err)
	}
	return nil
}

// AllDocs lists the ids and revisions of the documents of the database.
func (d *Database) AllDocs(ctx context.Context) ([]types.DocumentRow, error) {
	resp := &types.AllDocsResponse{}
	if err := d.client.getJSON(ctx, d.path()+"/_all_docs", nil, resp); err != nil {
		return nil, fmt.Errorf("list documents of %s: %w", d.name, err)
	}

	rows := make([]types.DocumentRow, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		rows = append(rows, types.DocumentRow{ID: row.ID, Key: row.Key, Revision: row.Value.Rev})
	}
	return rows, nil
}

// Retrieve reads the current revision of a document. The store metadata is
// moved out of the body into the snapshot.
func (d *Database) Retrieve(ctx context.Context, id string) (*types.DocumentSnapshot, error) {
	if err := key.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	resp, err := d.client.do(ctx, &Request{Method: http.MethodGet, Path: d.docPath(id)})
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", id, err)
	}

	body, err := tree.DecodeObject(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %v: %w", id, err, ErrUnexpectedResponse)
	}
	docID, rev := documentMetaOf(resp.Body)
	if docID == "" {
		docID = id
	}
	delete(body, diff.IDField)
	delete(body, diff.RevisionField)

	return &types.DocumentSnapshot{
		ID:       docID,
		Revision: rev,
		Path:     path.Root(),
		Body:     body,
	}, nil
}

// WriteOption configures a document write.
type WriteOption func(*writeOptions)

type writeOptions struct {
	batch bool
}

// WithBatch asks the store to acknowledge the write before it is committed.
// The returned meta then carries no revision.
func WithBatch() WriteOption {
	return func(o *writeOptions) { o.batch = true }
}

// CreateDocument writes a new document. Bodies with an "_id" are created
// with that id, the store generates an id for the others.
func (d *Database) CreateDocument(
	ctx context.Context,
	body interface{},
	opts ...WriteOption,
) (*types.DocumentMeta, error) {
	options := writeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("create document: %v: %w", err, tree.ErrUnsupportedValue)
	}
	if data, err = sjson.DeleteBytes(data, diff.RevisionField); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	id := gjson.GetBytes(data, diff.IDField).String()
	req := &Request{Method: http.MethodPost, Path: d.path(), Body: data}
	if id != "" {
		if err := key.ValidateDocumentID(id); err != nil {
			return nil, err
		}
		req = &Request{Method: http.MethodPut, Path: d.docPath(id), Body: data}
	}
	if options.batch {
		req.Query = url.Values{"batch": {"ok"}}
	}

	resp, err := d.client.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create document %s: %w", id, err)
	}
	return d.writeResult(resp)
}

// Put writes the body as the next revision of the document. The revision
// must be the current revision of the document, or empty for a document that
// does not exist. A stale revision fails with ErrConflict.
func (d *Database) Put(ctx context.Context, id, rev string, body interface{}) (*types.DocumentMeta, error) {
	if err := key.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("put %s: %v: %w", id, err, tree.ErrUnsupportedValue)
	}
	if rev == "" {
		if data, err = sjson.DeleteBytes(data, diff.RevisionField); err != nil {
			return nil, fmt.Errorf("put %s: %w", id, err)
		}
	}
	if data, err = withMeta(data, id, rev); err != nil {
		return nil, fmt.Errorf("put %s: %w", id, err)
	}

	resp, err := d.client.do(ctx, &Request{Method: http.MethodPut, Path: d.docPath(id), Body: data})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", id, err)
	}
	return d.writeResult(resp)
}

// DeleteDocument deletes the given revision of a document.
func (d *Database) DeleteDocument(ctx context.Context, id, rev string) (*types.DocumentMeta, error) {
	if err := key.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	resp, err := d.client.do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   d.docPath(id),
		Query:  url.Values{"rev": {rev}},
	})
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", id, err)
	}
	return d.writeResult(resp)
}

func (d *Database) writeResult(resp *Response) (*types.DocumentMeta, error) {
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted &&
		resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("write status %d: %w", resp.StatusCode, ErrUnexpectedResponse)
	}

	id, rev := responseMetaOf(resp.Body)
	if rev == "" && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("write without revision: %w", ErrUnexpectedResponse)
	}
	return &types.DocumentMeta{ID: id, Revision: rev}, nil
}

// Reference returns a reference to the root of the given document. An empty
// id refers to a document that is not created yet.
func (d *Database) Reference(id string) Reference {
	return Reference{db: d, id: id, path: path.Root()}
}

// ReferenceFor returns a reference to the document of the given object,
// after checking that the object belongs to the database.
func (d *Database) ReferenceFor(obj interface{}) (Reference, error) {
	if err := d.CheckOwnership(obj); err != nil {
		return Reference{}, err
	}
	s, err := d.client.extractor.Extract(obj)
	if err != nil {
		return Reference{}, err
	}
	return d.Reference(s.ID), nil
}

// CheckOwnership checks that objects of the type of obj are stored in this
// database.
func (d *Database) CheckOwnership(obj interface{}) error {
	identity := d.client.extractor.Identity()
	collection := identity.CollectionNameFor(obj)
	if collection == d.name {
		return nil
	}

	d.client.logger.Debug(
		"incompatible collection",
		zap.String("database", d.name),
		zap.String("collection", collection),
	)
	return errors.WithMetadata(
		fmt.Errorf("%s belongs to %q, not %q: %w", identity.ClassName(obj), collection, d.name, ErrIncompatibleCollection),
		map[string]string{"database": d.name, "collection": collection},
	)
}
