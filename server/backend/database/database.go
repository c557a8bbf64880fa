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

// Package database provides the storage interface of the store server.
package database

import (
	"context"

	"github.com/couchkit/couchkit/pkg/errors"
)

var (
	// ErrDatabaseNotFound is returned when the database does not exist.
	ErrDatabaseNotFound = errors.NotFound("Database does not exist.").WithCode("ErrDatabaseNotFound")

	// ErrDatabaseExists is returned when the database already exists.
	ErrDatabaseExists = errors.AlreadyExists(
		"The database could not be created, the file already exists.",
	).WithCode("ErrDatabaseExists")

	// ErrDocumentNotFound is returned when the document was never written.
	ErrDocumentNotFound = errors.NotFound("missing").WithCode("ErrDocumentNotFound")

	// ErrDocumentDeleted is returned when the document was deleted.
	ErrDocumentDeleted = errors.NotFound("deleted").WithCode("ErrDocumentDeleted")

	// ErrConflict is returned when a write presents a revision that is not the
	// current revision of the document.
	ErrConflict = errors.Aborted("Document update conflict.").WithCode("ErrConflict")

	// ErrInvalidRevision is returned when a revision is malformed.
	ErrInvalidRevision = errors.InvalidArgument("Invalid rev format").WithCode("ErrInvalidRevision")
)

// Database represents the storage of the store server.
type Database interface {
	// Close closes the database.
	Close() error

	// CreateDatabase creates a database of the given name.
	CreateDatabase(ctx context.Context, name string) (*DBInfo, error)

	// FindDatabase returns the database of the given name with its counters.
	FindDatabase(ctx context.Context, name string) (*DBInfo, error)

	// ListDatabases returns the names of all databases in ascending order.
	ListDatabases(ctx context.Context) ([]string, error)

	// DeleteDatabase deletes the database and all of its documents.
	DeleteDatabase(ctx context.Context, name string) error

	// FindDocInfo returns the current revision of the document. A deleted
	// document is reported with ErrDocumentDeleted.
	FindDocInfo(ctx context.Context, db, id string) (*DocInfo, error)

	// PutDocInfo writes the body as the next revision of the document. The
	// given revision must be the current revision of a live document, or
	// empty when the document does not exist or was deleted.
	PutDocInfo(ctx context.Context, db, id, rev string, body []byte) (*DocInfo, error)

	// DeleteDocInfo writes a tombstone as the next revision of the document.
	DeleteDocInfo(ctx context.Context, db, id, rev string) (*DocInfo, error)

	// ListDocInfos returns the live documents of the database ordered by id.
	ListDocInfos(ctx context.Context, db string) ([]*DocInfo, error)
}
