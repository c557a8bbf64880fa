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
	"fmt"

	"go.uber.org/zap"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/pkg/document/diff"
	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/pkg/document/path"
	"github.com/couchkit/couchkit/pkg/document/tree"
	"github.com/couchkit/couchkit/pkg/errors"
)

// Reference points at a document of a database, or at a node inside it.
// References are values: navigation returns new references, and each read
// through a reference is a fresh snapshot.
type Reference struct {
	db   *Database
	id   string
	path path.Path
}

// Database returns the database of the reference.
func (r Reference) Database() *Database {
	return r.db
}

// Collection returns the name of the database of the reference.
func (r Reference) Collection() string {
	return r.db.name
}

// DocumentID returns the document id, empty when the reference points at a
// document that is not created yet.
func (r Reference) DocumentID() string {
	return r.id
}

// Path returns the path of the referenced node inside the document.
func (r Reference) Path() path.Path {
	return r.path
}

// Child returns a reference to a node below this one.
func (r Reference) Child(segments ...path.Segment) Reference {
	return Reference{db: r.db, id: r.id, path: r.path.Append(segments...)}
}

// Parent returns a reference to the parent node. It returns false at the
// root of the document.
func (r Reference) Parent() (Reference, bool) {
	parent, ok := r.path.Parent()
	if !ok {
		return r, false
	}
	return Reference{db: r.db, id: r.id, path: parent}, true
}

// Root returns a reference to the root of the document.
func (r Reference) Root() Reference {
	return Reference{db: r.db, id: r.id, path: r.path.Root()}
}

// Equal returns whether both references point at the same node.
func (r Reference) Equal(other Reference) bool {
	return r.db.name == other.db.name && r.id == other.id && r.path.Equal(other.path)
}

// String renders the reference as "collection:id" followed by the path.
func (r Reference) String() string {
	s := key.Key{Collection: r.db.name, Document: r.id}.CombinedKey()
	if r.path.IsRoot() {
		return s
	}
	return s + "." + r.path.String()
}

func (r Reference) requireID() error {
	if r.id == "" {
		return fmt.Errorf("%s: %w", r.String(), ErrNoDocumentID)
	}
	return nil
}

// Retrieve reads the referenced node.
func (r Reference) Retrieve(ctx context.Context) (*types.DocumentSnapshot, error) {
	if err := r.requireID(); err != nil {
		return nil, err
	}

	snapshot, err := r.db.Retrieve(ctx, r.id)
	if err != nil {
		return nil, err
	}
	if r.path.IsRoot() {
		return snapshot, nil
	}

	node, found, err := tree.Lookup(snapshot.Body, r.path)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", r.String(), err)
	}
	if !found {
		return nil, fmt.Errorf("retrieve %s: %w", r.String(), tree.ErrPathNotFound)
	}

	return &types.DocumentSnapshot{
		ID:       snapshot.ID,
		Revision: snapshot.Revision,
		Path:     r.path,
		Body:     node,
	}, nil
}

// Create writes the object as a new document. The object must belong to the
// database of the reference, and its id must match the id of the reference
// when both are set. Objects without an id get one from the store, or the id
// of the reference. The path of the reference is ignored.
func (r Reference) Create(ctx context.Context, obj interface{}) (*types.DocumentMeta, error) {
	if err := r.db.CheckOwnership(obj); err != nil {
		return nil, err
	}

	s, err := r.db.client.extractor.Extract(obj)
	if err != nil {
		return nil, err
	}
	if r.id != "" && s.ID != "" && s.ID != r.id {
		return nil, mismatch(r, s.ID)
	}

	doc := s.Document()
	if s.ID == "" && r.id != "" {
		doc[diff.IDField] = r.id
	}

	var warnings []string
	if !r.path.IsRoot() {
		warning := fmt.Sprintf("path %q ignored, documents are created at the root", r.path.String())
		r.db.client.logger.Info(warning, zap.String("reference", r.String()))
		warnings = append(warnings, warning)
	}

	meta, err := r.db.CreateDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	meta.Warnings = warnings
	return meta, nil
}

// Update replaces the referenced node with the result of the mutator. The
// mutator receives a copy of the current node, nil if the node is a missing
// member of an object.
func (r Reference) Update(ctx context.Context, mutator func(node interface{}) (interface{}, error)) UpdateOutcome {
	if err := r.requireID(); err != nil {
		return failed(err)
	}

	return r.db.Update(ctx, r.id, r.path, func(root interface{}) (interface{}, error) {
		node, _, err := tree.Lookup(root, r.path)
		if err != nil {
			return nil, err
		}
		next, err := mutator(node)
		if err != nil {
			return nil, err
		}
		return tree.Replace(root, r.path, next)
	})
}

// UpdateObject writes the object through the reference. At the root of a
// document the object replaces the whole body, after the ownership and id
// checks of Create. Below the root, the object is assigned like
// UpdateChildValue.
func (r Reference) UpdateObject(ctx context.Context, obj interface{}) UpdateOutcome {
	if err := r.requireID(); err != nil {
		return failed(err)
	}
	if !r.path.IsRoot() {
		return r.UpdateChildValue(ctx, obj)
	}

	if err := r.db.CheckOwnership(obj); err != nil {
		return failed(err)
	}
	s, err := r.db.client.extractor.Extract(obj)
	if err != nil {
		return failed(err)
	}
	if s.ID != "" && s.ID != r.id {
		return failed(mismatch(r, s.ID))
	}

	doc := s.Document()
	delete(doc, diff.IDField)
	return r.db.Update(ctx, r.id, r.path, func(interface{}) (interface{}, error) {
		return doc, nil
	})
}

// UpdateChildValue assigns the value to the referenced node. The assignment
// depends on the kind of the node: objects are replaced by objects, arrays
// get the elements of an array appended, strings, numbers and booleans are
// replaced by values of the same kind, and nulls or missing members take any
// value. Other pairings fail with tree.ErrTypeMismatch.
func (r Reference) UpdateChildValue(ctx context.Context, value interface{}) UpdateOutcome {
	if err := r.requireID(); err != nil {
		return failed(err)
	}

	return r.db.Update(ctx, r.id, r.path, func(root interface{}) (interface{}, error) {
		return tree.Set(root, r.path, value)
	})
}

// RemoveValue removes the referenced node. Array elements are removed from
// their array, and the changes are then reported over the array. Other nodes
// are set to null. The root cannot be removed, use Delete instead.
func (r Reference) RemoveValue(ctx context.Context) UpdateOutcome {
	if err := r.requireID(); err != nil {
		return failed(err)
	}
	if r.path.IsRoot() {
		return failed(fmt.Errorf("remove %s: %w", r.String(), tree.ErrRootRemoval))
	}

	scope := r.path
	if last, _ := r.path.Last(); last.IsIndex() {
		scope, _ = r.path.Parent()
	}
	return r.db.Update(ctx, r.id, scope, func(root interface{}) (interface{}, error) {
		return tree.Remove(root, r.path)
	})
}

// Delete deletes the current revision of the document.
func (r Reference) Delete(ctx context.Context) error {
	if err := r.requireID(); err != nil {
		return err
	}

	snapshot, err := r.db.Retrieve(ctx, r.id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.String(), err)
	}
	if _, err := r.db.DeleteDocument(ctx, r.id, snapshot.Revision); err != nil {
		return err
	}
	return nil
}

// DeleteObject deletes the document of the object. The object's id must
// match the reference. A revision carried by the object is used as is, so
// that deleting a stale object fails with ErrConflict.
func (r Reference) DeleteObject(ctx context.Context, obj interface{}) error {
	if err := r.requireID(); err != nil {
		return err
	}

	s, err := r.db.client.extractor.Extract(obj)
	if err != nil {
		return err
	}
	if s.ID != r.id {
		return mismatch(r, s.ID)
	}
	if s.Revision == "" {
		return r.Delete(ctx)
	}

	if _, err := r.db.DeleteDocument(ctx, r.id, s.Revision); err != nil {
		return err
	}
	return nil
}

func mismatch(r Reference, id string) error {
	return errors.WithMetadata(
		fmt.Errorf("%s: object id %q: %w", r.String(), id, ErrIDMismatch),
		map[string]string{"reference": r.id, "object": id},
	)
}
