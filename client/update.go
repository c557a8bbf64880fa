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

	"github.com/wI2L/jsondiff"
	"go.uber.org/zap"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/pkg/document/diff"
	"github.com/couchkit/couchkit/pkg/document/path"
	"github.com/couchkit/couchkit/pkg/document/tree"
	"github.com/couchkit/couchkit/pkg/errors"
)

// OutcomeKind is the kind of an UpdateOutcome.
type OutcomeKind int

// The outcomes of an update.
const (
	// OutcomeChanged means the mutation was written.
	OutcomeChanged OutcomeKind = iota

	// OutcomeDeleted means the document did not exist when it was read. The
	// mutation was not applied.
	OutcomeDeleted

	// OutcomeFailed means the update failed. A conflict is reported as a
	// failure wrapping ErrConflict.
	OutcomeFailed
)

// String returns the name of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeChanged:
		return "changed"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome_%d", int(k))
}

// UpdateOutcome is the result of one update.
type UpdateOutcome struct {
	Kind OutcomeKind

	// Changes lists the property changes of the updated scope. Set for
	// OutcomeChanged only.
	Changes []diff.PropertyChange

	// Revision is the revision written. Set for OutcomeChanged only.
	Revision string

	// Patch is the JSON Patch between the written document and the document
	// that was read. Set for OutcomeChanged only.
	Patch jsondiff.Patch

	// Err is the cause of OutcomeFailed.
	Err error
}

// IsConflict returns whether the update failed on a stale revision.
func (o UpdateOutcome) IsConflict() bool {
	return o.Kind == OutcomeFailed && errors.Is(o.Err, ErrConflict)
}

func changed(changes []diff.PropertyChange, rev string, patch jsondiff.Patch) UpdateOutcome {
	return UpdateOutcome{Kind: OutcomeChanged, Changes: changes, Revision: rev, Patch: patch}
}

func deleted() UpdateOutcome {
	return UpdateOutcome{Kind: OutcomeDeleted}
}

func failed(err error) UpdateOutcome {
	return UpdateOutcome{Kind: OutcomeFailed, Err: err}
}

// MutateFunc computes the next body of a document. It receives a deep copy
// of the current body, without store metadata, and returns the new body.
type MutateFunc func(root interface{}) (interface{}, error)

// Update reads the current revision of a document, applies the mutation and
// writes the result with the revision that was read. The changes are computed
// over the properties of the node at scope.
//
// A document that does not exist yields OutcomeDeleted without running the
// mutation. A concurrent write between the read and the write yields a
// failure wrapping ErrConflict, the update is not retried.
func (d *Database) Update(ctx context.Context, id string, scope path.Path, mutate MutateFunc) UpdateOutcome {
	snapshot, err := d.Retrieve(ctx, id)
	if errors.Is(err, ErrDocumentNotFound) {
		d.client.logger.Debug("update of a deleted document", zap.String("id", id))
		return deleted()
	}
	if err != nil {
		return failed(err)
	}

	return d.UpdateSnapshot(ctx, snapshot, scope, mutate)
}

// UpdateSnapshot applies the mutation to a snapshot the caller already holds
// and writes the result with the revision of the snapshot. The snapshot must
// hold a whole document.
func (d *Database) UpdateSnapshot(
	ctx context.Context,
	snapshot *types.DocumentSnapshot,
	scope path.Path,
	mutate MutateFunc,
) UpdateOutcome {
	if !snapshot.Path.IsRoot() {
		return failed(fmt.Errorf(
			"update %s from a snapshot of %q: %w",
			snapshot.ID, snapshot.Path.String(), errors.InvalidArgument("partial snapshot"),
		))
	}

	oldProps, err := propertiesAt(snapshot.Body, scope)
	if err != nil {
		return failed(fmt.Errorf("update %s: %w", snapshot.ID, err))
	}

	next, err := mutate(tree.Clone(snapshot.Body))
	if err != nil {
		return failed(fmt.Errorf("update %s: %w", snapshot.ID, err))
	}
	if tree.KindOf(next) != tree.Object {
		return failed(fmt.Errorf("update %s: body is a %s: %w", snapshot.ID, tree.KindOf(next), tree.ErrTypeMismatch))
	}
	next, err = tree.Normalize(next)
	if err != nil {
		return failed(fmt.Errorf("update %s: %w", snapshot.ID, err))
	}

	newProps, err := propertiesAt(next, scope)
	if errors.Is(err, tree.ErrPathNotFound) {
		newProps, err = nil, nil
	}
	if err != nil {
		return failed(fmt.Errorf("update %s: %w", snapshot.ID, err))
	}

	meta, err := d.Put(ctx, snapshot.ID, snapshot.Revision, next)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			d.client.logger.Debug(
				"update conflict",
				zap.String("id", snapshot.ID),
				zap.String("rev", snapshot.Revision),
			)
		}
		return failed(err)
	}

	patch, err := diff.Patch(snapshot.Body, next)
	if err != nil {
		d.client.logger.Warn("compute patch", zap.String("id", snapshot.ID), zap.Error(err))
	}

	return changed(diff.Diff(oldProps, newProps), meta.Revision, patch)
}

func propertiesAt(root interface{}, scope path.Path) ([]diff.Property, error) {
	node, found, err := tree.Lookup(root, scope)
	if err != nil {
		return nil, err
	}

	name := ""
	if last, ok := scope.Last(); ok {
		name = last.String()
	}
	return diff.FromNode(name, node, found), nil
}
