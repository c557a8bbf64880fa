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

package tree

import (
	"fmt"

	"github.com/couchkit/couchkit/pkg/document/path"
	"github.com/couchkit/couchkit/pkg/errors"
)

var (
	// ErrPathNotFound is returned when a path cannot be resolved in a tree.
	ErrPathNotFound = errors.NotFound("path not found").WithCode("ErrPathNotFound")

	// ErrTypeMismatch is returned when a value cannot be assigned to a node of
	// a different kind.
	ErrTypeMismatch = errors.InvalidArgument("type mismatch").WithCode("ErrTypeMismatch")

	// ErrRootRemoval is returned when removing the root of a document.
	// Removing a whole document is a delete.
	ErrRootRemoval = errors.InvalidArgument("cannot remove the document root").WithCode("ErrRootRemoval")

	// ErrUnsupportedValue is returned when a value has no JSON representation.
	ErrUnsupportedValue = errors.InvalidArgument("unsupported value").WithCode("ErrUnsupportedValue")
)

// Lookup returns the node at the given path. When only the last segment is
// missing from an existing object, it returns false without an error.
func Lookup(root interface{}, p path.Path) (interface{}, bool, error) {
	node := root
	segments := p.Segments()
	for i, seg := range segments {
		last := i == len(segments)-1

		switch n := node.(type) {
		case map[string]interface{}:
			if seg.IsIndex() {
				return nil, false, notFound(p, "index %d on an object", seg.Index())
			}
			child, ok := n[seg.Key()]
			if !ok {
				if last {
					return nil, false, nil
				}
				return nil, false, notFound(p, "missing key %q", seg.Key())
			}
			node = child
		case []interface{}:
			if !seg.IsIndex() {
				return nil, false, notFound(p, "key %q on an array", seg.Key())
			}
			if seg.Index() < 0 || seg.Index() >= len(n) {
				return nil, false, notFound(p, "index %d out of range [0, %d)", seg.Index(), len(n))
			}
			node = n[seg.Index()]
		default:
			return nil, false, notFound(p, "%q on a %s", seg.String(), KindOf(node))
		}
	}

	return node, true, nil
}

// Set assigns the value to the node at the given path and returns the new
// root. The assignment is dispatched on the kind of the current node:
//
//   - object: the value must be an object, which replaces the node.
//   - array: the value must be an array, whose elements are appended.
//   - string, number, bool: the value must have the same kind.
//   - null, or a key missing from an existing object: any value.
//
// Every other pairing fails with ErrTypeMismatch.
func Set(root interface{}, p path.Path, value interface{}) (interface{}, error) {
	normalized, err := Normalize(value)
	if err != nil {
		return nil, err
	}

	if p.IsRoot() {
		return assign(root, normalized, p)
	}

	return withParent(root, p, func(container interface{}, last path.Segment) (interface{}, error) {
		switch c := container.(type) {
		case map[string]interface{}:
			current, ok := c[last.Key()]
			if !ok {
				c[last.Key()] = normalized
				return c, nil
			}
			assigned, err := assign(current, normalized, p)
			if err != nil {
				return nil, err
			}
			c[last.Key()] = assigned
			return c, nil
		case []interface{}:
			assigned, err := assign(c[last.Index()], normalized, p)
			if err != nil {
				return nil, err
			}
			c[last.Index()] = assigned
			return c, nil
		}
		return nil, notFound(p, "unexpected container %s", KindOf(container))
	})
}

// Remove removes the node at the given path and returns the new root. An
// array element addressed by index is removed from the array, any other node
// is replaced with null.
func Remove(root interface{}, p path.Path) (interface{}, error) {
	if p.IsRoot() {
		return nil, ErrRootRemoval
	}

	return withParent(root, p, func(container interface{}, last path.Segment) (interface{}, error) {
		switch c := container.(type) {
		case map[string]interface{}:
			if _, ok := c[last.Key()]; !ok {
				return nil, notFound(p, "missing key %q", last.Key())
			}
			c[last.Key()] = nil
			return c, nil
		case []interface{}:
			removed := make([]interface{}, 0, len(c)-1)
			removed = append(removed, c[:last.Index()]...)
			removed = append(removed, c[last.Index()+1:]...)
			return removed, nil
		}
		return nil, notFound(p, "unexpected container %s", KindOf(container))
	})
}

// withParent resolves the container holding the last segment of p, applies
// fn to it and writes the returned container back into the tree. Object
// containers passed to fn always exist; array containers are passed only
// with an in-range index.
func withParent(
	root interface{},
	p path.Path,
	fn func(container interface{}, last path.Segment) (interface{}, error),
) (interface{}, error) {
	parent, _ := p.Parent()
	last, _ := p.Last()

	container, found, err := Lookup(root, parent)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound(p, "missing parent %q", parent.String())
	}

	switch c := container.(type) {
	case map[string]interface{}:
		if last.IsIndex() {
			return nil, notFound(p, "index %d on an object", last.Index())
		}
	case []interface{}:
		if !last.IsIndex() {
			return nil, notFound(p, "key %q on an array", last.Key())
		}
		if last.Index() < 0 || last.Index() >= len(c) {
			return nil, notFound(p, "index %d out of range [0, %d)", last.Index(), len(c))
		}
	default:
		return nil, notFound(p, "%q on a %s", last.String(), KindOf(container))
	}

	updated, err := fn(container, last)
	if err != nil {
		return nil, err
	}
	if parent.IsRoot() {
		return updated, nil
	}

	// Containers are updated in place, except arrays that changed length.
	return Replace(root, parent, updated)
}

// Replace puts the node at the given path without any kind checks and
// returns the new root. The path must resolve, except for a last key missing
// from an existing object.
func Replace(root interface{}, p path.Path, node interface{}) (interface{}, error) {
	if p.IsRoot() {
		return node, nil
	}

	return withParent(root, p, func(container interface{}, last path.Segment) (interface{}, error) {
		switch c := container.(type) {
		case map[string]interface{}:
			c[last.Key()] = node
			return c, nil
		case []interface{}:
			c[last.Index()] = node
			return c, nil
		}
		return nil, notFound(p, "unexpected container %s", KindOf(container))
	})
}

func assign(current, value interface{}, p path.Path) (interface{}, error) {
	currentKind := KindOf(current)
	valueKind := KindOf(value)

	switch currentKind {
	case Null:
		return value, nil
	case Object, String, Number, Bool:
		if valueKind == currentKind {
			return value, nil
		}
	case Array:
		if valueKind == Array {
			appended := append(Clone(current).([]interface{}), value.([]interface{})...)
			return appended, nil
		}
	}

	return nil, fmt.Errorf(
		"assign %s to %s at %q: %w",
		valueKind, currentKind, p.String(), ErrTypeMismatch,
	)
}

func notFound(p path.Path, format string, args ...interface{}) error {
	return fmt.Errorf("%q: %s: %w", p.String(), fmt.Sprintf(format, args...), ErrPathNotFound)
}
