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

// Package diff computes the changes between two snapshots of the properties
// of a document, or of a node inside a document.
package diff

import (
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/couchkit/couchkit/pkg/document/tree"
)

// Metadata fields maintained by the store. They are never reported as changes.
const (
	IDField       = "_id"
	RevisionField = "_rev"
)

// Property is a named value of a document.
type Property struct {
	Name     string
	Value    interface{}
	Optional bool
}

// Structure is implemented by nested mapped objects. Two structures are
// equal when their names match and their properties have no differences.
type Structure interface {
	StructureName() string
	StructureProperties() []Property
}

// ChangeKind is the kind of a PropertyChange.
type ChangeKind int

// The kinds of changes.
const (
	Added ChangeKind = iota
	Removed
	Modified
)

// String returns the name of the kind.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	}
	return fmt.Sprintf("kind_%d", int(k))
}

// PropertyChange describes how one property differs between two snapshots.
// OldValue is nil for additions and NewValue is nil for removals.
type PropertyChange struct {
	Name     string
	Kind     ChangeKind
	OldValue interface{}
	NewValue interface{}
}

// String returns a short human readable description of the change.
func (c PropertyChange) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("+ %s: %s", c.Name, render(c.NewValue))
	case Removed:
		return fmt.Sprintf("- %s: %s", c.Name, render(c.OldValue))
	default:
		return fmt.Sprintf("~ %s: %s -> %s", c.Name, render(c.OldValue), render(c.NewValue))
	}
}

// Diff compares two property lists. It reports removed properties in the
// order of old, then added properties in the order of new, then modified
// properties in the order of new. Unchanged properties are not reported. A
// name repeated in a list counts once, with its last value.
func Diff(old, new []Property) []PropertyChange {
	old, oldByName := unique(old)
	new, newByName := unique(new)

	var changes []PropertyChange
	for _, p := range old {
		if _, ok := newByName[p.Name]; !ok {
			changes = append(changes, PropertyChange{Name: p.Name, Kind: Removed, OldValue: p.Value})
		}
	}
	for _, p := range new {
		if _, ok := oldByName[p.Name]; !ok {
			changes = append(changes, PropertyChange{Name: p.Name, Kind: Added, NewValue: p.Value})
		}
	}
	for _, p := range new {
		prev, ok := oldByName[p.Name]
		if !ok || Equal(prev.Value, p.Value) {
			continue
		}
		changes = append(changes, PropertyChange{
			Name:     p.Name,
			Kind:     Modified,
			OldValue: prev.Value,
			NewValue: p.Value,
		})
	}

	return changes
}

// unique drops repeated names from the list. The last value of a name wins
// and takes the place of its first occurrence.
func unique(props []Property) ([]Property, map[string]Property) {
	byName := make(map[string]Property, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}
	if len(byName) == len(props) {
		return props, byName
	}

	deduped := make([]Property, 0, len(byName))
	seen := make(map[string]bool, len(byName))
	for _, p := range props {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		deduped = append(deduped, byName[p.Name])
	}
	return deduped, byName
}

// Equal compares two property values. Nested structures are compared by
// name and properties, every other value by its JSON value.
func Equal(a, b interface{}) bool {
	sa, okA := a.(Structure)
	sb, okB := b.(Structure)
	if okA || okB {
		if !okA || !okB {
			return false
		}
		return sa.StructureName() == sb.StructureName() &&
			len(Diff(sa.StructureProperties(), sb.StructureProperties())) == 0
	}

	return tree.Equal(a, b)
}

// FromObject returns the properties of a decoded JSON object sorted by name.
// The metadata fields of the store are skipped.
func FromObject(obj map[string]interface{}) []Property {
	var props []Property
	for _, k := range tree.SortedKeys(obj) {
		if k == IDField || k == RevisionField {
			continue
		}
		props = append(props, Property{Name: k, Value: obj[k]})
	}
	return props
}

// FromNode returns the properties of a node of a document. Objects expand to
// their members, any other node becomes a single property with the given
// name. A node that does not exist has no properties.
func FromNode(name string, node interface{}, exists bool) []Property {
	if !exists {
		return nil
	}
	if obj, ok := node.(map[string]interface{}); ok {
		return FromObject(obj)
	}
	return []Property{{Name: name, Value: node}}
}

// Patch returns the JSON Patch (RFC 6902) that transforms old into new.
func Patch(old, new interface{}) (jsondiff.Patch, error) {
	source, err := json.Marshal(old)
	if err != nil {
		return nil, fmt.Errorf("marshal source: %w", err)
	}
	target, err := json.Marshal(new)
	if err != nil {
		return nil, fmt.Errorf("marshal target: %w", err)
	}

	patch, err := jsondiff.CompareJSON(source, target)
	if err != nil {
		return nil, fmt.Errorf("compare documents: %w", err)
	}
	return patch, nil
}

func render(v interface{}) string {
	if s, ok := v.(Structure); ok {
		return s.StructureName() + "{...}"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
