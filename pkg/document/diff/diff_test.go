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

package diff_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchkit/couchkit/pkg/document/diff"
	"github.com/couchkit/couchkit/pkg/document/tree"
)

type structure struct {
	name  string
	props []diff.Property
}

func (s structure) StructureName() string                { return s.name }
func (s structure) StructureProperties() []diff.Property { return s.props }

func TestDiff(t *testing.T) {
	t.Run("added and modified test", func(t *testing.T) {
		old := []diff.Property{{Name: "name", Value: "a"}, {Name: "age", Value: 1}}
		updated := []diff.Property{{Name: "name", Value: "a"}, {Name: "age", Value: 2}, {Name: "email", Value: "x"}}

		assert.Equal(t, []diff.PropertyChange{
			{Name: "email", Kind: diff.Added, NewValue: "x"},
			{Name: "age", Kind: diff.Modified, OldValue: 1, NewValue: 2},
		}, diff.Diff(old, updated))
	})

	t.Run("ordering test", func(t *testing.T) {
		old := []diff.Property{{Name: "b", Value: 1}, {Name: "x", Value: 1}, {Name: "a", Value: 1}, {Name: "m", Value: 1}}
		updated := []diff.Property{{Name: "m", Value: 2}, {Name: "z", Value: 1}, {Name: "x", Value: 2}, {Name: "y", Value: 1}}

		var names []string
		var kinds []diff.ChangeKind
		for _, c := range diff.Diff(old, updated) {
			names = append(names, c.Name)
			kinds = append(kinds, c.Kind)
		}
		assert.Equal(t, []string{"b", "a", "z", "y", "m", "x"}, names)
		assert.Equal(t, []diff.ChangeKind{
			diff.Removed, diff.Removed, diff.Added, diff.Added, diff.Modified, diff.Modified,
		}, kinds)
	})

	t.Run("absence symmetry test", func(t *testing.T) {
		props := []diff.Property{{Name: "a", Value: 1}, {Name: "b", Value: "x"}}

		added := diff.Diff(nil, props)
		removed := diff.Diff(props, nil)
		require.Len(t, added, 2)
		require.Len(t, removed, 2)
		for i := range props {
			assert.Equal(t, diff.Added, added[i].Kind)
			assert.Equal(t, diff.Removed, removed[i].Kind)
			assert.Equal(t, added[i].Name, removed[i].Name)
		}
		assert.Empty(t, diff.Diff(props, props))
	})

	t.Run("completeness test", func(t *testing.T) {
		old := []diff.Property{{Name: "a", Value: 1}, {Name: "b", Value: 2}, {Name: "c", Value: 3}}
		updated := []diff.Property{{Name: "b", Value: 2}, {Name: "c", Value: 4}, {Name: "d", Value: 5}}

		reported := map[string]bool{}
		for _, c := range diff.Diff(old, updated) {
			reported[c.Name] = true
		}
		assert.Equal(t, map[string]bool{"a": true, "c": true, "d": true}, reported)
	})

	t.Run("numbers compare by value test", func(t *testing.T) {
		old := []diff.Property{{Name: "n", Value: json.Number("1")}}
		updated := []diff.Property{{Name: "n", Value: 1.0}}
		assert.Empty(t, diff.Diff(old, updated))

		changes := diff.Diff(
			[]diff.Property{{Name: "n", Value: json.Number("9007199254740993")}},
			[]diff.Property{{Name: "n", Value: json.Number("9007199254740992")}},
		)
		require.Len(t, changes, 1)
		assert.Equal(t, diff.Modified, changes[0].Kind)

		assert.Empty(t, diff.Diff(
			[]diff.Property{{Name: "n", Value: json.Number("1e400")}},
			[]diff.Property{{Name: "n", Value: json.Number("1e400")}},
		))
		assert.Empty(t, diff.Diff(
			[]diff.Property{{Name: "n", Value: json.Number("10")}},
			[]diff.Property{{Name: "n", Value: json.Number("1e1")}},
		))
		assert.Empty(t, diff.Diff(
			[]diff.Property{{Name: "n", Value: json.Number("9007199254740993")}},
			[]diff.Property{{Name: "n", Value: int64(9007199254740993)}},
		))
		assert.Empty(t, diff.Diff(
			[]diff.Property{{Name: "n", Value: json.Number("1.1")}},
			[]diff.Property{{Name: "n", Value: 1.1}},
		))
	})

	t.Run("repeated names test", func(t *testing.T) {
		changes := diff.Diff(
			[]diff.Property{{Name: "a", Value: 1}, {Name: "a", Value: 2}},
			nil,
		)
		assert.Equal(t, []diff.PropertyChange{{Name: "a", Kind: diff.Removed, OldValue: 2}}, changes)

		changes = diff.Diff(
			[]diff.Property{{Name: "a", Value: 1}},
			[]diff.Property{{Name: "a", Value: 3}, {Name: "b", Value: 1}, {Name: "a", Value: 1}},
		)
		assert.Equal(t, []diff.PropertyChange{{Name: "b", Kind: diff.Added, NewValue: 1}}, changes)
	})

	t.Run("incompatible kinds are modified test", func(t *testing.T) {
		changes := diff.Diff(
			[]diff.Property{{Name: "v", Value: "1"}},
			[]diff.Property{{Name: "v", Value: 1}},
		)
		require.Len(t, changes, 1)
		assert.Equal(t, diff.Modified, changes[0].Kind)
	})
}

func TestEqual(t *testing.T) {
	address := func(city string) structure {
		return structure{name: "Address", props: []diff.Property{{Name: "city", Value: city}}}
	}

	assert.True(t, diff.Equal(address("Seoul"), address("Seoul")))
	assert.False(t, diff.Equal(address("Seoul"), address("Busan")))
	assert.False(t, diff.Equal(address("Seoul"), structure{name: "Place", props: address("Seoul").props}))
	assert.False(t, diff.Equal(address("Seoul"), map[string]interface{}{"city": "Seoul"}))

	changes := diff.Diff(
		[]diff.Property{{Name: "home", Value: address("Seoul")}},
		[]diff.Property{{Name: "home", Value: address("Busan")}},
	)
	require.Len(t, changes, 1)
	assert.Equal(t, `~ home: Address{...} -> Address{...}`, changes[0].String())
}

func TestFromNode(t *testing.T) {
	doc, err := tree.DecodeObject([]byte(`{"_id":"a","_rev":"1-x","name":"n","age":3}`))
	require.NoError(t, err)

	props := diff.FromObject(doc)
	require.Len(t, props, 2)
	assert.Equal(t, "age", props[0].Name)
	assert.Equal(t, "name", props[1].Name)

	assert.Equal(t, []diff.Property{{Name: "age", Value: 3}}, diff.FromNode("age", 3, true))
	assert.Nil(t, diff.FromNode("age", nil, false))
	assert.Len(t, diff.FromNode("", doc, true), 2)
}

func TestPatch(t *testing.T) {
	patch, err := diff.Patch(
		map[string]interface{}{"name": "a", "tags": []string{"x"}},
		map[string]interface{}{"name": "b", "tags": []string{"x", "y"}},
	)
	require.NoError(t, err)
	require.NotEmpty(t, patch)

	paths := map[string]string{}
	touchedTags := false
	for _, op := range patch {
		paths[op.Path] = op.Type
		if strings.HasPrefix(op.Path, "/tags") {
			touchedTags = true
		}
	}
	assert.Equal(t, "replace", paths["/name"])
	assert.True(t, touchedTags)

	_, err = diff.Patch(map[string]interface{}{"f": func() {}}, nil)
	assert.Error(t, err)
}

func TestPropertyChangeString(t *testing.T) {
	assert.Equal(t, `+ email: "x"`, diff.PropertyChange{Name: "email", Kind: diff.Added, NewValue: "x"}.String())
	assert.Equal(t, `- age: 3`, diff.PropertyChange{Name: "age", Kind: diff.Removed, OldValue: 3}.String())
	assert.Equal(t, "modified", diff.Modified.String())
}
