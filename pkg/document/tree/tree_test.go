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

package tree_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchkit/couchkit/pkg/document/path"
	"github.com/couchkit/couchkit/pkg/document/tree"
)

func decode(t *testing.T, data string) interface{} {
	v, err := tree.Decode([]byte(data))
	require.NoError(t, err)
	return v
}

func TestKind(t *testing.T) {
	type address struct{ City string }
	var nilSlice []string

	tests := []struct {
		value interface{}
		kind  tree.Kind
	}{
		{nil, tree.Null},
		{true, tree.Bool},
		{json.Number("1.5"), tree.Number},
		{42, tree.Number},
		{uint8(4), tree.Number},
		{"a", tree.String},
		{[]interface{}{1}, tree.Array},
		{[]string{"a"}, tree.Array},
		{nilSlice, tree.Null},
		{map[string]interface{}{}, tree.Object},
		{map[string]int{}, tree.Object},
		{address{}, tree.Object},
		{&address{}, tree.Object},
		{(*address)(nil), tree.Null},
		{make(chan int), tree.Unknown},
		{complex(1, 2), tree.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tree.KindOf(tt.value))
		})
	}
}

func TestLookup(t *testing.T) {
	doc := decode(t, `{"data":{"age":30,"items":[{"name":"a"},{"name":"b"}]}}`)

	t.Run("resolve test", func(t *testing.T) {
		node, ok, err := tree.Lookup(doc, path.New(path.Key("data"), path.Key("items"), path.Index(1), path.Key("name")))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "b", node)

		node, ok, err = tree.Lookup(doc, path.Root())
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, doc, node)
	})

	t.Run("missing last key test", func(t *testing.T) {
		_, ok, err := tree.Lookup(doc, path.New(path.Key("data"), path.Key("email")))
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unresolvable path test", func(t *testing.T) {
		for _, p := range []path.Path{
			path.New(path.Key("missing"), path.Key("x")),
			path.New(path.Key("data"), path.Key("items"), path.Index(5)),
			path.New(path.Key("data"), path.Key("items"), path.Key("name")),
			path.New(path.Key("data"), path.Index(0)),
			path.New(path.Key("data"), path.Key("age"), path.Key("x")),
		} {
			_, _, err := tree.Lookup(doc, p)
			assert.ErrorIs(t, err, tree.ErrPathNotFound, p.String())
		}
	})
}

func TestSet(t *testing.T) {
	t.Run("same kind replaces test", func(t *testing.T) {
		doc := decode(t, `{"name":"a","age":1,"admin":false,"data":{"x":1}}`)

		doc, err := tree.Set(doc, path.New(path.Key("name")), "b")
		assert.NoError(t, err)
		doc, err = tree.Set(doc, path.New(path.Key("age")), 2)
		assert.NoError(t, err)
		doc, err = tree.Set(doc, path.New(path.Key("admin")), true)
		assert.NoError(t, err)
		doc, err = tree.Set(doc, path.New(path.Key("data")), map[string]interface{}{"y": 2})
		assert.NoError(t, err)

		assert.True(t, tree.Equal(decode(t, `{"name":"b","age":2,"admin":true,"data":{"y":2}}`), doc))
	})

	t.Run("string field given a number test", func(t *testing.T) {
		doc := decode(t, `{"name":"a"}`)
		_, err := tree.Set(doc, path.New(path.Key("name")), 5)
		assert.ErrorIs(t, err, tree.ErrTypeMismatch)
	})

	t.Run("kind mismatches test", func(t *testing.T) {
		doc := decode(t, `{"name":"a","age":1,"tags":[],"data":{}}`)
		tests := []struct {
			key   string
			value interface{}
		}{
			{"age", "1"},
			{"tags", map[string]interface{}{}},
			{"tags", "x"},
			{"data", []interface{}{1}},
			{"name", true},
		}
		for _, tt := range tests {
			_, err := tree.Set(doc, path.New(path.Key(tt.key)), tt.value)
			assert.ErrorIs(t, err, tree.ErrTypeMismatch, tt.key)
		}
	})

	t.Run("array appends test", func(t *testing.T) {
		doc := decode(t, `{"tags":["a"]}`)
		doc, err := tree.Set(doc, path.New(path.Key("tags")), []string{"b", "c"})
		assert.NoError(t, err)
		assert.True(t, tree.Equal(decode(t, `{"tags":["a","b","c"]}`), doc))
	})

	t.Run("null and missing key accept any value test", func(t *testing.T) {
		doc := decode(t, `{"data":{"nick":null}}`)
		doc, err := tree.Set(doc, path.New(path.Key("data"), path.Key("nick")), 3)
		assert.NoError(t, err)
		doc, err = tree.Set(doc, path.New(path.Key("data"), path.Key("email")), "a@b.c")
		assert.NoError(t, err)
		assert.True(t, tree.Equal(decode(t, `{"data":{"nick":3,"email":"a@b.c"}}`), doc))

		_, err = tree.Set(doc, path.New(path.Key("nothing"), path.Key("email")), "x")
		assert.ErrorIs(t, err, tree.ErrPathNotFound)
	})

	t.Run("array element test", func(t *testing.T) {
		doc := decode(t, `{"items":[{"n":1},{"n":2}]}`)
		doc, err := tree.Set(doc, path.New(path.Key("items"), path.Index(1), path.Key("n")), 5)
		assert.NoError(t, err)
		assert.True(t, tree.Equal(decode(t, `{"items":[{"n":1},{"n":5}]}`), doc))

		_, err = tree.Set(doc, path.New(path.Key("items"), path.Index(2)), 5)
		assert.ErrorIs(t, err, tree.ErrPathNotFound)
	})

	t.Run("unsupported value test", func(t *testing.T) {
		doc := decode(t, `{"f":null}`)
		_, err := tree.Set(doc, path.New(path.Key("f")), func() {})
		assert.ErrorIs(t, err, tree.ErrUnsupportedValue)
	})
}

func TestRemove(t *testing.T) {
	t.Run("array element test", func(t *testing.T) {
		doc := decode(t, `{"items":["a","b","c"]}`)
		doc, err := tree.Remove(doc, path.New(path.Key("items"), path.Index(1)))
		assert.NoError(t, err)
		assert.True(t, tree.Equal(decode(t, `{"items":["a","c"]}`), doc))
	})

	t.Run("nested array element test", func(t *testing.T) {
		doc := decode(t, `{"a":{"b":[[1,2],[3]]}}`)
		doc, err := tree.Remove(doc, path.New(path.Key("a"), path.Key("b"), path.Index(0), path.Index(0)))
		assert.NoError(t, err)
		assert.True(t, tree.Equal(decode(t, `{"a":{"b":[[2],[3]]}}`), doc))
	})

	t.Run("object member becomes null test", func(t *testing.T) {
		doc := decode(t, `{"data":{"age":3}}`)
		doc, err := tree.Remove(doc, path.New(path.Key("data"), path.Key("age")))
		assert.NoError(t, err)
		assert.True(t, tree.Equal(decode(t, `{"data":{"age":null}}`), doc))

		_, err = tree.Remove(doc, path.New(path.Key("data"), path.Key("none")))
		assert.ErrorIs(t, err, tree.ErrPathNotFound)
	})

	t.Run("root test", func(t *testing.T) {
		_, err := tree.Remove(decode(t, `{}`), path.Root())
		assert.ErrorIs(t, err, tree.ErrRootRemoval)
	})
}

func TestEqual(t *testing.T) {
	assert.True(t, tree.Equal(json.Number("1"), 1.0))
	assert.True(t, tree.Equal(json.Number("2"), int64(2)))
	assert.False(t, tree.Equal("1", 1))
	assert.False(t, tree.Equal(nil, false))
	assert.True(t, tree.Equal([]string{"a"}, []interface{}{"a"}))
	assert.True(t, tree.Equal(map[string]int{"a": 1}, map[string]interface{}{"a": json.Number("1")}))
	assert.False(t, tree.Equal(map[string]interface{}{"a": 1}, map[string]interface{}{"b": 1}))

	original := decode(t, `{"a":[1,{"b":2}]}`)
	cloned := tree.Clone(original)
	assert.True(t, tree.Equal(original, cloned))
	cloned.(map[string]interface{})["a"].([]interface{})[1].(map[string]interface{})["b"] = 3
	assert.False(t, tree.Equal(original, cloned))
}
