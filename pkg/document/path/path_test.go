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

package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchkit/couchkit/pkg/document/path"
)

func TestPath(t *testing.T) {
	t.Run("append and parent test", func(t *testing.T) {
		p := path.New(path.Key("data"))
		child := p.Append(path.Key("items"), path.Index(2))
		assert.Equal(t, 1, p.Len())
		assert.Equal(t, 3, child.Len())

		parent, ok := child.Parent()
		assert.True(t, ok)
		assert.True(t, parent.Equal(p.Append(path.Key("items"))))

		for i := 0; i < 5; i++ {
			assert.True(t, child.Append(path.Key("name")).Equal(child.Append(path.Key("name"))))
		}
		last, ok := child.Append(path.Key("name")).Last()
		assert.True(t, ok)
		assert.Equal(t, "name", last.Key())
	})

	t.Run("appending to a parent does not alias the child test", func(t *testing.T) {
		child := path.New(path.Key("a"), path.Key("b"))
		parent, _ := child.Parent()
		sibling := parent.Append(path.Key("c"))

		assert.Equal(t, "a.b", child.String())
		assert.Equal(t, "a.c", sibling.String())
	})

	t.Run("root test", func(t *testing.T) {
		root := path.Root()
		assert.True(t, root.IsRoot())
		_, ok := root.Parent()
		assert.False(t, ok)
		_, ok = root.Last()
		assert.False(t, ok)

		p := path.New(path.Key("a"), path.Index(1))
		assert.True(t, p.Root().Equal(root))
		assert.True(t, p.Root().Root().Equal(p.Root()))
	})

	t.Run("equal test", func(t *testing.T) {
		assert.False(t, path.New(path.Key("1")).Equal(path.New(path.Index(1))))
		assert.False(t, path.New(path.Key("a")).Equal(path.New(path.Key("a"), path.Key("b"))))
		assert.True(t, path.New().Equal(path.Root()))
	})

	t.Run("render test", func(t *testing.T) {
		p := path.New(path.Key("data"), path.Key("items"), path.Index(2), path.Key("a/b~c"))
		assert.Equal(t, "data.items[2].a/b~c", p.String())
		assert.Equal(t, "/data/items/2/a~1b~0c", p.Pointer())
		assert.Equal(t, "", path.Root().String())
		assert.Equal(t, "", path.Root().Pointer())
	})
}

func TestParse(t *testing.T) {
	t.Run("valid expressions test", func(t *testing.T) {
		tests := []struct {
			expr string
			want path.Path
		}{
			{"", path.Root()},
			{"age", path.New(path.Key("age"))},
			{"data.age", path.New(path.Key("data"), path.Key("age"))},
			{"items[2]", path.New(path.Key("items"), path.Index(2))},
			{"matrix[1][0].v", path.New(path.Key("matrix"), path.Index(1), path.Index(0), path.Key("v"))},
			{"[0].name", path.New(path.Index(0), path.Key("name"))},
		}
		for _, tt := range tests {
			t.Run(tt.expr, func(t *testing.T) {
				p, err := path.Parse(tt.expr)
				assert.NoError(t, err)
				assert.True(t, tt.want.Equal(p), p.String())
				assert.Equal(t, tt.expr, p.String())
			})
		}
	})

	t.Run("invalid expressions test", func(t *testing.T) {
		for _, expr := range []string{".a", "a.", "a..b", "a[", "a[]", "a[x]", "a[-1]", "a[0]b", "a]", "a[0]["} {
			_, err := path.Parse(expr)
			assert.ErrorIs(t, err, path.ErrInvalidPath, expr)
		}
	})
}
