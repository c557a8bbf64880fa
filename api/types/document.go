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

// Package types provides the types exchanged with the store.
package types

import (
	"encoding/json"
	"fmt"

	"github.com/couchkit/couchkit/pkg/document/path"
)

// DocumentSnapshot is a document, or a node of a document, as read at one
// revision. Snapshots are never updated after they are read.
type DocumentSnapshot struct {
	// ID is the id of the document.
	ID string

	// Revision is the revision the snapshot was read at.
	Revision string

	// Path is the path of Body inside the document.
	Path path.Path

	// Body is the decoded JSON node at Path.
	Body interface{}
}

// Object returns the body as a JSON object, or false if it is not one.
func (s *DocumentSnapshot) Object() (map[string]interface{}, bool) {
	obj, ok := s.Body.(map[string]interface{})
	return obj, ok
}

// Decode decodes the body into v. At the root of a document the store
// metadata is also available as "_id" and "_rev", and as "id" and "rev"
// unless the body defines those members itself.
func (s *DocumentSnapshot) Decode(v interface{}) error {
	body := s.Body
	if obj, ok := s.Object(); ok && s.Path.IsRoot() {
		withMeta := make(map[string]interface{}, len(obj)+2)
		for k, val := range obj {
			withMeta[k] = val
		}
		for _, name := range []string{"id", "_id"} {
			if _, ok := withMeta[name]; !ok {
				withMeta[name] = s.ID
			}
		}
		for _, name := range []string{"rev", "_rev"} {
			if _, ok := withMeta[name]; !ok {
				withMeta[name] = s.Revision
			}
		}
		body = withMeta
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", s.ID, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", s.ID, err)
	}
	return nil
}

// DocumentMeta is the result of a write.
type DocumentMeta struct {
	ID       string   `json:"id"`
	Revision string   `json:"rev"`
	Warnings []string `json:"warnings,omitempty"`
}

// DocumentRow is a row of the document listing of a database.
type DocumentRow struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Revision string `json:"rev"`
}
