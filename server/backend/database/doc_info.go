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

package database

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DocInfo is a structure representing a revision of a document.
type DocInfo struct {
	// DB is the name of the database the document belongs to.
	DB string

	// ID is the id of the document.
	ID string

	// Rev is the current revision of the document.
	Rev string

	// Seq is the update sequence of the database when this revision was
	// written.
	Seq int64

	// Deleted is true when this revision is a tombstone.
	Deleted bool

	// Body is the JSON body of the document without the id and the revision.
	Body []byte

	// UpdatedAt is the time when this revision was written.
	UpdatedAt time.Time
}

// DeepCopy returns a deep copy of the DocInfo.
func (i *DocInfo) DeepCopy() *DocInfo {
	if i == nil {
		return nil
	}

	var body []byte
	if i.Body != nil {
		body = make([]byte, len(i.Body))
		copy(body, i.Body)
	}

	return &DocInfo{
		DB:        i.DB,
		ID:        i.ID,
		Rev:       i.Rev,
		Seq:       i.Seq,
		Deleted:   i.Deleted,
		Body:      body,
		UpdatedAt: i.UpdatedAt,
	}
}

// Generation returns the generation of the current revision, 0 for a
// document that has never been written.
func (i *DocInfo) Generation() int {
	if i == nil {
		return 0
	}
	generation, _, err := ParseRevision(i.Rev)
	if err != nil {
		return 0
	}
	return generation
}

// NextRevision returns the revision following the given one for the body.
// Revisions are of the form "<generation>-<md5 hex>".
func NextRevision(prev string, deleted bool, body []byte) string {
	generation := 0
	if prev != "" {
		if g, _, err := ParseRevision(prev); err == nil {
			generation = g
		}
	}

	hash := md5.New()
	_, _ = hash.Write([]byte(prev))
	_, _ = hash.Write([]byte(strconv.FormatBool(deleted)))
	_, _ = hash.Write(body)

	return fmt.Sprintf("%d-%s", generation+1, hex.EncodeToString(hash.Sum(nil)))
}

// ParseRevision splits the revision into its generation and hash.
func ParseRevision(rev string) (int, string, error) {
	gen, hash, ok := strings.Cut(rev, "-")
	if !ok || hash == "" {
		return 0, "", fmt.Errorf("parse revision %q: %w", rev, ErrInvalidRevision)
	}

	generation, err := strconv.Atoi(gen)
	if err != nil || generation < 1 {
		return 0, "", fmt.Errorf("parse revision %q: %w", rev, ErrInvalidRevision)
	}
	return generation, hash, nil
}
