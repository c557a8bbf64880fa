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

// Package key provides the addressing of documents in the store: the
// collection (database) a document lives in and the document id.
package key

import (
	"fmt"
	"strings"

	"github.com/couchkit/couchkit/internal/validation"
	"github.com/couchkit/couchkit/pkg/errors"
)

// Splitter separates the collection and the document in a combined key.
// Collection names cannot contain it, so the first occurrence always ends the
// collection part.
const Splitter = ":"

var (
	// ErrInvalidCombinedKey is returned when the given combined key is invalid.
	ErrInvalidCombinedKey = errors.InvalidArgument("invalid combined key").WithCode("ErrInvalidCombinedKey")

	// ErrInvalidCollectionName is returned when a collection name does not
	// follow the naming rule of the store.
	ErrInvalidCollectionName = errors.InvalidArgument(
		"invalid collection name",
	).WithCode("ErrInvalidCollectionName")

	// ErrInvalidDocumentID is returned when a document id is empty or uses a
	// reserved prefix.
	ErrInvalidDocumentID = errors.InvalidArgument("invalid document id").WithCode("ErrInvalidDocumentID")
)

// Key represents the location of a document.
type Key struct {
	Collection string
	Document   string
}

// FromCombinedKey creates an instance of Key from the given combined key,
// e.g. "users:alice".
func FromCombinedKey(k string) (Key, error) {
	collection, document, ok := strings.Cut(k, Splitter)
	if !ok || collection == "" || document == "" {
		return Key{}, fmt.Errorf("%s: %w", k, ErrInvalidCombinedKey)
	}

	key := Key{Collection: collection, Document: document}
	if err := key.Validate(); err != nil {
		return Key{}, err
	}
	return key, nil
}

// CombinedKey returns the string of this key.
func (k Key) CombinedKey() string {
	return k.Collection + Splitter + k.Document
}

// Validate checks both parts of the key.
func (k Key) Validate() error {
	if _, err := NormalizeCollection(k.Collection); err != nil {
		return err
	}
	return ValidateDocumentID(k.Document)
}

// NormalizeCollection validates the given collection name and returns the
// normalized name.
func NormalizeCollection(name string) (string, error) {
	normalized, ok := validation.CollectionName(name)
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidCollectionName)
	}
	return normalized, nil
}

// ValidateDocumentID validates the given document id.
func ValidateDocumentID(id string) error {
	if err := validation.ValidateValue(id, "document_id"); err != nil {
		return fmt.Errorf("%q: %w", id, ErrInvalidDocumentID)
	}
	return nil
}
