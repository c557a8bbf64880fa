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

package errors

import (
	"errors"
)

// MetadataError is an error with additional key-value details, e.g. the
// collection names involved in an ownership check.
type MetadataError struct {
	err      error
	metadata map[string]string
}

// Error returns the error message.
func (e MetadataError) Error() string {
	return e.err.Error()
}

// Status returns the status of the underlying error.
func (e MetadataError) Status() StatusCode {
	return StatusOf(e.err)
}

// Unwrap returns the underlying error.
func (e MetadataError) Unwrap() error {
	return e.err
}

// Metadata returns a copy of the metadata.
func (e MetadataError) Metadata() map[string]string {
	result := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		result[k] = v
	}
	return result
}

// WithMetadata wraps err with the given metadata. Metadata already attached
// to err is merged, the new values winning.
func WithMetadata(err error, metadata map[string]string) error {
	if err == nil {
		return nil
	}
	if len(metadata) == 0 {
		return err
	}

	merged := make(map[string]string)
	if metaErr, ok := err.(MetadataError); ok {
		for k, v := range metaErr.metadata {
			merged[k] = v
		}
		err = metaErr.err
	}
	for k, v := range metadata {
		merged[k] = v
	}

	return MetadataError{
		err:      err,
		metadata: merged,
	}
}

// Metadata extracts the metadata of the first MetadataError in the chain.
// It returns nil if there is none.
func Metadata(err error) map[string]string {
	if err == nil {
		return nil
	}

	var metaErr MetadataError
	if errors.As(err, &metaErr) {
		return metaErr.Metadata()
	}

	return nil
}
