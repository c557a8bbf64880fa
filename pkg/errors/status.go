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

// Package errors provides status-coded errors shared by the client, the
// in-process store and the command line tool.
package errors

import (
	"fmt"
	"net/http"
)

// StatusCode classifies an error. The values follow the canonical RPC codes so
// that they stay stable when surfaced to other systems.
type StatusCode int

const (
	// ErrCodeInvalidArgument indicates that the caller specified an invalid
	// argument, regardless of the state of the store.
	ErrCodeInvalidArgument StatusCode = 3

	// ErrCodeNotFound indicates that a database or a document does not exist.
	ErrCodeNotFound StatusCode = 5

	// ErrCodeAlreadyExists indicates that the entity the caller attempted to
	// create already exists.
	ErrCodeAlreadyExists StatusCode = 6

	// ErrCodePermissionDenied indicates that the caller is not allowed to
	// execute the operation.
	ErrCodePermissionDenied StatusCode = 7

	// ErrCodeFailedPrecondition indicates that the operation was rejected
	// because required state is missing.
	ErrCodeFailedPrecondition StatusCode = 9

	// ErrCodeAborted indicates a concurrency failure, typically a revision
	// conflict. The caller may retry the whole operation.
	ErrCodeAborted StatusCode = 10

	// ErrCodeInternal indicates a broken invariant in the store or the client.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable indicates that the store could not be reached.
	ErrCodeUnavailable StatusCode = 14

	// ErrCodeUnauthenticated indicates missing or invalid credentials.
	ErrCodeUnauthenticated StatusCode = 16
)

// String returns the string representation of the code.
func (c StatusCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeAlreadyExists:
		return "already_exists"
	case ErrCodePermissionDenied:
		return "permission_denied"
	case ErrCodeFailedPrecondition:
		return "failed_precondition"
	case ErrCodeAborted:
		return "aborted"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeUnavailable:
		return "unavailable"
	case ErrCodeUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// IsClientError returns true if the code represents a caller-side error.
func (c StatusCode) IsClientError() bool {
	switch c {
	case ErrCodeInvalidArgument, ErrCodeNotFound, ErrCodeAlreadyExists,
		ErrCodePermissionDenied, ErrCodeFailedPrecondition, ErrCodeAborted,
		ErrCodeUnauthenticated:
		return true
	default:
		return false
	}
}

// IsServerError returns true if the code represents a store-side error.
func (c StatusCode) IsServerError() bool {
	switch c {
	case ErrCodeInternal, ErrCodeUnavailable:
		return true
	default:
		return false
	}
}

// HTTPStatus returns the HTTP status the store answers with for this code.
func (c StatusCode) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeAborted:
		return http.StatusConflict
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// StatusFromHTTP maps an HTTP status answered by the store to a code.
// It returns 0 for success statuses.
func StatusFromHTTP(status int) StatusCode {
	switch {
	case status < http.StatusBadRequest:
		return 0
	case status == http.StatusBadRequest:
		return ErrCodeInvalidArgument
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthenticated
	case status == http.StatusForbidden:
		return ErrCodePermissionDenied
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeAborted
	case status == http.StatusPreconditionFailed:
		return ErrCodeAlreadyExists
	case status == http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}
