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

// StatusError is an error that carries a status and an optional string code.
type StatusError interface {
	error
	Status() StatusCode
	Code() string
	WithCode(code string) StatusError
}

type errorWithStatus struct {
	err    error
	status StatusCode
	code   string
}

// Error returns the error message.
func (e errorWithStatus) Error() string {
	return e.err.Error()
}

// Status returns the status of the error.
func (e errorWithStatus) Status() StatusCode {
	return e.status
}

// Code returns the string code of the error, e.g. "ErrConflict".
func (e errorWithStatus) Code() string {
	return e.code
}

// Unwrap returns the underlying error.
func (e errorWithStatus) Unwrap() error {
	return e.err
}

// WithCode returns a copy of the error with the given code.
func (e errorWithStatus) WithCode(code string) StatusError {
	return errorWithStatus{
		err:    e.err,
		status: e.status,
		code:   code,
	}
}

func newErrorWithStatus(err error, status StatusCode) StatusError {
	return errorWithStatus{err: err, status: status}
}

// New creates a new error with the given status.
func New(message string, status StatusCode) StatusError {
	return newErrorWithStatus(errors.New(message), status)
}

// NotFound creates a new "not found" error.
func NotFound(message string) StatusError {
	return New(message, ErrCodeNotFound)
}

// InvalidArgument creates a new "invalid argument" error.
// Use this when the caller passes a value that can never succeed.
func InvalidArgument(message string) StatusError {
	return New(message, ErrCodeInvalidArgument)
}

// AlreadyExists creates a new "already exists" error.
func AlreadyExists(message string) StatusError {
	return New(message, ErrCodeAlreadyExists)
}

// PermissionDenied creates a new "permission denied" error.
func PermissionDenied(message string) StatusError {
	return New(message, ErrCodePermissionDenied)
}

// FailedPrecond creates a new "failed precondition" error.
// Use this when the operation needs state the caller has not provided yet.
func FailedPrecond(message string) StatusError {
	return New(message, ErrCodeFailedPrecondition)
}

// Aborted creates a new "aborted" error.
// Use this for concurrency failures such as a stale revision.
func Aborted(message string) StatusError {
	return New(message, ErrCodeAborted)
}

// Unauthenticated creates a new "unauthenticated" error.
func Unauthenticated(message string) StatusError {
	return New(message, ErrCodeUnauthenticated)
}

// Internal creates a new "internal" error.
func Internal(message string) StatusError {
	return New(message, ErrCodeInternal)
}

// Unavailable creates a new "unavailable" error.
func Unavailable(message string) StatusError {
	return New(message, ErrCodeUnavailable)
}

// StatusOf returns the status of the first StatusError in the chain of err,
// or 0 when there is none.
func StatusOf(err error) StatusCode {
	if err == nil {
		return 0
	}

	if statusErr, ok := err.(StatusError); ok {
		return statusErr.Status()
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status()
	}

	return 0
}

// CodeOf returns the string code of the first StatusError in the chain of err.
func CodeOf(err error) string {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code()
	}
	return ""
}

// IsStatus checks if the given error has the given status.
func IsStatus(err error, code StatusCode) bool {
	return StatusOf(err) == code
}

// IsClientError checks if the error was caused by the caller.
func IsClientError(err error) bool {
	return StatusOf(err).IsClientError()
}

// IsServerError checks if the error was caused by the store or the network.
func IsServerError(err error) bool {
	return StatusOf(err).IsServerError()
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ErrorInfo is a flattened view of an error, used for logging and CLI output.
type ErrorInfo struct {
	Status       StatusCode
	Code         string
	Message      string
	IsClient     bool
	IsServer     bool
	StatusString string
	Metadata     map[string]string
}

// ErrorInfoOf extracts an ErrorInfo from the given error.
func ErrorInfoOf(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	status := StatusOf(err)
	return ErrorInfo{
		Status:       status,
		Code:         CodeOf(err),
		Message:      err.Error(),
		IsClient:     status.IsClientError(),
		IsServer:     status.IsServerError(),
		StatusString: status.String(),
		Metadata:     Metadata(err),
	}
}
