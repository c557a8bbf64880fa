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

package types

// ErrorResponse is the body the store answers with when a request fails.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Error kinds reported by the store in ErrorResponse.
const (
	ErrorNotFound           = "not_found"
	ErrorConflict           = "conflict"
	ErrorFileExists         = "file_exists"
	ErrorBadRequest         = "bad_request"
	ErrorUnauthorized       = "unauthorized"
	ErrorForbidden          = "forbidden"
	ErrorIllegalDBName      = "illegal_database_name"
	ErrorInternal           = "internal_server_error"
	ReasonDeleted           = "deleted"
	ReasonMissing           = "missing"
	ReasonDatabaseMissing   = "Database does not exist."
	ReasonDocumentConflict  = "Document update conflict."
	ReasonDatabaseExists    = "The database could not be created, the file already exists."
	ReasonNameOrPassword    = "Name or password is incorrect."
	ReasonAuthRequired      = "You are not authorized to access this db."
	ReasonInvalidCollection = "Name must begin with a letter and only contain lowercase letters, digits and _$()+-/."
)
