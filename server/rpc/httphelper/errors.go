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

// Package httphelper provides helper functions for the HTTP API of the store.
package httphelper

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/internal/validation"
	"github.com/couchkit/couchkit/pkg/auth"
	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/pkg/errors"
	"github.com/couchkit/couchkit/server/backend/database"
	"github.com/couchkit/couchkit/server/logging"
	rpcauth "github.com/couchkit/couchkit/server/rpc/auth"
)

// errorBody is the status and body the store answers with for an error.
type errorBody struct {
	status int
	kind   string
	reason string
}

// errorToBody maps the errors of the server to the error responses of the
// store.
var errorToBody = map[error]errorBody{
	database.ErrDatabaseNotFound: {http.StatusNotFound, types.ErrorNotFound, types.ReasonDatabaseMissing},
	database.ErrDocumentNotFound: {http.StatusNotFound, types.ErrorNotFound, types.ReasonMissing},
	database.ErrDocumentDeleted:  {http.StatusNotFound, types.ErrorNotFound, types.ReasonDeleted},
	database.ErrDatabaseExists:   {http.StatusPreconditionFailed, types.ErrorFileExists, types.ReasonDatabaseExists},
	database.ErrConflict:         {http.StatusConflict, types.ErrorConflict, types.ReasonDocumentConflict},
	database.ErrInvalidRevision:  {http.StatusBadRequest, types.ErrorBadRequest, "Invalid rev format"},

	key.ErrInvalidCollectionName: {http.StatusBadRequest, types.ErrorIllegalDBName, types.ReasonInvalidCollection},
	key.ErrInvalidDocumentID:     {http.StatusBadRequest, types.ErrorBadRequest, "Only reserved document ids may start with underscore."},

	auth.ErrInvalidToken:            {http.StatusUnauthorized, types.ErrorUnauthorized, "Invalid token."},
	auth.ErrUnexpectedSigningMethod: {http.StatusUnauthorized, types.ErrorUnauthorized, "Invalid token."},
	rpcauth.ErrBadCredentials:       {http.StatusUnauthorized, types.ErrorUnauthorized, types.ReasonNameOrPassword},
	rpcauth.ErrAuthRequired:         {http.StatusUnauthorized, types.ErrorUnauthorized, types.ReasonAuthRequired},
	ErrInvalidBody:                  {http.StatusBadRequest, types.ErrorBadRequest, "Request body must be a JSON object"},
}

var (
	// ErrInvalidBody is returned when a request body is not a JSON object.
	ErrInvalidBody = errors.InvalidArgument("invalid body").WithCode("ErrInvalidBody")
)

// ToErrorResponse returns the status and the body of the response for the
// given error.
func ToErrorResponse(err error) (int, types.ErrorResponse) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, types.ErrorResponse{Error: "timeout", Reason: err.Error()}
	}

	for target, body := range errorToBody {
		if errors.Is(err, target) {
			return body.status, types.ErrorResponse{Error: body.kind, Reason: body.reason}
		}
	}

	var structErr *validation.StructError
	if errors.As(err, &structErr) {
		return http.StatusBadRequest, types.ErrorResponse{Error: types.ErrorBadRequest, Reason: structErr.Error()}
	}

	if status := errors.StatusOf(err); status != 0 {
		return status.HTTPStatus(), types.ErrorResponse{Error: errors.CodeOf(err), Reason: err.Error()}
	}

	return http.StatusInternalServerError, types.ErrorResponse{Error: types.ErrorInternal, Reason: err.Error()}
}

// CodeOf returns the HTTP status of the given error as a string.
func CodeOf(err error) string {
	if err == nil {
		return strconv.Itoa(http.StatusOK)
	}
	status, _ := ToErrorResponse(err)
	return strconv.Itoa(status)
}

// WriteJSON writes the value as the JSON body of the response.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(types.ContentTypeKey, types.JSONContentType)
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.DefaultLogger().Warnf("write response: %v", err)
	}
}

// WriteError writes the error response for the given error.
func WriteError(w http.ResponseWriter, err error) int {
	status, body := ToErrorResponse(err)
	WriteJSON(w, status, body)
	return status
}
