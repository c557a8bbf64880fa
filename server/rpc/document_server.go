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

package rpc

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tidwall/sjson"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/pkg/errors"
	"github.com/couchkit/couchkit/server/backend/database"
	"github.com/couchkit/couchkit/server/logging"
	"github.com/couchkit/couchkit/server/profiling/prometheus"
	"github.com/couchkit/couchkit/server/rpc/httphelper"
)

func (s *couchServer) getDocument(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}
	id, err := documentID(r)
	if err != nil {
		return err
	}

	info, err := s.backend.DB.FindDocInfo(r.Context(), name, id)
	if err != nil {
		return err
	}

	w.Header().Set("ETag", strconv.Quote(info.Rev))
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return nil
	}

	body, err := sjson.SetBytes(info.Body, idField, info.ID)
	if err != nil {
		return fmt.Errorf("set id of %s: %w", info.ID, err)
	}
	if body, err = sjson.SetBytes(body, revisionField, info.Rev); err != nil {
		return fmt.Errorf("set revision of %s: %w", info.ID, err)
	}

	w.Header().Set(types.ContentTypeKey, types.JSONContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.From(r.Context()).Warnf("write document %s: %v", info.ID, err)
	}
	return nil
}

func (s *couchServer) putDocument(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}
	id, err := documentID(r)
	if err != nil {
		return err
	}

	body, bodyID, bodyRev, err := s.readDocument(w, r)
	if err != nil {
		return err
	}
	if bodyID != "" && bodyID != id {
		return fmt.Errorf("put %s with body of %s: %w", id, bodyID, httphelper.ErrInvalidBody)
	}

	return s.writeDocument(w, r, name, id, revisionOf(r, bodyRev), body)
}

func (s *couchServer) deleteDocument(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}
	id, err := documentID(r)
	if err != nil {
		return err
	}

	info, err := s.backend.DB.DeleteDocInfo(r.Context(), name, id, revisionOf(r, ""))
	if err != nil {
		s.recordConflict(name, err)
		return err
	}
	s.recordWrite(name, prometheus.WriteDeleted)

	w.Header().Set("ETag", strconv.Quote(info.Rev))
	httphelper.WriteJSON(w, http.StatusOK, types.WriteResponse{OK: true, ID: info.ID, Rev: info.Rev})
	return nil
}

// batchOK is the value of the batch query parameter of batched writes.
const batchOK = "ok"

// writeDocument stores the body as the next revision of the document and
// answers with the new revision.
func (s *couchServer) writeDocument(
	w http.ResponseWriter,
	r *http.Request,
	db, id, rev string,
	body []byte,
) error {
	info, err := s.backend.DB.PutDocInfo(r.Context(), db, id, rev, body)
	if err != nil {
		s.recordConflict(db, err)
		return err
	}

	kind := prometheus.WriteUpdated
	if info.Generation() == 1 {
		kind = prometheus.WriteCreated
	}
	s.recordWrite(db, kind)

	// Batched writes are acknowledged without the revision.
	if r.URL.Query().Get("batch") == batchOK {
		httphelper.WriteJSON(w, http.StatusAccepted, types.WriteResponse{OK: true, ID: info.ID})
		return nil
	}

	w.Header().Set("ETag", strconv.Quote(info.Rev))
	httphelper.WriteJSON(w, http.StatusCreated, types.WriteResponse{OK: true, ID: info.ID, Rev: info.Rev})
	return nil
}

func (s *couchServer) recordWrite(db, kind string) {
	if s.backend.Metrics != nil {
		s.backend.Metrics.AddDocumentWrite(db, kind)
	}
}

func (s *couchServer) recordConflict(db string, err error) {
	if errors.Is(err, database.ErrConflict) {
		s.recordWrite(db, prometheus.WriteConflict)
	}
}
