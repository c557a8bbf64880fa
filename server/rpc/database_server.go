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
	"net/http"

	"github.com/rs/xid"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/pkg/document/key"
	"github.com/couchkit/couchkit/server/rpc/httphelper"
)

func (s *couchServer) createDatabase(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}

	if _, err := s.backend.DB.CreateDatabase(r.Context(), name); err != nil {
		return err
	}
	s.backend.RefreshDatabaseCount(r.Context())

	w.Header().Set("Location", "/"+name)
	httphelper.WriteJSON(w, http.StatusCreated, map[string]bool{"ok": true})
	return nil
}

func (s *couchServer) getDatabase(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}

	info, err := s.backend.DB.FindDatabase(r.Context(), name)
	if err != nil {
		return err
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return nil
	}
	httphelper.WriteJSON(w, http.StatusOK, types.DatabaseInfo{
		Name:         info.Name,
		DocCount:     int(info.DocCount),
		DocDelCount:  int(info.DocDelCount),
		UpdateSeq:    info.UpdateSeq,
		InstanceTime: info.CreatedAt.UnixMicro(),
	})
	return nil
}

func (s *couchServer) deleteDatabase(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}

	if err := s.backend.DB.DeleteDatabase(r.Context(), name); err != nil {
		return err
	}
	s.backend.RefreshDatabaseCount(r.Context())

	httphelper.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	return nil
}

func (s *couchServer) allDocs(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}

	infos, err := s.backend.DB.ListDocInfos(r.Context(), name)
	if err != nil {
		return err
	}

	resp := types.AllDocsResponse{TotalRows: len(infos), Rows: make([]types.AllDocsItem, 0, len(infos))}
	for _, info := range infos {
		item := types.AllDocsItem{ID: info.ID, Key: info.ID}
		item.Value.Rev = info.Rev
		resp.Rows = append(resp.Rows, item)
	}

	httphelper.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// postDocument creates a document with the id of the body, or with a
// generated id when the body has none.
func (s *couchServer) postDocument(w http.ResponseWriter, r *http.Request) error {
	name, err := databaseName(r)
	if err != nil {
		return err
	}

	body, id, _, err := s.readDocument(w, r)
	if err != nil {
		return err
	}
	if id == "" {
		id = xid.New().String()
	}
	if err := key.ValidateDocumentID(id); err != nil {
		return err
	}

	return s.writeDocument(w, r, name, id, "", body)
}
