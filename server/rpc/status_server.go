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
	"context"
	"net/http"
	"strconv"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/pkg/errors"
	"github.com/couchkit/couchkit/server/backend/database"
	"github.com/couchkit/couchkit/server/rpc/httphelper"
)

// statsGroup is the group of the statistics this server reports.
const statsGroup = "couchkit"

// activeTasks lists the running tasks. Writes are applied in the request, so
// there are never any.
func (s *couchServer) activeTasks(w http.ResponseWriter, _ *http.Request) error {
	httphelper.WriteJSON(w, http.StatusOK, []types.ActiveTask{})
	return nil
}

// dbUpdates reports every database with its update sequence.
func (s *couchServer) dbUpdates(w http.ResponseWriter, r *http.Request) error {
	infos, err := s.databaseInfos(r.Context())
	if err != nil {
		return err
	}

	var lastSeq int64
	resp := types.DBUpdatesResponse{Results: make([]types.DBUpdate, 0, len(infos))}
	for _, info := range infos {
		kind := types.DBUpdated
		if info.UpdateSeq == 0 {
			kind = types.DBCreated
		}
		resp.Results = append(resp.Results, types.DBUpdate{
			DBName: info.Name,
			Type:   kind,
			Seq:    strconv.FormatInt(info.UpdateSeq, 10),
		})
		lastSeq += info.UpdateSeq
	}
	resp.LastSeq = strconv.FormatInt(lastSeq, 10)

	httphelper.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// stats reports the counters of all databases.
func (s *couchServer) stats(w http.ResponseWriter, r *http.Request) error {
	infos, err := s.databaseInfos(r.Context())
	if err != nil {
		return err
	}

	var docs, deleted, updates int64
	for _, info := range infos {
		docs += info.DocCount
		deleted += info.DocDelCount
		updates += info.UpdateSeq
	}

	httphelper.WriteJSON(w, http.StatusOK, map[string]map[string]types.StatValue{
		statsGroup: {
			"databases": {
				Value: float64(len(infos)),
				Type:  "gauge",
				Desc:  "number of databases",
			},
			"documents": {
				Value: float64(docs),
				Type:  "gauge",
				Desc:  "number of live documents",
			},
			"deleted_documents": {
				Value: float64(deleted),
				Type:  "gauge",
				Desc:  "number of deleted documents",
			},
			"document_writes": {
				Value: float64(updates),
				Type:  "counter",
				Desc:  "number of document writes",
			},
		},
	})
	return nil
}

// databaseInfos returns the counters of all databases. Databases dropped
// while listing are skipped.
func (s *couchServer) databaseInfos(ctx context.Context) ([]*database.DBInfo, error) {
	names, err := s.backend.DB.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]*database.DBInfo, 0, len(names))
	for _, name := range names {
		info, err := s.backend.DB.FindDatabase(ctx, name)
		if errors.Is(err, database.ErrDatabaseNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
