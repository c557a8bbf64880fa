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

// DatabaseInfo is the summary of a database.
type DatabaseInfo struct {
	Name         string `json:"db_name" yaml:"name"`
	DocCount     int    `json:"doc_count" yaml:"doc_count"`
	DocDelCount  int    `json:"doc_del_count" yaml:"doc_del_count"`
	UpdateSeq    int64  `json:"update_seq" yaml:"update_seq"`
	InstanceTime int64  `json:"instance_start_time,string" yaml:"instance_start_time"`
}

// ServerInfo is the welcome message of the store.
type ServerInfo struct {
	CouchDB string            `json:"couchdb"`
	Version string            `json:"version"`
	Vendor  map[string]string `json:"vendor,omitempty"`
}

// AllDocsResponse is the document listing of a database.
type AllDocsResponse struct {
	TotalRows int           `json:"total_rows"`
	Offset    int           `json:"offset"`
	Rows      []AllDocsItem `json:"rows"`
}

// AllDocsItem is a row of AllDocsResponse.
type AllDocsItem struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value struct {
		Rev string `json:"rev"`
	} `json:"value"`
}

// UUIDsResponse is the response of the uuid generator of the store.
type UUIDsResponse struct {
	UUIDs []string `json:"uuids"`
}

// WriteResponse is the response of the store to a document write.
type WriteResponse struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev,omitempty"`
}

// SessionResponse is the response of the store to a session login.
type SessionResponse struct {
	OK    bool     `json:"ok"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}
