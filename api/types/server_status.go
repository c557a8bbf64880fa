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

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// ActiveTask is a task running in the store, such as a compaction or an
// indexer.
type ActiveTask struct {
	Type      string `json:"type"`
	Database  string `json:"database,omitempty"`
	PID       string `json:"pid,omitempty"`
	Progress  int    `json:"progress,omitempty"`
	StartedOn int64  `json:"started_on"`
	UpdatedOn int64  `json:"updated_on"`
}

// DBUpdate is a change of a database reported by the update feed.
type DBUpdate struct {
	DBName string `json:"db_name"`
	Type   string `json:"type"`
	Seq    string `json:"seq,omitempty"`
}

// DBUpdatesResponse is the response of the database update feed.
type DBUpdatesResponse struct {
	Results []DBUpdate `json:"results"`
	LastSeq string     `json:"last_seq,omitempty"`
}

// Types of DBUpdate.
const (
	DBCreated = "created"
	DBUpdated = "updated"
)

// StatValue is a leaf of the statistics of the store.
type StatValue struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
	Desc  string  `json:"desc"`
}

// Stats is the statistics tree of the store as it was sent. Groups nest to
// any depth and end in StatValue objects.
type Stats struct {
	Raw json.RawMessage
}

// Value returns the value of the statistic at the given path of group names,
// e.g. Value("couchkit", "databases").
func (s Stats) Value(names ...string) (float64, bool) {
	result := gjson.GetBytes(s.Raw, strings.Join(append(names, "value"), "."))
	if !result.Exists() {
		return 0, false
	}
	return result.Float(), true
}

// UnmarshalJSON keeps the statistics as sent.
func (s *Stats) UnmarshalJSON(data []byte) error {
	s.Raw = append(s.Raw[:0], data...)
	return nil
}

// MarshalJSON writes the statistics as sent.
func (s Stats) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return []byte("{}"), nil
	}
	return s.Raw, nil
}
