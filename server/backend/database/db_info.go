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

package database

import (
	"time"
)

// DBInfo is a structure representing information of a database.
type DBInfo struct {
	Name        string
	UpdateSeq   int64
	DocCount    int64
	DocDelCount int64
	CreatedAt   time.Time
}

// NewDBInfo creates a new DBInfo of the given name.
func NewDBInfo(name string) *DBInfo {
	return &DBInfo{
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// DeepCopy returns a deep copy of the DBInfo.
func (i *DBInfo) DeepCopy() *DBInfo {
	if i == nil {
		return nil
	}

	return &DBInfo{
		Name:        i.Name,
		UpdateSeq:   i.UpdateSeq,
		DocCount:    i.DocCount,
		DocDelCount: i.DocDelCount,
		CreatedAt:   i.CreatedAt,
	}
}
