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

package httphelper

import (
	"net/http"
	"strings"

	"github.com/couchkit/couchkit/api/types"
)

// SDKTypeAndVersion returns the type and version of the SDK from the user
// agent of the request.
func SDKTypeAndVersion(header http.Header) (string, string) {
	userAgent := header.Get(types.UserAgentKey)
	if userAgent == "" {
		return "", ""
	}

	// the type may contain slashes, e.g. "@scope/sdk/1.0.0"
	idx := strings.LastIndex(userAgent, "/")
	if idx <= 0 || idx == len(userAgent)-1 {
		return "", ""
	}

	return userAgent[:idx], userAgent[idx+1:]
}
