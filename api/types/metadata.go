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

// AuthorizationKey is the key of the authorization header.
const AuthorizationKey = "Authorization"

// UserAgentKey is the key of the user agent header.
const UserAgentKey = "User-Agent"

// ContentTypeKey is the key of the content type header.
const ContentTypeKey = "Content-Type"

// JSONContentType is the content type of every body exchanged with the store.
const JSONContentType = "application/json"

// SessionCookieName is the name of the cookie holding a session.
const SessionCookieName = "AuthSession"

// GoSDKType is the type part of Go SDK in value of UserAgent.
const GoSDKType = "couchkit-go"
