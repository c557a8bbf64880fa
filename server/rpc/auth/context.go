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

package auth

import (
	"context"
)

// User is the authenticated user of a request.
type User struct {
	Name  string
	Roles []string
}

// IsAdmin returns whether the user has the administrator role.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		if role == AdminRole {
			return true
		}
	}
	return false
}

// userKey is the key of the user in context.Context.
type userKey struct{}

// With returns a new context with the given user.
func With(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// From returns the user of the context, or nil for an anonymous request.
func From(ctx context.Context) *User {
	user, _ := ctx.Value(userKey{}).(*User)
	return user
}
