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

package client

import (
	"context"

	"github.com/couchkit/couchkit/api/types"
)

// The Async variants run the operation on a new goroutine and call the
// callback exactly once with its result. Callbacks run on that goroutine.

// RetrieveAsync is the asynchronous form of Retrieve.
func (r Reference) RetrieveAsync(ctx context.Context, callback func(*types.DocumentSnapshot, error)) {
	go func() {
		callback(r.Retrieve(ctx))
	}()
}

// CreateAsync is the asynchronous form of Create.
func (r Reference) CreateAsync(ctx context.Context, obj interface{}, callback func(*types.DocumentMeta, error)) {
	go func() {
		callback(r.Create(ctx, obj))
	}()
}

// UpdateAsync is the asynchronous form of Update.
func (r Reference) UpdateAsync(
	ctx context.Context,
	mutator func(node interface{}) (interface{}, error),
	callback func(UpdateOutcome),
) {
	go func() {
		callback(r.Update(ctx, mutator))
	}()
}

// UpdateObjectAsync is the asynchronous form of UpdateObject.
func (r Reference) UpdateObjectAsync(ctx context.Context, obj interface{}, callback func(UpdateOutcome)) {
	go func() {
		callback(r.UpdateObject(ctx, obj))
	}()
}

// UpdateChildValueAsync is the asynchronous form of UpdateChildValue.
func (r Reference) UpdateChildValueAsync(ctx context.Context, value interface{}, callback func(UpdateOutcome)) {
	go func() {
		callback(r.UpdateChildValue(ctx, value))
	}()
}

// RemoveValueAsync is the asynchronous form of RemoveValue.
func (r Reference) RemoveValueAsync(ctx context.Context, callback func(UpdateOutcome)) {
	go func() {
		callback(r.RemoveValue(ctx))
	}()
}

// DeleteAsync is the asynchronous form of Delete.
func (r Reference) DeleteAsync(ctx context.Context, callback func(error)) {
	go func() {
		callback(r.Delete(ctx))
	}()
}
