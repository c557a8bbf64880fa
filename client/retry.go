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
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"
)

// DefaultConflictBackoff is the backoff of RetryOnConflict: five attempts
// ten milliseconds apart, with jitter.
var DefaultConflictBackoff = retry.DefaultRetry

// RetryOnConflict runs the update until it does not fail with a conflict or
// the backoff is exhausted, and returns the last outcome. The update must
// read the document again on every run, as Update does.
func RetryOnConflict(backoff wait.Backoff, update func() UpdateOutcome) UpdateOutcome {
	var outcome UpdateOutcome
	_ = retry.OnError(backoff, func(err error) bool {
		return outcome.IsConflict()
	}, func() error {
		outcome = update()
		if outcome.Kind == OutcomeFailed {
			return outcome.Err
		}
		return nil
	})
	return outcome
}
