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

package logging

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RequestLogLevel represents the severity level of a request log.
type RequestLogLevel int

const (
	RequestLogDebug RequestLogLevel = iota
	RequestLogInfo
	RequestLogWarn
	RequestLogError
)

// String returns the string representation of RequestLogLevel.
func (l RequestLogLevel) String() string {
	switch l {
	case RequestLogDebug:
		return "debug"
	case RequestLogInfo:
		return "info"
	case RequestLogError:
		return "error"
	}
	return "warn"
}

// toRequestLogLevel determines the log level of a request from the status
// code of its response.
func toRequestLogLevel(status int, err error) RequestLogLevel {
	if errors.Is(err, context.Canceled) {
		return RequestLogDebug
	}

	switch {
	case status < http.StatusBadRequest:
		return RequestLogDebug
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return RequestLogWarn
	case status < http.StatusInternalServerError:
		// Misses and revision conflicts are part of the normal protocol.
		return RequestLogInfo
	}
	return RequestLogError
}

// LogRequest logs a completed request with the level derived from its status.
func LogRequest(logger Logger, method, path string, status int, duration time.Duration, err error) {
	const template = "HTTP : %s %q %d %s"

	switch toRequestLogLevel(status, err) {
	case RequestLogDebug:
		logger.Debugf(template, method, path, status, duration)
	case RequestLogInfo:
		logger.Infof(template+" => %v", method, path, status, duration, err)
	case RequestLogError:
		logger.Errorf(template+" => %v", method, path, status, duration, err)
	default:
		logger.Warnf(template+" => %v", method, path, status, duration, err)
	}
}
