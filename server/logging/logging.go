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

// Package logging provides logging facilities for the store server.
package logging

import (
	"sync"

	"go.uber.org/zap"

	"github.com/couchkit/couchkit/internal/log"
)

// Logger is a wrapper of zap.SugaredLogger.
type Logger = *zap.SugaredLogger

// Field is a wrapper of zap.Field.
type Field = zap.Field

var defaultLogger Logger
var loggerOnce sync.Once

// SetLogLevel sets the level of every server logger with ["debug", "info",
// "warn", "error", "panic", "fatal"].
func SetLogLevel(level string) error {
	return log.SetLevel(level)
}

// New creates a new logger of the given name.
func New(name string, fields ...Field) Logger {
	logger := log.New(name)
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger.Sugar()
}

// NewField creates a new field with the given key and value.
func NewField(key string, value string) Field {
	return zap.String(key, value)
}

// DefaultLogger returns the default logger of the server.
func DefaultLogger() Logger {
	loggerOnce.Do(func() {
		defaultLogger = New("server")
	})
	return defaultLogger
}
