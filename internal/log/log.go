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

// Package log provides the loggers used by couchkit.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the default logger used by couchkit.
var Logger *zap.SugaredLogger

var (
	rawLogger *zap.Logger
	level     = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func init() {
	rawLogger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(os.Stdout),
		level,
	))

	Logger = rawLogger.Sugar()
}

// New returns a logger named after the given component. It shares the level
// of the default logger.
func New(name string) *zap.Logger {
	return rawLogger.Named(name)
}

// SetLevel changes the level of every logger created by this package.
// Accepted values are debug, info, warn, error, panic and fatal.
func SetLevel(l string) error {
	var parsed zapcore.Level
	if err := parsed.UnmarshalText([]byte(l)); err != nil {
		return fmt.Errorf("parse log level %q: %w", l, err)
	}
	level.SetLevel(parsed)
	return nil
}
