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

package seed

import (
	"fmt"
	"os"

	"github.com/couchkit/couchkit/pkg/errors"
)

var (
	// ErrInvalidSeedDir occurs when the seed directory is not a directory.
	ErrInvalidSeedDir = errors.InvalidArgument("invalid seed directory").WithCode("ErrInvalidSeedDir")
)

// Config is the configuration of the seed importer.
type Config struct {
	// Dir is the directory to import. Every subdirectory is a database and
	// every JSON file in it is a document named after the file.
	Dir string `yaml:"Dir"`

	// Watch keeps importing files written to the directory after the start.
	Watch bool `yaml:"Watch"`
}

// Validate validates the seed directory.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Dir)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", c.Dir, err, ErrInvalidSeedDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory: %w", c.Dir, ErrInvalidSeedDir)
	}

	return nil
}
