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

package backend

import (
	"fmt"
	"time"

	"github.com/couchkit/couchkit/internal/validation"
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// AdminUser is the name of the administrator of the store. Default is
	// "admin".
	AdminUser string `yaml:"AdminUser" validate:"required"`

	// AdminPassword is the password of the administrator. Default is "admin".
	AdminPassword string `yaml:"AdminPassword" validate:"required"`

	// SecretKey is the secret key for signing session cookies and bearer
	// tokens.
	SecretKey string `yaml:"SecretKey" validate:"required"`

	// SessionTokenDuration is the lifetime of a session cookie. Default is
	// "10m".
	SessionTokenDuration string `yaml:"SessionTokenDuration" validate:"required,duration"`

	// RequireAuth rejects anonymous requests when true.
	RequireAuth bool `yaml:"RequireAuth"`

	// Hostname is the hostname of the server. It is used by metrics.
	Hostname string `yaml:"Hostname"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("validate backend config: %w", err)
	}

	return nil
}

// ParseSessionTokenDuration returns the lifetime of a session cookie.
func (c *Config) ParseSessionTokenDuration() (time.Duration, error) {
	result, err := time.ParseDuration(c.SessionTokenDuration)
	if err != nil {
		return 0, fmt.Errorf("parse session token duration %q: %w", c.SessionTokenDuration, err)
	}

	return result, nil
}
