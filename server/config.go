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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchkit/couchkit/server/backend"
	"github.com/couchkit/couchkit/server/profiling"
	"github.com/couchkit/couchkit/server/rpc"
	"github.com/couchkit/couchkit/server/seed"
)

// Below are the values of the default values of Couchkit config.
const (
	DefaultRPCPort            = 5984
	DefaultRPCReadTimeout     = 30 * time.Second
	DefaultRPCMaxRequestBytes = 8 * 1024 * 1024

	DefaultProfilingPort = 5985

	DefaultAdminUser            = "admin"
	DefaultAdminPassword        = "admin"
	DefaultSecretKey            = "couchkit-secret"
	DefaultSessionTokenDuration = 10 * time.Minute
	DefaultRequireAuth          = false

	DefaultHostname = ""
)

// Config is the configuration for creating a Couchkit instance.
type Config struct {
	RPC       *rpc.Config       `yaml:"RPC"`
	Profiling *profiling.Config `yaml:"Profiling"`
	Backend   *backend.Config   `yaml:"Backend"`
	Seed      *seed.Config      `yaml:"Seed"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return newConfig(DefaultRPCPort, DefaultProfilingPort)
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// RPCAddr returns the RPC address.
func (c *Config) RPCAddr() string {
	return fmt.Sprintf("localhost:%d", c.RPC.Port)
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.RPC.Validate(); err != nil {
		return err
	}

	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	if c.Seed != nil {
		if err := c.Seed.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.RPC == nil {
		c.RPC = &rpc.Config{}
	}
	if c.RPC.Port == 0 {
		c.RPC.Port = DefaultRPCPort
	}
	if c.RPC.ReadTimeout == "" {
		c.RPC.ReadTimeout = DefaultRPCReadTimeout.String()
	}
	if c.RPC.MaxRequestBytes == 0 {
		c.RPC.MaxRequestBytes = DefaultRPCMaxRequestBytes
	}

	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.Backend == nil {
		c.Backend = &backend.Config{}
	}
	if c.Backend.AdminUser == "" {
		c.Backend.AdminUser = DefaultAdminUser
	}
	if c.Backend.AdminPassword == "" {
		c.Backend.AdminPassword = DefaultAdminPassword
	}
	if c.Backend.SecretKey == "" {
		c.Backend.SecretKey = DefaultSecretKey
	}
	if c.Backend.SessionTokenDuration == "" {
		c.Backend.SessionTokenDuration = DefaultSessionTokenDuration.String()
	}

	if c.Seed != nil && c.Seed.Dir == "" {
		c.Seed = nil
	}
}

func newConfig(port int, profilingPort int) *Config {
	return &Config{
		RPC: &rpc.Config{
			Port:            port,
			ReadTimeout:     DefaultRPCReadTimeout.String(),
			MaxRequestBytes: DefaultRPCMaxRequestBytes,
		},
		Profiling: &profiling.Config{
			Port: profilingPort,
		},
		Backend: &backend.Config{
			AdminUser:            DefaultAdminUser,
			AdminPassword:        DefaultAdminPassword,
			SecretKey:            DefaultSecretKey,
			SessionTokenDuration: DefaultSessionTokenDuration.String(),
			RequireAuth:          DefaultRequireAuth,
			Hostname:             DefaultHostname,
		},
	}
}
