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

// Package main is the entry point of the couchkit CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/couchkit/couchkit/client"
	"github.com/couchkit/couchkit/cmd/couchkit/config"
	"github.com/couchkit/couchkit/cmd/couchkit/database"
	"github.com/couchkit/couchkit/cmd/couchkit/document"
)

var rootCmd = &cobra.Command{
	Use:   "couchkit",
	Short: "Client and server of a revisioned JSON document store",
}

// Run executes CLI.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	return 0
}

func init() {
	rootCmd.AddCommand(database.SubCmd)
	rootCmd.AddCommand(document.SubCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&config.Addr, "addr", client.DefaultAddr, "URL of the store")
	flags.StringVarP(&config.Username, "username", "u", "", "Username for basic auth")
	flags.StringVarP(&config.Password, "password", "p", "", "Password for basic auth")
	flags.StringVar(&config.Token, "token", "", "Bearer token issued by the store")
	flags.StringVar(&config.CertFile, "cert-file", "", "CA certificate to verify the store")
	flags.DurationVar(&config.Timeout, "timeout", 0, "Timeout of every request")
	flags.StringVarP(&config.Output, "output", "o", "", "One of 'yaml' or 'json'.")
}
