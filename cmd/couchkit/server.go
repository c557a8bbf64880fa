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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchkit/couchkit/server"
	"github.com/couchkit/couchkit/server/logging"
	"github.com/couchkit/couchkit/server/seed"
)

var (
	gracefulTimeout = 10 * time.Second
)

var (
	flagConfPath string
	flagLogLevel string

	rpcReadTimeout       time.Duration
	sessionTokenDuration time.Duration

	seedDir   string
	seedWatch bool

	conf = server.NewConfig()
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "server [options]",
		Aliases: []string{"serve"},
		Short:   "Start the store server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.RPC.ReadTimeout = rpcReadTimeout.String()
			conf.Backend.SessionTokenDuration = sessionTokenDuration.String()

			if seedDir != "" {
				conf.Seed = &seed.Config{Dir: seedDir, Watch: seedWatch}
			}

			// If config file is given, command-line arguments will be overwritten.
			if flagConfPath != "" {
				parsed, err := server.NewConfigFromFile(flagConfPath)
				if err != nil {
					return err
				}
				conf = parsed
			}

			if err := logging.SetLogLevel(flagLogLevel); err != nil {
				return err
			}

			c, err := server.New(conf)
			if err != nil {
				return err
			}

			if err := c.Start(); err != nil {
				return err
			}

			if code := handleSignal(c); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}

			return nil
		},
	}
}

func handleSignal(c *server.Couchkit) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case s := <-sigCh:
		sig = s
	case <-c.ShutdownCh():
		// already shut down
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	gracefulCh := make(chan struct{})
	go func() {
		if err := c.Shutdown(graceful); err != nil {
			return
		}
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-time.After(gracefulTimeout):
		return 1
	case <-gracefulCh:
		return 0
	}
}

func init() {
	cmd := newServerCmd()
	cmd.Flags().StringVarP(
		&flagConfPath,
		"config",
		"c",
		"",
		"Config path",
	)
	cmd.Flags().StringVarP(
		&flagLogLevel,
		"log-level",
		"l",
		"info",
		"Log level: debug, info, warn, error, panic, fatal",
	)
	cmd.Flags().IntVar(
		&conf.RPC.Port,
		"rpc-port",
		server.DefaultRPCPort,
		"RPC port",
	)
	cmd.Flags().StringVar(
		&conf.RPC.CertFile,
		"rpc-cert-file",
		"",
		"RPC certification file's path",
	)
	cmd.Flags().StringVar(
		&conf.RPC.KeyFile,
		"rpc-key-file",
		"",
		"RPC key file's path",
	)
	cmd.Flags().DurationVar(
		&rpcReadTimeout,
		"rpc-read-timeout",
		server.DefaultRPCReadTimeout,
		"RPC read timeout",
	)
	cmd.Flags().Int64Var(
		&conf.RPC.MaxRequestBytes,
		"rpc-max-requests-bytes",
		server.DefaultRPCMaxRequestBytes,
		"Maximum request body size in bytes",
	)
	cmd.Flags().IntVar(
		&conf.Profiling.Port,
		"profiling-port",
		server.DefaultProfilingPort,
		"Profiling port",
	)
	cmd.Flags().BoolVar(
		&conf.Profiling.EnablePprof,
		"enable-pprof",
		false,
		"Enable runtime profiling data via HTTP server.",
	)
	cmd.Flags().StringVar(
		&conf.Backend.AdminUser,
		"admin-user",
		server.DefaultAdminUser,
		"Name of the admin user",
	)
	cmd.Flags().StringVar(
		&conf.Backend.AdminPassword,
		"admin-password",
		server.DefaultAdminPassword,
		"Password of the admin user",
	)
	cmd.Flags().StringVar(
		&conf.Backend.SecretKey,
		"secret-key",
		server.DefaultSecretKey,
		"Secret key signing session tokens",
	)
	cmd.Flags().DurationVar(
		&sessionTokenDuration,
		"session-token-duration",
		server.DefaultSessionTokenDuration,
		"Lifetime of session tokens",
	)
	cmd.Flags().BoolVar(
		&conf.Backend.RequireAuth,
		"require-auth",
		server.DefaultRequireAuth,
		"Reject anonymous requests",
	)
	cmd.Flags().StringVar(
		&conf.Backend.Hostname,
		"hostname",
		server.DefaultHostname,
		"Hostname of the server in logs and metrics",
	)
	cmd.Flags().StringVar(
		&seedDir,
		"seed-dir",
		"",
		"Directory of JSON documents imported at start",
	)
	cmd.Flags().BoolVar(
		&seedWatch,
		"seed-watch",
		false,
		"Import seed files again when they change",
	)

	rootCmd.AddCommand(cmd)
}
