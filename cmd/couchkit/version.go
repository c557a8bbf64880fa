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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/cmd/couchkit/config"
	"github.com/couchkit/couchkit/internal/version"
)

var (
	clientOnly bool
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the version number of couchkit",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			versionInfo := types.VersionInfo{ClientVersion: clientVersion()}

			var serverErr error
			if !clientOnly {
				versionInfo.ServerVersion, serverErr = serverVersion(cmd.Context())
			}

			switch config.Output {
			case "":
				cmd.Printf("Couchkit Client: %s\n", versionInfo.ClientVersion.Version)
				cmd.Printf("Go: %s\n", versionInfo.ClientVersion.GoVersion)
				cmd.Printf("Build Date: %s\n", versionInfo.ClientVersion.BuildDate)
				if versionInfo.ServerVersion != nil {
					cmd.Printf("Server: %s %s\n", versionInfo.ServerVersion.Vendor, versionInfo.ServerVersion.Version)
				}
			case "yaml":
				marshalled, err := yaml.Marshal(&versionInfo)
				if err != nil {
					return errors.New("failed to marshal YAML")
				}
				cmd.Println(string(marshalled))
			case "json":
				marshalled, err := json.MarshalIndent(&versionInfo, "", "  ")
				if err != nil {
					return errors.New("failed to marshal JSON")
				}
				cmd.Println(string(marshalled))
			}

			if serverErr != nil {
				cmd.Printf("Error fetching server version: %v\n", serverErr)
			}

			return nil
		},
	}
}

func clientVersion() *types.VersionDetail {
	return &types.VersionDetail{
		Version:   version.Version,
		GoVersion: runtime.Version(),
		BuildDate: version.BuildDate,
	}
}

func serverVersion(ctx context.Context) (*types.VersionDetail, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cli, _, err := config.Dial()
	if err != nil {
		return nil, err
	}
	info, err := cli.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("ping %s: %w", config.Addr, err)
	}

	return &types.VersionDetail{
		Version: info.Version,
		Vendor:  info.Vendor["name"],
	}, nil
}

func init() {
	cmd := newVersionCmd()
	cmd.Flags().BoolVar(
		&clientOnly,
		"client",
		clientOnly,
		"Shows client version only. (no server required)",
	)

	rootCmd.AddCommand(cmd)
}
