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

package database

import (
	"github.com/spf13/cobra"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/cmd/couchkit/config"
)

var withInfo bool

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Short:   "List all databases of the store",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, _, err := config.Dial()
			if err != nil {
				return err
			}

			ctx := contextOf(cmd)
			names, err := cli.AllDatabases(ctx)
			if err != nil {
				return err
			}

			infos := make([]*types.DatabaseInfo, 0, len(names))
			for _, name := range names {
				if !withInfo {
					infos = append(infos, &types.DatabaseInfo{Name: name})
					continue
				}

				db, err := cli.Database(name)
				if err != nil {
					return err
				}
				info, err := db.Info(ctx)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}

			return printInfos(cmd, config.Output, infos)
		},
	}
}

func init() {
	cmd := newListCommand()
	cmd.Flags().BoolVar(
		&withInfo,
		"info",
		false,
		"Fetch the document counts of every database",
	)
	SubCmd.AddCommand(cmd)
}
