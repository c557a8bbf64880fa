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
	"errors"

	"github.com/spf13/cobra"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/cmd/couchkit/config"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [name]",
		Short: "Show the information of a database",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("too many arguments")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.Database(nameOf(args))
			if err != nil {
				return err
			}

			info, err := db.Info(contextOf(cmd))
			if err != nil {
				return err
			}

			return printInfos(cmd, config.Output, []*types.DatabaseInfo{info})
		},
	}
}

func init() {
	SubCmd.AddCommand(newInfoCommand())
}
