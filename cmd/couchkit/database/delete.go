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

	"github.com/couchkit/couchkit/cmd/couchkit/config"
)

var force bool

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a database and all of its documents",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("database name is required")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("deleting a database drops its documents, confirm with --force")
			}

			db, err := config.Database(args[0])
			if err != nil {
				return err
			}
			if err := db.Drop(contextOf(cmd)); err != nil {
				return err
			}

			cmd.Printf("deleted %s\n", db.Name())
			return nil
		},
	}
}

func init() {
	cmd := newDeleteCommand()
	cmd.Flags().BoolVar(
		&force,
		"force",
		false,
		"Confirm the deletion",
	)
	SubCmd.AddCommand(cmd)
}
