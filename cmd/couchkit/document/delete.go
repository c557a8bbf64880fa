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

package document

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/couchkit/couchkit/cmd/couchkit/config"
)

var revision string

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [database] [id]",
		Short: "Delete a document",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires database and document id")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.Database(args[0])
			if err != nil {
				return err
			}

			ctx := contextOf(cmd)
			if revision == "" {
				if err := db.Reference(args[1]).Delete(ctx); err != nil {
					return err
				}
				cmd.Printf("deleted %s\n", args[1])
				return nil
			}

			meta, err := db.DeleteDocument(ctx, args[1], revision)
			if err != nil {
				return err
			}
			return printValue(cmd, config.Output, meta)
		},
	}
}

func init() {
	cmd := newDeleteCommand()
	cmd.Flags().StringVar(
		&revision,
		"rev",
		"",
		"Revision to delete, the current revision when empty",
	)
	SubCmd.AddCommand(cmd)
}
