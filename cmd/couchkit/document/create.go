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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchkit/couchkit/client"
	"github.com/couchkit/couchkit/cmd/couchkit/config"
	"github.com/couchkit/couchkit/pkg/document/tree"
)

var (
	documentID string
	batch      bool
)

func newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "create [database] [json]",
		Short:   "Create a new document",
		Example: `  couchkit document create users '{"name":"alice"}' --id alice`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires database and document body")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := tree.DecodeObject([]byte(args[1]))
			if err != nil {
				return fmt.Errorf("document body: %w", err)
			}
			if documentID != "" {
				body["_id"] = documentID
			}

			db, err := config.Database(args[0])
			if err != nil {
				return err
			}
			var opts []client.WriteOption
			if batch {
				opts = append(opts, client.WithBatch())
			}
			meta, err := db.CreateDocument(contextOf(cmd), body, opts...)
			if err != nil {
				return err
			}

			return printValue(cmd, config.Output, meta)
		},
	}
}

func init() {
	cmd := newCreateCommand()
	cmd.Flags().StringVar(
		&documentID,
		"id",
		"",
		"Id of the new document, generated by the store when empty",
	)
	cmd.Flags().BoolVar(
		&batch,
		"batch",
		false,
		"Let the store acknowledge the write before committing it",
	)
	SubCmd.AddCommand(cmd)
}
