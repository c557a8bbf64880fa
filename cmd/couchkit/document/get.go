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

var getPath string

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get [database] [id]",
		Short:   "Print a document or a node of it",
		Example: `  couchkit document get users alice --path "address.city"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires database and document id")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := referenceOf(args[0], args[1], getPath)
			if err != nil {
				return err
			}

			snapshot, err := ref.Retrieve(contextOf(cmd))
			if err != nil {
				return err
			}

			body := snapshot.Body
			if obj, ok := snapshot.Object(); ok && snapshot.Path.IsRoot() {
				obj["_id"] = snapshot.ID
				obj["_rev"] = snapshot.Revision
				body = obj
			}
			return printValue(cmd, config.Output, body)
		},
	}
}

func init() {
	cmd := newGetCommand()
	cmd.Flags().StringVar(
		&getPath,
		"path",
		"",
		"Path of the node to print, e.g. \"tags[0]\"",
	)
	SubCmd.AddCommand(cmd)
}
