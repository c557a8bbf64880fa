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

var retryConflicts bool

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [database] [id] [path] [json]",
		Short: "Assign a JSON value to a node of a document",
		Example: `  couchkit document set users alice age 31
  couchkit document set users alice tags '["new"]'`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 4 {
				return errors.New("requires database, document id, path and value")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := tree.Decode([]byte(args[3]))
			if err != nil {
				return fmt.Errorf("value: %w", err)
			}

			ref, err := referenceOf(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			ctx := contextOf(cmd)
			update := func() client.UpdateOutcome {
				return ref.UpdateChildValue(ctx, value)
			}
			return printOutcome(cmd, config.Output, run(update))
		},
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [database] [id] [path]",
		Short: "Remove a node of a document",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("requires database, document id and path")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := referenceOf(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			ctx := contextOf(cmd)
			update := func() client.UpdateOutcome {
				return ref.RemoveValue(ctx)
			}
			return printOutcome(cmd, config.Output, run(update))
		},
	}
}

// run runs the update, retrying it on conflicts when asked to.
func run(update func() client.UpdateOutcome) client.UpdateOutcome {
	if retryConflicts {
		return client.RetryOnConflict(client.DefaultConflictBackoff, update)
	}
	return update()
}

func init() {
	for _, cmd := range []*cobra.Command{newSetCommand(), newRemoveCommand()} {
		cmd.Flags().BoolVar(
			&retryConflicts,
			"retry",
			false,
			"Read and update the document again on conflicts",
		)
		SubCmd.AddCommand(cmd)
	}
}
