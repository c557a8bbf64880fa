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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchkit/couchkit/cmd/couchkit/config"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [database]",
		Short: "List all documents of the database",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("too many arguments")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			db, err := config.Database(name)
			if err != nil {
				return err
			}

			rows, err := db.AllDocs(contextOf(cmd))
			if err != nil {
				return err
			}

			if config.Output != "" {
				return printValue(cmd, config.Output, rows)
			}

			tw := table.NewWriter()
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateColumns = false
			tw.Style().Options.SeparateFooter = false
			tw.Style().Options.SeparateHeader = false
			tw.Style().Options.SeparateRows = false
			tw.AppendHeader(table.Row{"ID", "REV"})
			for _, row := range rows {
				tw.AppendRow(table.Row{row.ID, row.Revision})
			}
			cmd.Printf("%s\n", tw.Render())
			cmd.Printf("%d documents\n", len(rows))
			return nil
		},
	}
}

func init() {
	SubCmd.AddCommand(newListCommand())
}
