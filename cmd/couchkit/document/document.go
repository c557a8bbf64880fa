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

// Package document provides the commands reading and writing documents.
package document

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchkit/couchkit/client"
	"github.com/couchkit/couchkit/cmd/couchkit/config"
	"github.com/couchkit/couchkit/pkg/document/path"
)

var (
	// SubCmd represents the document command
	SubCmd = &cobra.Command{
		Use:     "document",
		Short:   "Read and write documents",
		Aliases: []string{"doc"},
	}
)

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// referenceOf returns the reference to the node at expr of the document.
func referenceOf(database, id, expr string) (client.Reference, error) {
	db, err := config.Database(database)
	if err != nil {
		return client.Reference{}, err
	}

	p, err := path.Parse(expr)
	if err != nil {
		return client.Reference{}, err
	}
	return db.Reference(id).Child(p.Segments()...), nil
}

// printValue prints a JSON node in the output format.
func printValue(cmd *cobra.Command, output string, value interface{}) error {
	switch output {
	case "", "json":
		jsonOutput, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Println(string(yamlOutput))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}

	return nil
}

// printOutcome prints the result of an update.
func printOutcome(cmd *cobra.Command, output string, outcome client.UpdateOutcome) error {
	switch outcome.Kind {
	case client.OutcomeFailed:
		return outcome.Err
	case client.OutcomeDeleted:
		return fmt.Errorf("update: document deleted: %w", client.ErrDocumentNotFound)
	}

	if output != "" {
		return printValue(cmd, output, outcome.Patch)
	}

	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	tw.AppendHeader(table.Row{"CHANGE"})
	for _, change := range outcome.Changes {
		tw.AppendRow(table.Row{change.String()})
	}
	cmd.Printf("%s\n", tw.Render())
	cmd.Printf("rev: %s\n", outcome.Revision)
	return nil
}
