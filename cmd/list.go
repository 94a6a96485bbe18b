// Copyright 2023 uwu-tools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uwu-tools/gh-issue-client/github"
)

var listState string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the issues of the configured repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, gh, err := newClient(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		issues, err := repoIssues(cfg, gh).List(ctx, listState)
		if err != nil {
			return fmt.Errorf("listing issues: %w", err)
		}

		for _, issue := range issues {
			title, err := github.NewSmart(issue).Title(ctx)
			if err != nil {
				return fmt.Errorf("reading title: %w", err)
			}
			fmt.Printf("#%-5d %s\n", issue.Number(), title)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(
		&listState,
		"state",
		"s",
		"open",
		"filter by issue state: open, closed or all",
	)
	RootCmd.AddCommand(listCmd)
}
