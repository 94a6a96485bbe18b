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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/uwu-tools/gh-issue-client/github"
)

var showCmd = &cobra.Command{
	Use:   "show <number>",
	Short: "Show the state, title and metadata of one issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := issueArg(args[0])
		if err != nil {
			return err
		}

		cfg, gh, err := newClient(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		issue := github.NewSmart(repoIssues(cfg, gh).Get(number))

		title, err := issue.Title(ctx)
		if err != nil {
			return fmt.Errorf("reading title: %w", err)
		}
		state, err := issue.State(ctx)
		if err != nil {
			return fmt.Errorf("reading state: %w", err)
		}
		author, err := issue.Author(ctx)
		if err != nil {
			return fmt.Errorf("reading author: %w", err)
		}
		created, err := issue.CreatedAt(ctx)
		if err != nil {
			return fmt.Errorf("reading creation time: %w", err)
		}
		link, err := issue.HTMLURL(ctx)
		if err != nil {
			return fmt.Errorf("reading link: %w", err)
		}

		fmt.Printf("%s: %s\n", issue, title)
		fmt.Printf("State:   %s\n", state)
		fmt.Printf("Author:  %s\n", author.Login())
		fmt.Printf("Created: %s\n", created.Format(time.RFC3339))
		fmt.Printf("Link:    %s\n", link)

		if isPull, err := issue.IsPull(ctx); err != nil {
			return fmt.Errorf("checking pull linkage: %w", err)
		} else if isPull {
			pull, err := issue.Pull(ctx)
			if err != nil {
				return fmt.Errorf("resolving pull request: %w", err)
			}
			fmt.Printf("Pull:    #%d\n", pull.Number())
		}

		labels, err := issue.Labels().List(ctx)
		if err != nil {
			return fmt.Errorf("listing labels: %w", err)
		}
		if len(labels) > 0 {
			fmt.Printf("Labels:  %s\n", strings.Join(labels, ", "))
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)
}
