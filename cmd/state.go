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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uwu-tools/gh-issue-client/github"
)

var openCmd = &cobra.Command{
	Use:   "open <number>",
	Short: "Make sure an issue is open",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setState(cmd, args[0], func(ctx context.Context, issue *github.Smart) error {
			return issue.Open(ctx)
		})
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <number>",
	Short: "Make sure an issue is closed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setState(cmd, args[0], func(ctx context.Context, issue *github.Smart) error {
			return issue.Close(ctx)
		})
	},
}

func setState(cmd *cobra.Command, arg string, change func(context.Context, *github.Smart) error) error {
	number, err := issueArg(arg)
	if err != nil {
		return err
	}

	cfg, gh, err := newClient(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	issue := github.NewSmart(repoIssues(cfg, gh).Get(number))
	if err := change(ctx, issue); err != nil {
		return fmt.Errorf("changing state of %s: %w", issue, err)
	}

	state, err := issue.State(ctx)
	if err != nil {
		return fmt.Errorf("reading state back: %w", err)
	}
	fmt.Printf("%s is now %s\n", issue, state)

	return nil
}

func init() {
	RootCmd.AddCommand(openCmd)
	RootCmd.AddCommand(closeCmd)
}
