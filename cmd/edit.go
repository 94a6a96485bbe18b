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

var retitleCmd = &cobra.Command{
	Use:   "retitle <number> <title>",
	Short: "Change the title of an issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := issueArg(args[0])
		if err != nil {
			return err
		}

		cfg, gh, err := newClient(cmd)
		if err != nil {
			return err
		}

		issue := github.NewSmart(repoIssues(cfg, gh).Get(number))
		if err := issue.SetTitle(cmd.Context(), args[1]); err != nil {
			return fmt.Errorf("changing title of %s: %w", issue, err)
		}

		fmt.Printf("%s retitled\n", issue)
		return nil
	},
}

var bodyCmd = &cobra.Command{
	Use:   "body <number> <text>",
	Short: "Change the body of an issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := issueArg(args[0])
		if err != nil {
			return err
		}

		cfg, gh, err := newClient(cmd)
		if err != nil {
			return err
		}

		issue := github.NewSmart(repoIssues(cfg, gh).Get(number))
		if err := issue.SetBody(cmd.Context(), args[1]); err != nil {
			return fmt.Errorf("changing body of %s: %w", issue, err)
		}

		fmt.Printf("%s body updated\n", issue)
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <number> <login>",
	Short: "Assign an issue to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := issueArg(args[0])
		if err != nil {
			return err
		}

		cfg, gh, err := newClient(cmd)
		if err != nil {
			return err
		}

		issue := github.NewSmart(repoIssues(cfg, gh).Get(number))
		if err := issue.Assign(cmd.Context(), args[1]); err != nil {
			return fmt.Errorf("assigning %s: %w", issue, err)
		}

		fmt.Printf("%s assigned to %s\n", issue, args[1])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(retitleCmd)
	RootCmd.AddCommand(bodyCmd)
	RootCmd.AddCommand(assignCmd)
}
