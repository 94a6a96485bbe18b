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
)

var createBody string

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Open a new issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, gh, err := newClient(cmd)
		if err != nil {
			return err
		}

		issue, err := repoIssues(cfg, gh).Create(cmd.Context(), args[0], createBody)
		if err != nil {
			return fmt.Errorf("creating issue: %w", err)
		}

		fmt.Printf("created %s\n", issue)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(
		&createBody,
		"body",
		"b",
		"",
		"body text of the new issue",
	)
	RootCmd.AddCommand(createCmd)
}
