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
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/log"
	"sigs.k8s.io/release-utils/version"

	"github.com/uwu-tools/gh-issue-client/github"
	"github.com/uwu-tools/gh-issue-client/internal/config"
	"github.com/uwu-tools/gh-issue-client/internal/options"
)

var opts = &options.Options{}

// Execute provides a single function to run the root command and handle errors.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// RootCmd represents the command itself and configures it.
var RootCmd = &cobra.Command{
	Use:               "gh-issue [command]",
	Short:             "A typed client for GitHub issues",
	Long:              "Read and update GitHub issues from the command line; see https://github.com/uwu-tools/gh-issue-client",
	PersistentPreRunE: initLogging,
}

func init() {
	RootCmd.PersistentFlags().StringVar(
		&opts.LogLevel,
		options.ConfigKeyLogLevel,
		options.DefaultLogLevelStr,
		fmt.Sprintf("the logging verbosity, either %s", log.LevelNames()),
	)

	RootCmd.PersistentFlags().StringVar(
		&opts.ConfigFile,
		options.ConfigKeyConfigFile,
		options.DefaultConfigFile,
		"viper config file location",
	)

	RootCmd.PersistentFlags().StringVarP(
		&opts.GitHubToken,
		options.ConfigKeyGitHubToken,
		"t",
		"",
		"set the API token used to access the GitHub repo",
	)

	RootCmd.PersistentFlags().StringVarP(
		&opts.RepoName,
		options.ConfigKeyRepoName,
		"r",
		"",
		"set the repository path (should be form owner/repo)",
	)

	RootCmd.PersistentFlags().StringVarP(
		&opts.BaseURI,
		options.ConfigKeyBaseURI,
		"U",
		options.DefaultBaseURI,
		"set the base URI of the GitHub API",
	)

	RootCmd.PersistentFlags().DurationVarP(
		&opts.Timeout,
		options.ConfigKeyTimeout,
		"T",
		options.DefaultTimeout,
		"set the maximum timeout on all API calls",
	)

	RootCmd.PersistentFlags().IntVar(
		&opts.PerPage,
		options.ConfigKeyPerPage,
		options.DefaultPerPage,
		"set the page size used when listing issues",
	)

	RootCmd.AddCommand(version.Version())
}

func initLogging(*cobra.Command, []string) error {
	err := log.SetupGlobalLogger(opts.LogLevel)
	if err != nil {
		return fmt.Errorf("setting up global logger: %w", err)
	}
	return nil
}

// newClient creates the configuration and an API client for a subcommand.
func newClient(cmd *cobra.Command) (*config.Config, github.Github, error) {
	cfg, err := config.New(cmd.Context(), cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("creating new config: %w", err)
	}

	logger := cfg.GetLogger()
	gh, err := github.New(&github.Options{
		Token:   cfg.GetToken(),
		BaseURI: cfg.GetBaseURI(),
		Timeout: cfg.GetTimeout(),
		PerPage: cfg.GetPerPage(),
		Logger:  &logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating GitHub client: %w", err)
	}

	// Keep an interactively entered token for future runs.
	if cfg.GetConfigFile() != "" {
		if err := cfg.SaveConfig(); err != nil {
			logger.WithError(err).Warn("could not save config file")
		}
	}

	return cfg, gh, nil
}

// repoIssues returns the issue collection of the configured repository.
func repoIssues(cfg *config.Config, gh github.Github) github.Issues {
	owner, name := cfg.GetRepo()
	return gh.Repos().Get(owner, name).Issues()
}

// issueArg parses an issue number argument.
func issueArg(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("invalid issue number %q", arg) //nolint:goerr113
	}
	return number, nil
}
