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

package options

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Options struct {
	LogLevel    string
	ConfigFile  string
	GitHubToken string
	RepoName    string
	BaseURI     string
	Timeout     time.Duration
	PerPage     int
}

const (
	AppName = "gh-issue"

	// Application config keys.
	ConfigKeyLogLevel   = "log-level"
	ConfigKeyConfigFile = "config"
	ConfigKeyTimeout    = "timeout"

	// GitHub config keys.
	ConfigKeyRepoName    = "repo-name"
	ConfigKeyGitHubToken = "github-token"
	ConfigKeyBaseURI     = "base-uri"
	ConfigKeyPerPage     = "per-page"

	// Default values
	//
	// DefaultLogLevel is the level logrus should default to if the configured
	// option can't be parsed.
	DefaultLogLevel   = logrus.InfoLevel
	DefaultConfigFile = "$HOME/.gh-issue.json"
	DefaultBaseURI    = "https://api.github.com/"
	DefaultTimeout    = 30 * time.Second
	DefaultPerPage    = 100
)

var DefaultLogLevelStr = DefaultLogLevel.String()
