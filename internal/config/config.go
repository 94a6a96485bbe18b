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

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/uwu-tools/gh-issue-client/internal/options"
)

// Config is the root configuration object the application creates.
//
//nolint:govet
type Config struct {
	// cmdFile is the file Viper is using for its configuration (default $HOME/.gh-issue.json).
	cmdFile string

	// cmdConfig is the Viper configuration object created from the command line and config file.
	cmdConfig viper.Viper

	// ctx carries a deadline, a cancellation signal, and other values across
	// API boundaries.
	ctx context.Context

	// log is a logger set up with the configured log level, app name, etc.
	log logrus.Entry
}

// New creates a new, immutable configuration object. This object holds the
// Viper configuration and the logger, and is validated.
func New(ctx context.Context, cmd *cobra.Command) (*Config, error) {
	var cfg Config

	var err error
	cfg.cmdFile, err = cmd.Flags().GetString(options.ConfigKeyConfigFile)
	if err != nil {
		cfg.cmdFile = ""
	}

	cfg.cmdConfig = *newViper(options.AppName, cfg.cmdFile)
	cfg.cmdConfig.BindPFlags(cmd.Flags()) //nolint:errcheck

	cfg.cmdFile = cfg.cmdConfig.ConfigFileUsed()

	cfg.ctx = ctx

	cfg.log = *newLogger(
		options.AppName,
		cfg.cmdConfig.GetString(options.ConfigKeyLogLevel),
	)

	if err := cfg.validateConfig(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Context returns the context.
func (c *Config) Context() context.Context {
	return c.ctx
}

// GetConfigFile returns the file that Viper loaded the configuration from.
func (c *Config) GetConfigFile() string {
	return c.cmdFile
}

// GetConfigString returns a string value from the Viper configuration.
func (c *Config) GetConfigString(key string) string {
	return c.cmdConfig.GetString(key)
}

// GetLogger returns the configured application logger.
func (c *Config) GetLogger() logrus.Entry {
	return c.log
}

// GetTimeout returns the configured timeout on all API calls, parsed as a time.Duration.
func (c *Config) GetTimeout() time.Duration {
	return c.cmdConfig.GetDuration(options.ConfigKeyTimeout)
}

// GetPerPage returns the configured page size for list calls.
func (c *Config) GetPerPage() int {
	return c.cmdConfig.GetInt(options.ConfigKeyPerPage)
}

// GetBaseURI returns the API endpoint to talk to.
func (c *Config) GetBaseURI() string {
	return c.cmdConfig.GetString(options.ConfigKeyBaseURI)
}

// GetToken returns the configured API token.
func (c *Config) GetToken() string {
	return c.cmdConfig.GetString(options.ConfigKeyGitHubToken)
}

// GetRepo returns the user/org name and the repo name of the configured GitHub repository.
func (c *Config) GetRepo() (string, string) {
	fullName := c.cmdConfig.GetString(options.ConfigKeyRepoName)
	parts := strings.Split(fullName, "/")
	// We check that repo-name is two parts separated by a slash in New, so this is safe
	return parts[0], parts[1]
}

// configFile is a serializable representation of the current Viper configuration.
type configFile struct {
	LogLevel    string        `json:"log-level" mapstructure:"log-level"`
	GithubToken string        `json:"github-token" mapstructure:"github-token"`
	RepoName    string        `json:"repo-name" mapstructure:"repo-name"`
	BaseURI     string        `json:"base-uri" mapstructure:"base-uri"`
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"`
	PerPage     int           `json:"per-page" mapstructure:"per-page"`
}

// SaveConfig saves the configuration file, keeping an interactively entered
// token for future runs.
func (c *Config) SaveConfig() error {
	var cf configFile
	if err := c.cmdConfig.Unmarshal(&cf); err != nil {
		return fmt.Errorf("unmarshalling config: %w", err)
	}

	b, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	f, err := os.OpenFile(c.cmdConfig.ConfigFileUsed(), os.O_RDWR|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("opening config file %s: %w", c.cmdConfig.ConfigFileUsed(), err)
	}
	defer f.Close()

	_, err = f.WriteString(string(b))
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// newViper generates a viper configuration object which
// merges (in order from highest to lowest priority) the
// command line options, configuration file options, and
// default configuration values. This viper object becomes
// the single source of truth for the app configuration.
func newViper(appName, cfgFile string) *viper.Viper {
	log := logrus.New()
	v := viper.New()

	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(fmt.Sprintf("config-%s", appName))
	v.AddConfigPath(".")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err == nil {
		log.WithField("file", v.ConfigFileUsed()).Infof("config file loaded")
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			log.WithField("file", e.Name).Info("config file changed")
		})
	} else if cfgFile != "" {
		log.WithError(err).Warningf("Error reading config file: %v", cfgFile)
	}

	if log.Level == logrus.DebugLevel {
		v.Debug()
	}

	return v
}

// parseLogLevel is a helper function to parse the log level passed in the
// configuration into a logrus Level, or to use the default log level set
// above if the log level can't be parsed.
func parseLogLevel(level string) logrus.Level {
	if level == "" {
		return options.DefaultLogLevel
	}

	ll, err := logrus.ParseLevel(level)
	if err != nil {
		fmt.Printf("Failed to parse log level, using default. Error: %v\n", err)
		return options.DefaultLogLevel
	}
	return ll
}

// newLogger uses the log level provided in the configuration
// to create a new logrus logger and set fields on it to make
// it easy to use.
func newLogger(app, level string) *logrus.Entry {
	logger := logrus.New()
	logger.Level = parseLogLevel(level)
	logEntry := logrus.NewEntry(logger).WithFields(logrus.Fields{
		"app": app,
	})
	logEntry.WithField("log-level", logger.Level).Info("log level set")
	return logEntry
}

// validateConfig checks the values provided to all of the configuration
// options, ensuring that e.g. `repo-name` has the owner/repo form and
// `base-uri` is a real URI. This is the first level of checking. It does
// not confirm that the token is accepted by the API; that happens when the
// client makes its connectivity check.
func (c *Config) validateConfig() error {
	// Log level and config file location are validated already

	c.log.Debug("Checking config variables...")
	token := c.cmdConfig.GetString(options.ConfigKeyGitHubToken)
	if token == "" {
		fmt.Print("Enter your GitHub token: ")
		byteToken, err := term.ReadPassword(syscall.Stdin)
		if err != nil {
			return errGitHubTokenRequired
		}
		fmt.Println()
		if len(byteToken) == 0 {
			return errGitHubTokenRequired
		}
		c.cmdConfig.Set(options.ConfigKeyGitHubToken, string(byteToken))
	}

	repo := c.cmdConfig.GetString(options.ConfigKeyRepoName)
	if repo == "" {
		return errGitHubRepoRequired
	}
	if !strings.Contains(repo, "/") || len(strings.Split(repo, "/")) != 2 {
		return errGitHubRepoFormatInvalid
	}

	uri := c.cmdConfig.GetString(options.ConfigKeyBaseURI)
	if uri == "" {
		c.cmdConfig.Set(options.ConfigKeyBaseURI, options.DefaultBaseURI)
	} else if _, err := url.ParseRequestURI(uri); err != nil {
		return errBaseURIInvalid
	}

	if c.cmdConfig.GetDuration(options.ConfigKeyTimeout) < 0 {
		return errTimeoutInvalid
	}

	c.log.Debug("All config variables are valid!")

	return nil
}

// Errors

var (
	errGitHubTokenRequired     = errors.New("github token required")
	errGitHubRepoRequired      = errors.New("github repository required")
	errGitHubRepoFormatInvalid = errors.New("github repository must be of form user/repo")
	errBaseURIInvalid          = errors.New("base URI must be a valid URI")
	errTimeoutInvalid          = errors.New("timeout must not be negative")
)
