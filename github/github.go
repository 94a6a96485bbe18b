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

// Package github is a capability-style binding over the GitHub Issues REST
// API. Entities are small interfaces (Github, Repo, Issue, ...) whose
// implementations hold identity only and fetch state on demand, so a handle
// is always cheap to create and never goes stale. The Smart decorator adds
// typed accessors and single-field mutators on top of the generic
// JSON/Patch primitives.
//
// Two implementations are provided: the REST-backed client returned by New,
// and an in-memory fake returned by NewFake for use in tests.
package github

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	sdkgh "sigs.k8s.io/release-sdk/github"

	"github.com/uwu-tools/gh-issue-client/internal/rest"
)

// Github is the entry point capability: everything else is reached through
// a repository or user handle obtained here.
type Github interface {
	Repos() Repos
	Users() Users
}

// Repos resolves repository coordinates to repository handles.
type Repos interface {
	Get(owner, name string) Repo
}

// Repo is a handle on a single repository. It is identity only; no network
// traffic happens until a sub-resource is read.
type Repo interface {
	Github() Github
	Owner() string
	Name() string
	FullName() string
	Issues() Issues
	Pulls() Pulls
}

// Options configures the REST-backed client.
type Options struct {
	// Token is the API token used for every request.
	Token string

	// BaseURI overrides the API endpoint, e.g. for GitHub Enterprise.
	// Empty selects the public API.
	BaseURI string

	// Timeout bounds the total retry time of a single API call.
	Timeout time.Duration

	// PerPage is the page size used when listing issues.
	PerPage int

	// Logger receives retry and connectivity diagnostics. A discarding
	// default is used when nil.
	Logger *logrus.Entry
}

const (
	defaultTimeout = 30 * time.Second
	defaultPerPage = 100
)

// New creates the REST-backed client and verifies connectivity with a cheap
// rate-limit request, so a bad token fails fast instead of on first use.
func New(opts *Options) (Github, error) {
	if opts == nil || opts.Token == "" {
		return nil, errTokenRequired
	}

	log := opts.Logger
	if log == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(logger)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	perPage := opts.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}

	client, err := rest.New(opts.Token, opts.BaseURI, timeout, log)
	if err != nil {
		return nil, fmt.Errorf("creating request engine: %w", err)
	}

	lister, err := sdkgh.NewWithToken(opts.Token)
	if err != nil {
		return nil, fmt.Errorf("creating list client: %w", err)
	}
	lister.SetOptions(
		&sdkgh.Options{
			ItemsPerPage: perPage,
		},
	)

	gh := &restGithub{
		rest:   client,
		lister: lister,
		log:    log,
	}

	// Make a request so we can check that we can connect fine.
	if _, err := client.Get(context.Background(), "rate_limit"); err != nil {
		return nil, fmt.Errorf("checking GitHub connectivity: %w", err)
	}
	log.Debug("Successfully connected to GitHub.")

	return gh, nil
}

type restGithub struct {
	rest   *rest.Client
	lister *sdkgh.GitHub
	log    *logrus.Entry
}

func (g *restGithub) Repos() Repos {
	return &restRepos{gh: g}
}

func (g *restGithub) Users() Users {
	return &restUsers{gh: g}
}

type restRepos struct {
	gh *restGithub
}

func (r *restRepos) Get(owner, name string) Repo {
	return &restRepo{gh: r.gh, owner: owner, name: name}
}

type restRepo struct {
	gh    *restGithub
	owner string
	name  string
}

func (r *restRepo) Github() Github {
	return r.gh
}

func (r *restRepo) Owner() string {
	return r.owner
}

func (r *restRepo) Name() string {
	return r.name
}

func (r *restRepo) FullName() string {
	return fmt.Sprintf("%s/%s", r.owner, r.name)
}

func (r *restRepo) Issues() Issues {
	return &restIssues{repo: r}
}

func (r *restRepo) Pulls() Pulls {
	return &restPulls{repo: r}
}
