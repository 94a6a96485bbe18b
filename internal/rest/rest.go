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

// Package rest is the generic JSON request engine the issue binding sits
// on. It speaks to the GitHub REST API through the go-github request
// plumbing and decodes every response into a schemaless MarshalMap, so the
// packages above it can extract fields one at a time. Every call is retried
// with exponential backoff until the configured timeout elapses.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gogh "github.com/google/go-github/v53/github"
	"github.com/sirupsen/logrus"
	"github.com/trivago/tgo/tcontainer"
	"golang.org/x/oauth2"
)

const retryBackoffRoundRatio = time.Millisecond / time.Nanosecond

// Client issues authenticated JSON requests against a GitHub-style REST
// API. Paths are relative to the configured base URI and must not carry a
// leading slash, e.g. "repos/octocat/hello-world/issues/1".
type Client struct {
	gh      *gogh.Client
	log     *logrus.Entry
	timeout time.Duration
}

// New creates a request engine authenticated with the given token. An empty
// baseURI selects the public GitHub API; anything else (e.g. a GitHub
// Enterprise endpoint) must parse as a URL.
func New(token, baseURI string, timeout time.Duration, log *logrus.Entry) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			AccessToken: token,
		},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	gh := gogh.NewClient(tc)
	if baseURI != "" {
		if !strings.HasSuffix(baseURI, "/") {
			baseURI += "/"
		}
		base, err := url.Parse(baseURI)
		if err != nil {
			return nil, fmt.Errorf("parsing base URI %q: %w", baseURI, err)
		}
		gh.BaseURL = base
	}

	return &Client{
		gh:      gh,
		log:     log,
		timeout: timeout,
	}, nil
}

// Get fetches a single JSON object.
func (c *Client) Get(ctx context.Context, path string) (tcontainer.MarshalMap, error) {
	out := tcontainer.NewMarshalMap()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetList fetches a JSON array of objects.
func (c *Client) GetList(ctx context.Context, path string) ([]tcontainer.MarshalMap, error) {
	var out []tcontainer.MarshalMap
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Patch sends a partial object to be merged server-side and returns the
// updated representation.
func (c *Client) Patch(ctx context.Context, path string, partial tcontainer.MarshalMap) (tcontainer.MarshalMap, error) {
	out := tcontainer.NewMarshalMap()
	if err := c.do(ctx, http.MethodPatch, path, partial, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Post creates a resource and returns its representation.
func (c *Client) Post(ctx context.Context, path string, body tcontainer.MarshalMap) (tcontainer.MarshalMap, error) {
	out := tcontainer.NewMarshalMap()
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do runs a single API call with exponential backoff. If the call succeeds,
// the response body is decoded into out (when non-nil). If it continues to
// fail until the configured timeout is reached, the last error is returned
// wrapped with the method and path.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := func() error {
		req, err := c.gh.NewRequest(method, path, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		_, err = c.gh.Do(ctx, req, out) //nolint:wrapcheck
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.timeout

	err := backoff.RetryNotify(
		op,
		backoff.WithContext(b, ctx),
		func(err error, duration time.Duration) {
			// Round to a whole number of milliseconds
			duration /= retryBackoffRoundRatio // Convert nanoseconds to milliseconds
			duration *= retryBackoffRoundRatio // Convert back so it appears correct

			c.log.Errorf("Error performing %s %s; retrying in %v: %v", method, path, duration, err)
		},
	)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	return nil
}
