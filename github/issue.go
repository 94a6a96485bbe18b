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

package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/trivago/tgo/tcontainer"
	sdkgh "sigs.k8s.io/release-sdk/github"
)

// Issues is the issue collection of one repository.
type Issues interface {
	// Get returns a handle on the issue with the given number. It never
	// touches the network; a number that does not exist remotely fails on
	// first read instead.
	Get(number int) Issue

	// Create opens a new issue and returns a handle on it.
	Create(ctx context.Context, title, body string) (Issue, error)

	// List returns handles on the repository's issues in a deterministic
	// order. State is one of "open", "closed" or "all"; pull requests are
	// excluded.
	List(ctx context.Context, state string) ([]Issue, error)
}

// Issue is a handle on a single issue: its identity, its sub-resource
// collections, and the two generic primitives (JSON, Patch) every typed
// accessor is built from. State is never held locally; each JSON call is a
// fresh read of the remote representation.
type Issue interface {
	fmt.Stringer

	Repo() Repo
	Number() int
	Comments() Comments
	Labels() Labels
	Events() Events

	// JSON returns the full current remote representation.
	JSON(ctx context.Context) (tcontainer.MarshalMap, error)

	// Patch sends a partial object to be merged into the issue server-side.
	// The shape of the partial is not validated locally.
	Patch(ctx context.Context, partial tcontainer.MarshalMap) error
}

// Compare defines a total order over issues: by repository owner, then
// repository name, then issue number. Listings are sorted with it.
func Compare(a, b Issue) int {
	if c := strings.Compare(a.Repo().Owner(), b.Repo().Owner()); c != 0 {
		return c
	}
	if c := strings.Compare(a.Repo().Name(), b.Repo().Name()); c != 0 {
		return c
	}
	return a.Number() - b.Number()
}

type restIssues struct {
	repo *restRepo
}

func (i *restIssues) Get(number int) Issue {
	return &restIssue{repo: i.repo, number: number}
}

func (i *restIssues) Create(ctx context.Context, title, body string) (Issue, error) {
	obj, err := i.repo.gh.rest.Post(
		ctx,
		fmt.Sprintf("repos/%s/%s/issues", i.repo.owner, i.repo.name),
		tcontainer.MarshalMap{
			"title": title,
			"body":  body,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating issue in %s: %w", i.repo.FullName(), err)
	}

	number, ok := intValue(obj, "number")
	if !ok {
		return nil, fmt.Errorf("creating issue in %s: response carries no number", i.repo.FullName()) //nolint:goerr113
	}

	return i.Get(number), nil
}

func (i *restIssues) List(ctx context.Context, state string) ([]Issue, error) {
	log := i.repo.gh.log

	issueState, err := listState(state)
	if err != nil {
		return nil, err
	}

	is, err := i.repo.gh.lister.ListIssues(i.repo.owner, i.repo.name, issueState)
	if err != nil {
		return nil, fmt.Errorf("listing issues in %s: %w", i.repo.FullName(), err)
	}

	issues := make([]Issue, 0, len(is))
	for _, v := range is {
		// If PullRequestLinks is not nil, it's a Pull Request
		if v.PullRequestLinks != nil {
			continue
		}
		issues = append(issues, i.Get(v.GetNumber()))
	}

	sort.Slice(issues, func(a, b int) bool {
		return Compare(issues[a], issues[b]) < 0
	})

	log.Debugf("Collected %d issues from %s", len(issues), i.repo.FullName())
	return issues, nil
}

func listState(state string) (sdkgh.IssueState, error) {
	switch state {
	case "open":
		return sdkgh.IssueStateOpen, nil
	case "closed":
		return sdkgh.IssueStateClosed, nil
	case "all", "":
		return sdkgh.IssueStateAll, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownIssueState, state)
	}
}

type restIssue struct {
	repo   *restRepo
	number int
}

func (i *restIssue) String() string {
	return fmt.Sprintf("%s#%d", i.repo.FullName(), i.number)
}

func (i *restIssue) Repo() Repo {
	return i.repo
}

func (i *restIssue) Number() int {
	return i.number
}

func (i *restIssue) Comments() Comments {
	return &restComments{issue: i}
}

func (i *restIssue) Labels() Labels {
	return &restLabels{issue: i}
}

func (i *restIssue) Events() Events {
	return &restEvents{issue: i}
}

func (i *restIssue) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	obj, err := i.repo.gh.rest.Get(ctx, i.path())
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", i, err)
	}
	return obj, nil
}

func (i *restIssue) Patch(ctx context.Context, partial tcontainer.MarshalMap) error {
	if _, err := i.repo.gh.rest.Patch(ctx, i.path(), partial); err != nil {
		return fmt.Errorf("patching %s: %w", i, err)
	}
	return nil
}

func (i *restIssue) path() string {
	return fmt.Sprintf("repos/%s/%s/issues/%d", i.repo.owner, i.repo.name, i.number)
}

// intValue reads an integer field out of a decoded JSON object, tolerating
// the numeric types encoding/json may have produced.
func intValue(obj tcontainer.MarshalMap, key string) (int, bool) {
	v, ok := obj.Value(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
