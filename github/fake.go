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
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/trivago/tgo/tcontainer"

	"github.com/uwu-tools/gh-issue-client/internal/clock"
)

// FakeLogin is the login the fake backend acts as: it authors created
// issues and posted comments.
const FakeLogin = "octocat"

// NewFake returns an in-memory Github implementation with read-your-writes
// consistency. It stands in for the remote service in tests: Patch applies
// RFC 7396 merge-patch semantics, numbers are assigned sequentially per
// repository, and created_at stamps come from the given clock (pass nil
// for wall-clock time).
func NewFake(clk clock.Clock) Github {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &fakeGithub{
		clk:   clk,
		repos: make(map[string]*fakeRepoData),
	}
}

type fakeGithub struct {
	mu    sync.Mutex
	clk   clock.Clock
	repos map[string]*fakeRepoData
}

// fakeRepoData is the store behind one repository. Access goes through
// fakeGithub.mu.
type fakeRepoData struct {
	nextIssue int
	issues    map[int]tcontainer.MarshalMap
	comments  map[int][]tcontainer.MarshalMap
	labels    map[int][]string
	events    map[int][]tcontainer.MarshalMap
}

func (g *fakeGithub) Repos() Repos {
	return &fakeRepos{gh: g}
}

func (g *fakeGithub) Users() Users {
	return &fakeUsers{}
}

// data returns the store of one repository, creating it on first use. The
// caller must hold g.mu.
func (g *fakeGithub) data(owner, name string) *fakeRepoData {
	key := owner + "/" + name
	d, ok := g.repos[key]
	if !ok {
		d = &fakeRepoData{
			issues:   make(map[int]tcontainer.MarshalMap),
			comments: make(map[int][]tcontainer.MarshalMap),
			labels:   make(map[int][]string),
			events:   make(map[int][]tcontainer.MarshalMap),
		}
		g.repos[key] = d
	}
	return d
}

type fakeRepos struct {
	gh *fakeGithub
}

func (r *fakeRepos) Get(owner, name string) Repo {
	return &fakeRepo{gh: r.gh, owner: owner, name: name}
}

type fakeRepo struct {
	gh    *fakeGithub
	owner string
	name  string
}

func (r *fakeRepo) Github() Github {
	return r.gh
}

func (r *fakeRepo) Owner() string {
	return r.owner
}

func (r *fakeRepo) Name() string {
	return r.name
}

func (r *fakeRepo) FullName() string {
	return fmt.Sprintf("%s/%s", r.owner, r.name)
}

func (r *fakeRepo) Issues() Issues {
	return &fakeIssues{repo: r}
}

func (r *fakeRepo) Pulls() Pulls {
	return &fakePulls{repo: r}
}

type fakeIssues struct {
	repo *fakeRepo
}

func (i *fakeIssues) Get(number int) Issue {
	return &fakeIssue{repo: i.repo, number: number}
}

func (i *fakeIssues) Create(ctx context.Context, title, body string) (Issue, error) {
	g := i.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(i.repo.owner, i.repo.name)
	data.nextIssue++
	number := data.nextIssue

	obj, err := normalize(tcontainer.MarshalMap{
		"number": number,
		"state":  "open",
		"title":  title,
		"body":   body,
		"user": tcontainer.MarshalMap{
			"login": FakeLogin,
		},
		"url": fmt.Sprintf(
			"https://api.github.com/repos/%s/%s/issues/%d",
			i.repo.owner, i.repo.name, number,
		),
		"html_url": fmt.Sprintf(
			"https://github.com/%s/%s/issues/%d",
			i.repo.owner, i.repo.name, number,
		),
		"created_at": g.clk.Now().Format(dateFormat),
	})
	if err != nil {
		return nil, err
	}
	data.issues[number] = obj

	return i.Get(number), nil
}

func (i *fakeIssues) List(ctx context.Context, state string) ([]Issue, error) {
	if _, err := listState(state); err != nil {
		return nil, err
	}

	g := i.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(i.repo.owner, i.repo.name)
	issues := make([]Issue, 0, len(data.issues))
	for number, obj := range data.issues {
		if _, isPull := subObject(obj, "pull_request"); isPull {
			continue
		}
		if state != "all" && state != "" {
			if s, _ := stringOf(obj, "state"); s != state {
				continue
			}
		}
		issues = append(issues, i.Get(number))
	}

	sort.Slice(issues, func(a, b int) bool {
		return Compare(issues[a], issues[b]) < 0
	})

	return issues, nil
}

type fakeIssue struct {
	repo   *fakeRepo
	number int
}

func (i *fakeIssue) String() string {
	return fmt.Sprintf("%s#%d", i.repo.FullName(), i.number)
}

func (i *fakeIssue) Repo() Repo {
	return i.repo
}

func (i *fakeIssue) Number() int {
	return i.number
}

func (i *fakeIssue) Comments() Comments {
	return &fakeComments{issue: i}
}

func (i *fakeIssue) Labels() Labels {
	return &fakeLabels{issue: i}
}

func (i *fakeIssue) Events() Events {
	return &fakeEvents{issue: i}
}

func (i *fakeIssue) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	g := i.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	obj, ok := g.data(i.repo.owner, i.repo.name).issues[i.number]
	if !ok {
		return nil, fmt.Errorf("fetching %s: %w", i, ErrNotFound)
	}
	return normalize(obj)
}

func (i *fakeIssue) Patch(ctx context.Context, partial tcontainer.MarshalMap) error {
	g := i.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(i.repo.owner, i.repo.name)
	obj, ok := data.issues[i.number]
	if !ok {
		return fmt.Errorf("patching %s: %w", i, ErrNotFound)
	}

	// The service accepts the assignee as a login string but stores a
	// user object.
	if login, ok := stringOf(partial, "assignee"); ok {
		expanded := partial.Clone()
		expanded["assignee"] = tcontainer.MarshalMap{"login": login}
		partial = expanded
	}

	// A state transition shows up on the event timeline, like it does on
	// the real service.
	oldState, _ := stringOf(obj, "state")
	if newState, ok := stringOf(partial, "state"); ok && newState != oldState {
		event := "reopened"
		if newState == "closed" {
			event = "closed"
		}
		data.events[i.number] = append(data.events[i.number], tcontainer.MarshalMap{
			"event": event,
			"actor": tcontainer.MarshalMap{
				"login": FakeLogin,
			},
			"created_at": g.clk.Now().Format(dateFormat),
		})
	}

	doc, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("patching %s: %w", i, err)
	}
	patch, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("patching %s: %w", i, err)
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return fmt.Errorf("patching %s: %w", i, err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(merged, &out); err != nil {
		return fmt.Errorf("patching %s: %w", i, err)
	}
	data.issues[i.number] = tcontainer.MarshalMap(out)

	return nil
}

type fakeComments struct {
	issue *fakeIssue
}

func (c *fakeComments) Issue() Issue {
	return c.issue
}

func (c *fakeComments) Post(ctx context.Context, text string) error {
	g := c.issue.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(c.issue.repo.owner, c.issue.repo.name)
	if _, ok := data.issues[c.issue.number]; !ok {
		return fmt.Errorf("commenting on %s: %w", c.issue, ErrNotFound)
	}

	comment, err := normalize(tcontainer.MarshalMap{
		"id":   len(data.comments[c.issue.number]) + 1,
		"body": text,
		"user": tcontainer.MarshalMap{
			"login": FakeLogin,
		},
		"created_at": g.clk.Now().Format(dateFormat),
	})
	if err != nil {
		return err
	}
	data.comments[c.issue.number] = append(data.comments[c.issue.number], comment)

	return nil
}

func (c *fakeComments) List(ctx context.Context) ([]tcontainer.MarshalMap, error) {
	g := c.issue.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(c.issue.repo.owner, c.issue.repo.name)
	return copyObjects(data.comments[c.issue.number])
}

type fakeLabels struct {
	issue *fakeIssue
}

func (l *fakeLabels) Issue() Issue {
	return l.issue
}

func (l *fakeLabels) Add(ctx context.Context, names ...string) error {
	g := l.issue.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(l.issue.repo.owner, l.issue.repo.name)
	if _, ok := data.issues[l.issue.number]; !ok {
		return fmt.Errorf("labelling %s: %w", l.issue, ErrNotFound)
	}

	attached := data.labels[l.issue.number]
	for _, name := range names {
		exists := false
		for _, have := range attached {
			if have == name {
				exists = true
				break
			}
		}
		if !exists {
			attached = append(attached, name)
		}
	}
	data.labels[l.issue.number] = attached

	return nil
}

func (l *fakeLabels) Remove(ctx context.Context, name string) error {
	g := l.issue.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(l.issue.repo.owner, l.issue.repo.name)
	attached := data.labels[l.issue.number]
	kept := attached[:0]
	for _, have := range attached {
		if have != name {
			kept = append(kept, have)
		}
	}
	data.labels[l.issue.number] = kept

	return nil
}

func (l *fakeLabels) List(ctx context.Context) ([]string, error) {
	g := l.issue.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(l.issue.repo.owner, l.issue.repo.name)
	return append([]string(nil), data.labels[l.issue.number]...), nil
}

type fakeEvents struct {
	issue *fakeIssue
}

func (e *fakeEvents) Issue() Issue {
	return e.issue
}

func (e *fakeEvents) List(ctx context.Context) ([]tcontainer.MarshalMap, error) {
	g := e.issue.repo.gh
	g.mu.Lock()
	defer g.mu.Unlock()

	data := g.data(e.issue.repo.owner, e.issue.repo.name)
	return copyObjects(data.events[e.issue.number])
}

type fakeUsers struct {
}

// Get resolves any login: the fake treats every account as existing.
func (u *fakeUsers) Get(login string) User {
	return &fakeUser{login: login}
}

type fakeUser struct {
	login string
}

func (u *fakeUser) Login() string {
	return u.login
}

func (u *fakeUser) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	return normalize(tcontainer.MarshalMap{
		"login": u.login,
	})
}

type fakePulls struct {
	repo *fakeRepo
}

func (p *fakePulls) Repo() Repo {
	return p.repo
}

func (p *fakePulls) Get(number int) Pull {
	return &fakePull{repo: p.repo, number: number}
}

type fakePull struct {
	repo   *fakeRepo
	number int
}

func (p *fakePull) Repo() Repo {
	return p.repo
}

func (p *fakePull) Number() int {
	return p.number
}

func (p *fakePull) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	return normalize(tcontainer.MarshalMap{
		"number": p.number,
		"url": fmt.Sprintf(
			"https://api.github.com/repos/%s/%s/pulls/%d",
			p.repo.owner, p.repo.name, p.number,
		),
	})
}

// normalize round-trips an object through encoding/json so stored and
// returned representations look exactly like decoded API responses
// (numbers as float64, nested objects as plain maps) and share no memory
// with the caller's value.
func normalize(obj tcontainer.MarshalMap) (tcontainer.MarshalMap, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding representation: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding representation: %w", err)
	}
	return tcontainer.MarshalMap(out), nil
}

func copyObjects(objs []tcontainer.MarshalMap) ([]tcontainer.MarshalMap, error) {
	out := make([]tcontainer.MarshalMap, 0, len(objs))
	for _, obj := range objs {
		copied, err := normalize(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, copied)
	}
	return out, nil
}
