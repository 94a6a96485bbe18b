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
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trivago/tgo/tcontainer"
)

// dateFormat is the timestamp layout the API uses.
const dateFormat = time.RFC3339

// Smart decorates an Issue with typed accessors and mutators built entirely
// from the generic JSON and Patch primitives. It holds no state of its own:
// every accessor is a fresh read and every mutator a fresh write, so any
// two Smart values wrapping the same issue always agree with each other and
// with the remote record. Smart implements Issue by delegation, so it can
// be passed wherever the plain handle is expected.
type Smart struct {
	issue Issue
}

// NewSmart wraps an issue handle.
func NewSmart(issue Issue) *Smart {
	return &Smart{issue: issue}
}

// State returns the issue's state, e.g. "open" or "closed".
func (s *Smart) State(ctx context.Context) (string, error) {
	return s.stringField(ctx, "state")
}

// SetState changes the issue's state.
func (s *Smart) SetState(ctx context.Context, state string) error {
	return s.issue.Patch(ctx, tcontainer.MarshalMap{"state": state})
}

// IsOpen reports whether the issue is open.
func (s *Smart) IsOpen(ctx context.Context) (bool, error) {
	state, err := s.State(ctx)
	if err != nil {
		return false, err
	}
	return state == "open", nil
}

// Open makes sure the issue is open.
func (s *Smart) Open(ctx context.Context) error {
	return s.SetState(ctx, "open")
}

// Close makes sure the issue is closed.
func (s *Smart) Close(ctx context.Context) error {
	return s.SetState(ctx, "closed")
}

// Title returns the issue's title.
func (s *Smart) Title(ctx context.Context) (string, error) {
	return s.stringField(ctx, "title")
}

// SetTitle changes the issue's title.
func (s *Smart) SetTitle(ctx context.Context, text string) error {
	return s.issue.Patch(ctx, tcontainer.MarshalMap{"title": text})
}

// Body returns the issue's body text.
func (s *Smart) Body(ctx context.Context) (string, error) {
	return s.stringField(ctx, "body")
}

// SetBody changes the issue's body text.
func (s *Smart) SetBody(ctx context.Context, text string) error {
	return s.issue.Patch(ctx, tcontainer.MarshalMap{"body": text})
}

// Assign assigns the issue to the user with the given login.
func (s *Smart) Assign(ctx context.Context, login string) error {
	return s.issue.Patch(ctx, tcontainer.MarshalMap{"assignee": login})
}

// URL returns the issue's API URL.
func (s *Smart) URL(ctx context.Context) (*url.URL, error) {
	return s.urlField(ctx, "url")
}

// HTMLURL returns the issue's web URL.
func (s *Smart) HTMLURL(ctx context.Context) (*url.URL, error) {
	return s.urlField(ctx, "html_url")
}

// CreatedAt returns the issue's creation time.
func (s *Smart) CreatedAt(ctx context.Context) (time.Time, error) {
	raw, err := s.stringField(ctx, "created_at")
	if err != nil {
		return time.Time{}, err
	}
	created, err := time.Parse(dateFormat, raw)
	if err != nil {
		return time.Time{}, &FieldError{Number: s.issue.Number(), Field: "created_at", Err: err}
	}
	return created, nil
}

// Author returns the user who submitted the issue.
func (s *Smart) Author(ctx context.Context) (User, error) {
	login, err := s.nestedStringField(ctx, "user", "login")
	if err != nil {
		return nil, err
	}
	return s.issue.Repo().Github().Users().Get(login), nil
}

// HasAssignee reports whether the issue is assigned to anyone.
func (s *Smart) HasAssignee(ctx context.Context) (bool, error) {
	obj, err := s.issue.JSON(ctx)
	if err != nil {
		return false, err
	}
	assignee, ok := subObject(obj, "assignee")
	if !ok {
		return false, nil
	}
	_, ok = stringOf(assignee, "login")
	return ok, nil
}

// Assignee returns the user the issue is assigned to. It fails with a
// FieldError when the issue is unassigned; check HasAssignee first.
func (s *Smart) Assignee(ctx context.Context) (User, error) {
	login, err := s.nestedStringField(ctx, "assignee", "login")
	if err != nil {
		return nil, err
	}
	return s.issue.Repo().Github().Users().Get(login), nil
}

// IsPull reports whether the issue is the issue-side view of a pull
// request.
func (s *Smart) IsPull(ctx context.Context) (bool, error) {
	obj, err := s.issue.JSON(ctx)
	if err != nil {
		return false, err
	}
	pr, ok := subObject(obj, "pull_request")
	if !ok {
		return false, nil
	}
	_, ok = stringOf(pr, "url")
	return ok, nil
}

// Pull returns the pull request linked to the issue. When the issue is not
// a pull request it fails with a FieldError wrapping ErrNotPull.
func (s *Smart) Pull(ctx context.Context) (Pull, error) {
	obj, err := s.issue.JSON(ctx)
	if err != nil {
		return nil, err
	}
	pr, ok := subObject(obj, "pull_request")
	if !ok {
		return nil, &FieldError{Number: s.issue.Number(), Field: "pull_request", Err: ErrNotPull}
	}
	raw, ok := stringOf(pr, "url")
	if !ok {
		return nil, &FieldError{Number: s.issue.Number(), Field: "pull_request.url", Err: ErrNotPull}
	}
	number, err := strconv.Atoi(raw[strings.LastIndex(raw, "/")+1:])
	if err != nil {
		return nil, &FieldError{Number: s.issue.Number(), Field: "pull_request.url", Err: err}
	}
	return s.issue.Repo().Pulls().Get(number), nil
}

// Issue delegation.

func (s *Smart) String() string {
	return s.issue.String()
}

func (s *Smart) Repo() Repo {
	return s.issue.Repo()
}

func (s *Smart) Number() int {
	return s.issue.Number()
}

func (s *Smart) Comments() Comments {
	return s.issue.Comments()
}

func (s *Smart) Labels() Labels {
	return s.issue.Labels()
}

func (s *Smart) Events() Events {
	return s.issue.Events()
}

func (s *Smart) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	return s.issue.JSON(ctx)
}

func (s *Smart) Patch(ctx context.Context, partial tcontainer.MarshalMap) error {
	return s.issue.Patch(ctx, partial)
}

// stringField reads one string field of the remote representation. A field
// that is absent or null maps to a FieldError: a well-formed issue always
// carries it, so its absence is a data invariant violation.
func (s *Smart) stringField(ctx context.Context, field string) (string, error) {
	obj, err := s.issue.JSON(ctx)
	if err != nil {
		return "", err
	}
	value, ok := stringOf(obj, field)
	if !ok {
		return "", &FieldError{Number: s.issue.Number(), Field: field}
	}
	return value, nil
}

func (s *Smart) nestedStringField(ctx context.Context, parent, field string) (string, error) {
	obj, err := s.issue.JSON(ctx)
	if err != nil {
		return "", err
	}
	sub, ok := subObject(obj, parent)
	if !ok {
		return "", &FieldError{Number: s.issue.Number(), Field: parent}
	}
	value, ok := stringOf(sub, field)
	if !ok {
		return "", &FieldError{Number: s.issue.Number(), Field: parent + "." + field}
	}
	return value, nil
}

func (s *Smart) urlField(ctx context.Context, field string) (*url.URL, error) {
	raw, err := s.stringField(ctx, field)
	if err != nil {
		return nil, err
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &FieldError{Number: s.issue.Number(), Field: field, Err: err}
	}
	return parsed, nil
}

// stringOf extracts a non-null string value. JSON null reads as a present
// key with a nil value, which counts as absent here.
func stringOf(obj tcontainer.MarshalMap, key string) (string, bool) {
	v, ok := obj.Value(key)
	if !ok {
		return "", false
	}
	value, ok := v.(string)
	return value, ok
}

// subObject extracts a nested JSON object, whichever map form it is held
// in. Decoded responses carry map[string]interface{}; locally built
// representations may carry MarshalMap.
func subObject(obj tcontainer.MarshalMap, key string) (tcontainer.MarshalMap, bool) {
	v, ok := obj.Value(key)
	if !ok {
		return nil, false
	}
	switch sub := v.(type) {
	case tcontainer.MarshalMap:
		return sub, true
	case map[string]interface{}:
		return tcontainer.MarshalMap(sub), true
	default:
		return nil, false
	}
}
