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
	"net/url"

	"github.com/trivago/tgo/tcontainer"
)

// Labels is the label collection of one issue.
type Labels interface {
	Issue() Issue

	// Add attaches the named labels to the issue, creating them in the
	// repository if needed.
	Add(ctx context.Context, names ...string) error

	// Remove detaches one label from the issue.
	Remove(ctx context.Context, name string) error

	// List returns the names of the labels attached to the issue.
	List(ctx context.Context) ([]string, error)
}

type restLabels struct {
	issue *restIssue
}

func (l *restLabels) Issue() Issue {
	return l.issue
}

func (l *restLabels) Add(ctx context.Context, names ...string) error {
	_, err := l.issue.repo.gh.rest.Post(
		ctx,
		l.issue.path()+"/labels",
		tcontainer.MarshalMap{"labels": names},
	)
	if err != nil {
		return fmt.Errorf("labelling %s: %w", l.issue, err)
	}
	return nil
}

func (l *restLabels) Remove(ctx context.Context, name string) error {
	err := l.issue.repo.gh.rest.Delete(
		ctx,
		l.issue.path()+"/labels/"+url.PathEscape(name),
	)
	if err != nil {
		return fmt.Errorf("removing label %q from %s: %w", name, l.issue, err)
	}
	return nil
}

func (l *restLabels) List(ctx context.Context) ([]string, error) {
	labels, err := l.issue.repo.gh.rest.GetList(ctx, l.issue.path()+"/labels")
	if err != nil {
		return nil, fmt.Errorf("listing labels of %s: %w", l.issue, err)
	}

	names := make([]string, 0, len(labels))
	for _, label := range labels {
		if name, ok := stringOf(label, "name"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
