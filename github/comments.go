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

	"github.com/trivago/tgo/tcontainer"
)

// Comments is the comment collection of one issue.
type Comments interface {
	Issue() Issue

	// Post adds a comment to the issue.
	Post(ctx context.Context, text string) error

	// List returns the raw representations of all comments on the issue,
	// in creation order.
	List(ctx context.Context) ([]tcontainer.MarshalMap, error)
}

type restComments struct {
	issue *restIssue
}

func (c *restComments) Issue() Issue {
	return c.issue
}

func (c *restComments) Post(ctx context.Context, text string) error {
	_, err := c.issue.repo.gh.rest.Post(
		ctx,
		c.issue.path()+"/comments",
		tcontainer.MarshalMap{"body": text},
	)
	if err != nil {
		return fmt.Errorf("commenting on %s: %w", c.issue, err)
	}
	return nil
}

func (c *restComments) List(ctx context.Context) ([]tcontainer.MarshalMap, error) {
	comments, err := c.issue.repo.gh.rest.GetList(ctx, c.issue.path()+"/comments")
	if err != nil {
		return nil, fmt.Errorf("listing comments on %s: %w", c.issue, err)
	}
	return comments, nil
}
