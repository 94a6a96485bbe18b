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

// Events is the event timeline of one issue.
type Events interface {
	Issue() Issue

	// List returns the raw representations of the issue's events, oldest
	// first.
	List(ctx context.Context) ([]tcontainer.MarshalMap, error)
}

type restEvents struct {
	issue *restIssue
}

func (e *restEvents) Issue() Issue {
	return e.issue
}

func (e *restEvents) List(ctx context.Context) ([]tcontainer.MarshalMap, error) {
	events, err := e.issue.repo.gh.rest.GetList(ctx, e.issue.path()+"/events")
	if err != nil {
		return nil, fmt.Errorf("listing events of %s: %w", e.issue, err)
	}
	return events, nil
}
