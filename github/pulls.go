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

// Pulls resolves pull request numbers to handles.
type Pulls interface {
	Repo() Repo
	Get(number int) Pull
}

// Pull is a handle on a single pull request.
type Pull interface {
	Repo() Repo
	Number() int
	JSON(ctx context.Context) (tcontainer.MarshalMap, error)
}

type restPulls struct {
	repo *restRepo
}

func (p *restPulls) Repo() Repo {
	return p.repo
}

func (p *restPulls) Get(number int) Pull {
	return &restPull{repo: p.repo, number: number}
}

type restPull struct {
	repo   *restRepo
	number int
}

func (p *restPull) Repo() Repo {
	return p.repo
}

func (p *restPull) Number() int {
	return p.number
}

func (p *restPull) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	obj, err := p.repo.gh.rest.Get(
		ctx,
		fmt.Sprintf("repos/%s/%s/pulls/%d", p.repo.owner, p.repo.name, p.number),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching %s!%d: %w", p.repo.FullName(), p.number, err)
	}
	return obj, nil
}
