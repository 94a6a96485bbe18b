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

// Users resolves logins to user handles.
type Users interface {
	Get(login string) User
}

// User is a handle on a single user account.
type User interface {
	Login() string
	JSON(ctx context.Context) (tcontainer.MarshalMap, error)
}

type restUsers struct {
	gh *restGithub
}

func (u *restUsers) Get(login string) User {
	return &restUser{gh: u.gh, login: login}
}

type restUser struct {
	gh    *restGithub
	login string
}

func (u *restUser) Login() string {
	return u.login
}

func (u *restUser) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	obj, err := u.gh.rest.Get(ctx, "users/"+u.login)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", u.login, err)
	}
	return obj, nil
}
