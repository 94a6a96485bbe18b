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
	"errors"
	"fmt"
)

// FieldError reports that an expected field of an issue's remote
// representation is absent, null, or unparsable. It signals a violation of
// the response-shape invariant, not a transient failure: retrying the call
// will not help, the server-side data itself is off. Transport failures are
// never FieldErrors.
type FieldError struct {
	// Number is the issue the read was performed on.
	Number int

	// Field is the JSON field name, with nested fields separated by dots
	// (e.g. "pull_request.url").
	Field string

	// Err carries the underlying parse error, if any.
	Err error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("issue #%d: field %q: %v", e.Number, e.Field, e.Err)
	}
	return fmt.Sprintf("issue #%d: field %q is missing", e.Number, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Errors

var (
	// ErrNotPull is returned by Smart.Pull when the issue has no linked
	// pull request. Check Smart.IsPull first to avoid it.
	ErrNotPull = errors.New("issue is not a pull request")

	// ErrNotFound is returned by the fake backend when a handle points at
	// a resource that was never created.
	ErrNotFound = errors.New("not found")

	errTokenRequired     = errors.New("github token required")
	errUnknownIssueState = errors.New("issue state must be open, closed or all")
)
