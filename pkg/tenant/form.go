// Copyright (c) 2025, The Opstrace Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tenant

import (
	"context"
	"errors"
	"strings"
)

// ErrSubmitDisabled is returned by Submit while the form fails validation.
var ErrSubmitDisabled = errors.New("submit disabled: name is required")

// ErrNoCreateFunc is returned by Submit on a form built without a callback.
var ErrNoCreateFunc = errors.New("form has no create callback")

// CreateInput is the payload handed to the creation callback.
type CreateInput struct {
	Name string `json:"name"`
}

// CreateOptions tunes what the creation callback provisions alongside the tenant.
type CreateOptions struct {
	CreateGrafanaFolder bool `json:"createGrafanaFolder"`
}

// CreateFunc is invoked once per valid submission.
type CreateFunc func(ctx context.Context, in CreateInput, opts CreateOptions) error

// Form collects a single required name and hands it to a CreateFunc.
// A Form is not safe for concurrent use.
type Form struct {
	name     string
	onCreate CreateFunc
}

// NewForm returns an empty form bound to onCreate.
func NewForm(onCreate CreateFunc) *Form {
	return &Form{onCreate: onCreate}
}

// SetName updates the name field.
func (f *Form) SetName(name string) {
	f.name = name
}

// Name returns the current field value.
func (f *Form) Name() string {
	return f.name
}

// Valid reports whether the name field passes the required check.
func (f *Form) Valid() bool {
	return strings.TrimSpace(f.name) != ""
}

// SubmitDisabled mirrors the state of the submit control.
func (f *Form) SubmitDisabled() bool {
	return !f.Valid()
}

// Submit invokes the creation callback with the trimmed name. Grafana folder
// creation is never requested from this form.
func (f *Form) Submit(ctx context.Context) error {
	if f.SubmitDisabled() {
		return ErrSubmitDisabled
	}
	if f.onCreate == nil {
		return ErrNoCreateFunc
	}
	return f.onCreate(ctx,
		CreateInput{Name: strings.TrimSpace(f.name)},
		CreateOptions{CreateGrafanaFolder: false},
	)
}
