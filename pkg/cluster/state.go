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

package cluster

import (
	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

// State is a read-only snapshot of the cluster a bundle is generated for.
type State struct {
	NodeCount int    `json:"nodeCount" yaml:"nodeCount"`
	Domain    string `json:"domain" yaml:"domain"`
}

// RequireDomain returns the cluster domain or an error when it is undefined.
func (s State) RequireDomain() (string, error) {
	if s.Domain == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "cluster domain is not defined")
	}
	return s.Domain, nil
}
