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
	"fmt"
	"strings"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

// Type classifies a tenant. The set is closed: code switching over a Type
// must handle TypeSystem and TypeStandard and reject anything else.
type Type string

const (
	// TypeSystem is the trusted, platform-internal tenant.
	TypeSystem Type = "system"
	// TypeStandard is an isolated, customer-owned tenant.
	TypeStandard Type = "standard"
)

// String returns the string representation of the tenant type.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known tenant types.
func (t Type) IsValid() bool {
	switch t {
	case TypeSystem, TypeStandard:
		return true
	default:
		return false
	}
}

// ParseType converts a case-insensitive string into a Type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeSystem:
		return TypeSystem, nil
	case TypeStandard:
		return TypeStandard, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported tenant type: %q (supported: %s)", s, strings.Join(SupportedTypes(), ", ")))
	}
}

// SupportedTypes returns the tenant type names in display order.
func SupportedTypes() []string {
	return []string{TypeStandard.String(), TypeSystem.String()}
}

// Tenant is an isolated unit of the platform. Values are immutable once
// handed to synthesis.
type Tenant struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// New returns a Standard tenant with the given name.
func New(name string) Tenant {
	return Tenant{Name: name, Type: TypeStandard}
}

// System returns the system tenant.
func System() Tenant {
	return Tenant{Name: SystemTenantName, Type: TypeSystem}
}

// Validate checks the tenant name and type.
func (t Tenant) Validate() error {
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("tenant %q: unsupported tenant type %q", t.Name, t.Type))
	}
	return nil
}
