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
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

const (
	// SystemTenantName is the name of the platform-internal tenant.
	SystemTenantName = "system"

	// PrometheusName is the base name shared by every object of a tenant's
	// Prometheus bundle.
	PrometheusName = "prometheus"

	namespaceSuffix = "-tenant"
)

// Namespace returns the namespace that holds the tenant's resources.
func Namespace(t Tenant) string {
	return t.Name + namespaceSuffix
}

// ValidateName checks that name is usable as a tenant name: the derived
// namespace must be a valid DNS-1123 label.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "tenant name is required")
	}
	if errs := validation.IsDNS1123Label(name + namespaceSuffix); len(errs) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid tenant name", map[string]any{
				"name":   name,
				"errors": errs,
			})
	}
	return nil
}
