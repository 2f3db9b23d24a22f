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

package security

import (
	"fmt"
	"path"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/tenant"
)

const (
	// SystemSecretName is the secret holding the system tenant's API token.
	SystemSecretName = "system-tenant-api-auth-token"

	// secretMountRoot is where the Prometheus operator mounts spec.secrets.
	secretMountRoot = "/etc/prometheus/secrets"
)

// SystemBearerTokenFile is the mounted path of the system tenant's token.
var SystemBearerTokenFile = path.Join(secretMountRoot, SystemSecretName, "token")

// Decision is the credential and discovery posture of one tenant's
// Prometheus. An empty BearerTokenFile means no token is used.
type Decision struct {
	SecretNames     []string `json:"secretNames,omitempty" yaml:"secretNames,omitempty"`
	BearerTokenFile string   `json:"bearerTokenFile,omitempty" yaml:"bearerTokenFile,omitempty"`
	ScopedDiscovery bool     `json:"scopedDiscovery" yaml:"scopedDiscovery"`
}

// HasBearerToken reports whether outbound requests authenticate with a token.
func (d Decision) HasBearerToken() bool {
	return d.BearerTokenFile != ""
}

// Resolve maps a tenant type to its security posture. The system tenant
// discovers targets cluster-wide and authenticates to the storage API with a
// bearer token; standard tenants are restricted to objects labeled with their
// own name and use no token.
func Resolve(t tenant.Type) (Decision, error) {
	switch t {
	case tenant.TypeSystem:
		return Decision{
			SecretNames:     []string{SystemSecretName},
			BearerTokenFile: SystemBearerTokenFile,
			ScopedDiscovery: false,
		}, nil
	case tenant.TypeStandard:
		return Decision{
			SecretNames:     []string{},
			ScopedDiscovery: true,
		}, nil
	default:
		return Decision{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported tenant type %q", t), map[string]any{
				"supported": tenant.SupportedTypes(),
			})
	}
}
