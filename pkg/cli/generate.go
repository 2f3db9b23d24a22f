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

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pranay01/opstrace/pkg/tenant"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "generate",
		Aliases:               []string{"gen"},
		EnableShellCompletion: true,
		Usage:                 "Generate the Prometheus bundle for a tenant",
		Description: `Generates the six resources that make up a tenant's Prometheus bundle.

Node count and domain come from flags, or from the cluster with --from-cluster
and --domain-from. Shard count follows the shard policy (default: up to 6
nodes 2 shards, otherwise 3).

# Examples

Print a bundle for a standard tenant:
  tenantctl generate --tenant prod --nodes 8 --domain example.com

Write the system tenant bundle to a directory, reading the cluster:
  tenantctl generate --tenant system --type system --from-cluster \
    --domain-from cm://kube-system/cluster-info --output ./bundle

Push a bundle to an OCI registry:
  tenantctl generate --tenant prod --nodes 3 --domain example.com \
    --output oci://ghcr.io/acme/tenant-bundles:prod`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "tenant",
				Required: true,
				Usage:    "Tenant name (DNS-1123 label)",
			},
			&cli.StringFlag{
				Name:  "type",
				Value: tenant.TypeStandard.String(),
				Usage: fmt.Sprintf("Tenant type (supported values: %s)", strings.Join(tenant.SupportedTypes(), ", ")),
			},
		}, bundleFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			typ, err := tenant.ParseType(cmd.String("type"))
			if err != nil {
				return err
			}
			t := tenant.Tenant{Name: strings.TrimSpace(cmd.String("tenant")), Type: typ}
			return render(ctx, cmd, t)
		},
	}
}
