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
	"errors"

	"github.com/urfave/cli/v3"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/tenant"
)

func createCmd() *cli.Command {
	return &cli.Command{
		Name:                  "create",
		EnableShellCompletion: true,
		Usage:                 "Create a standard tenant and render its bundle",
		Description: `Submits the tenant creation form with --name. The form requires a
non-blank name; surrounding whitespace is trimmed. On submit the bundle for
the new standard tenant is rendered to --output.

# Examples

  tenantctl create --name prod --nodes 4 --domain example.com --output ./prod`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "Tenant name",
			},
		}, bundleFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			form := tenant.NewForm(func(ctx context.Context, in tenant.CreateInput, _ tenant.CreateOptions) error {
				return render(ctx, cmd, tenant.New(in.Name))
			})
			form.SetName(cmd.String("name"))

			if err := form.Submit(ctx); err != nil {
				if errors.Is(err, tenant.ErrSubmitDisabled) {
					return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "--name is required", err)
				}
				return err
			}
			return nil
		},
	}
}
