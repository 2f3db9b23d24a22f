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
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/pranay01/opstrace/pkg/header"
	"github.com/pranay01/opstrace/pkg/serializer"
	"github.com/pranay01/opstrace/pkg/shard"
)

// PolicyReport is the output of the policy command.
type PolicyReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Policy     string       `json:"policy" yaml:"policy"`
	Thresholds []PolicyStep `json:"thresholds" yaml:"thresholds"`
	Nodes      *int         `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Shards     *int         `json:"shards,omitempty" yaml:"shards,omitempty"`
}

// PolicyStep is one row of the shard table.
type PolicyStep struct {
	MaxNodes string `json:"maxNodes" yaml:"maxNodes"`
	Shards   int    `json:"shards" yaml:"shards"`
}

func newPolicyReport(p shard.Policy) *PolicyReport {
	r := &PolicyReport{
		Policy:     p.String(),
		Thresholds: make([]PolicyStep, len(p)),
	}
	for i, t := range p {
		bound := "inf"
		if t.UpperBound != shard.Unbounded {
			bound = strconv.Itoa(t.UpperBound)
		}
		r.Thresholds[i] = PolicyStep{MaxNodes: bound, Shards: t.Shards}
	}
	r.Init(header.KindShardPolicy, header.APIVersion, version)
	return r
}

func policyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "policy",
		EnableShellCompletion: true,
		Usage:                 "Show the effective shard policy",
		Description: `Prints the shard table in effect after --config and --shard-policy,
and with --nodes the shard count chosen for that cluster size.

# Examples

  tenantctl policy
  tenantctl policy --nodes 12 --shard-policy "4=1,16=4,inf=8" --format json`,
		Flags: []cli.Flag{
			configFlag(),
			shardPolicyFlag(),
			nodesFlag(),
			formatFlag(serializer.FormatTable),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := serializer.ParseFormat(cmd.String(flagFormat))
			if err != nil {
				return err
			}

			s, err := newSynthesizer(cmd)
			if err != nil {
				return err
			}

			report := newPolicyReport(s.Settings().ShardPolicy)
			if cmd.IsSet(flagNodes) {
				nodes := cmd.Int(flagNodes)
				shards := s.Shards(nodes)
				report.Nodes = &nodes
				report.Shards = &shards
			}

			return serializer.NewWriter(format, cmd.Root().Writer).Serialize(ctx, report)
		},
	}
}
