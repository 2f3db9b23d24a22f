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

package shard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unbounded marks the final catch-all entry of a policy.
const Unbounded = math.MaxInt

// Threshold maps every node count up to and including UpperBound to Shards.
type Threshold struct {
	UpperBound int `json:"upperBound" yaml:"upperBound"`
	Shards     int `json:"shards" yaml:"shards"`
}

// Policy is an ordered threshold table evaluated in ascending UpperBound
// order. A valid Policy ends with an Unbounded entry.
type Policy []Threshold

// DefaultPolicy runs 2 shards on clusters of up to 6 nodes and 3 above.
func DefaultPolicy() Policy {
	return Policy{
		{UpperBound: 6, Shards: 2},
		{UpperBound: Unbounded, Shards: 3},
	}
}

// Select returns the shard count of the first threshold whose upper bound is
// at least nodeCount. Negative counts are treated as 0. On a policy without a
// catch-all entry the last threshold is used.
func (p Policy) Select(nodeCount int) int {
	if nodeCount < 0 {
		nodeCount = 0
	}
	for _, t := range p {
		if t.UpperBound >= nodeCount {
			return t.Shards
		}
	}
	if len(p) == 0 {
		return 1
	}
	return p[len(p)-1].Shards
}

// Validate checks that the table is non-empty, strictly ascending, yields at
// least one shard everywhere and ends with an Unbounded entry.
func (p Policy) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("shard policy is empty")
	}
	for i, t := range p {
		if t.Shards < 1 {
			return fmt.Errorf("shard policy entry %d: shards must be >= 1, got %d", i, t.Shards)
		}
		if t.UpperBound < 0 {
			return fmt.Errorf("shard policy entry %d: upper bound must be >= 0, got %d", i, t.UpperBound)
		}
		if i > 0 && t.UpperBound <= p[i-1].UpperBound {
			return fmt.Errorf("shard policy entry %d: upper bound %d is not greater than %d",
				i, t.UpperBound, p[i-1].UpperBound)
		}
	}
	if p[len(p)-1].UpperBound != Unbounded {
		return fmt.Errorf("shard policy must end with an unbounded entry")
	}
	return nil
}

// String renders the policy in the format accepted by ParsePolicy.
func (p Policy) String() string {
	parts := make([]string, 0, len(p))
	for _, t := range p {
		bound := strconv.Itoa(t.UpperBound)
		if t.UpperBound == Unbounded {
			bound = "inf"
		}
		parts = append(parts, bound+"="+strconv.Itoa(t.Shards))
	}
	return strings.Join(parts, ",")
}

// ParsePolicy parses "6=2,inf=3" style tables and validates the result.
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("shard policy is empty")
	}

	var p Policy
	for _, entry := range strings.Split(s, ",") {
		bound, shards, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			return nil, fmt.Errorf("invalid shard policy entry %q: expected <maxNodes>=<shards>", entry)
		}

		var t Threshold
		switch b := strings.ToLower(strings.TrimSpace(bound)); b {
		case "inf", "*":
			t.UpperBound = Unbounded
		default:
			n, err := strconv.Atoi(b)
			if err != nil {
				return nil, fmt.Errorf("invalid upper bound in %q: %w", entry, err)
			}
			t.UpperBound = n
		}

		n, err := strconv.Atoi(strings.TrimSpace(shards))
		if err != nil {
			return nil, fmt.Errorf("invalid shard count in %q: %w", entry, err)
		}
		t.Shards = n

		p = append(p, t)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
