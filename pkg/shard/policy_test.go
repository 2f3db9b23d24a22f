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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Select(t *testing.T) {
	p := DefaultPolicy()

	for n := 0; n <= 6; n++ {
		assert.Equal(t, 2, p.Select(n), "nodeCount=%d", n)
	}
	for _, n := range []int{7, 8, 50, 1000} {
		assert.Equal(t, 3, p.Select(n), "nodeCount=%d", n)
	}
}

func TestPolicy_SelectEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		nodes  int
		want   int
	}{
		{"negative treated as zero", DefaultPolicy(), -3, 2},
		{"empty policy", Policy{}, 5, 1},
		{"no catch-all uses last entry", Policy{{UpperBound: 2, Shards: 1}, {UpperBound: 4, Shards: 5}}, 9, 5},
		{"exact bound", Policy{{UpperBound: 3, Shards: 1}, {UpperBound: Unbounded, Shards: 4}}, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Select(tt.nodes))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Policy
		wantErr bool
	}{
		{
			name: "default notation",
			in:   "6=2,inf=3",
			want: DefaultPolicy(),
		},
		{
			name: "star catch-all and spaces",
			in:   " 3 = 1 , 10=2, *=4",
			want: Policy{{3, 1}, {10, 2}, {Unbounded, 4}},
		},
		{name: "empty", in: "", wantErr: true},
		{name: "missing separator", in: "6:2,inf=3", wantErr: true},
		{name: "no catch-all", in: "6=2,10=3", wantErr: true},
		{name: "not ascending", in: "10=2,6=3,inf=4", wantErr: true},
		{name: "zero shards", in: "6=0,inf=3", wantErr: true},
		{name: "negative bound", in: "-1=1,inf=3", wantErr: true},
		{name: "bad number", in: "six=2,inf=3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_StringRoundTrip(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, "6=2,inf=3", p.String())

	parsed, err := ParsePolicy(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, parsed)
}
