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

// Package shard decides how many Prometheus shards a tenant runs.
//
// The decision depends on the cluster node count only and is driven by a
// [Policy]: an ordered table of (upper bound, shard count) pairs where the
// first pair whose inclusive upper bound covers the node count wins.
//
//	shard.DefaultPolicy().Select(4)  // 2
//	shard.DefaultPolicy().Select(50) // 3
//
// Policies are configuration, not code; [ParsePolicy] reads the compact
// "6=2,inf=3" notation used by the CLI flag and the config file.
package shard
