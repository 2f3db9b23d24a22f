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

// Package defaults provides centralized timeout and size constants used by
// the CLI, the API server and the cluster state collector.
//
// # Timeout Categories
//
//   - Cluster timeouts: Kubernetes API calls made to read node count and domain
//   - Bundle timeouts: HTTP synthesis requests, disk writes and OCI pushes
//   - Server timeouts: HTTP server configuration
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ClusterStateTimeout)
//	defer cancel()
package defaults
