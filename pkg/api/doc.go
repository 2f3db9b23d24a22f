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

// Package api wires the tenant bundle synthesizer into pkg/server.
//
// Endpoints (rate limited):
//   - POST /v1/bundles - synthesize a tenant's Prometheus bundle
//
// System endpoints (not rate limited):
//   - GET /health, GET /ready, GET /metrics
//
// Example:
//
//	curl -X POST "http://localhost:8080/v1/bundles?format=yaml" \
//	  -H "Content-Type: application/json" \
//	  -d '{"tenant":{"name":"prod"},"cluster":{"nodeCount":8,"domain":"example.com"}}'
//
// Environment:
//   - PORT: listen port (default 8080)
//   - LOG_LEVEL: debug, info, warn, error
//   - OPSTRACE_CONFIG: synthesizer settings file (disk size, replicas,
//     storage API host, shard policy, Prometheus image)
//
// Version information is set at build time:
//
//	go build -ldflags="-X 'github.com/pranay01/opstrace/pkg/api.version=1.0.0'"
package api
