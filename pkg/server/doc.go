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

// Package server provides the HTTP server behind the tenant bundle API.
//
// API routes registered with WithHandler run behind a middleware chain:
//
//   - metrics (opstrace_http_* on /metrics)
//   - API version negotiation through Accept, e.g.
//     application/vnd.opstrace.tenant.v1+json, echoed in X-API-Version
//   - request ID tracking through X-Request-Id (UUID, generated when absent)
//   - panic recovery
//   - token bucket rate limiting (golang.org/x/time/rate)
//   - debug request logging
//
// System routes skip the chain:
//
//	GET /         service name, version, readiness and routes
//	GET /health   liveness, always 200
//	GET /ready    readiness, 503 until Start and again during Shutdown
//	GET /metrics  Prometheus metrics
//
// Errors are written as ErrorResponse JSON. WriteErrorFromErr derives the
// status from the error's code (see errors.HTTPStatus), so handlers only
// need to return structured errors.
//
// Usage:
//
//	s := server.New(
//	    server.WithName("tenantd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/bundles": handler.HandleBundles,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// PORT sets the listen port (default 8080). SHUTDOWN_TIMEOUT_SECONDS sets
// how long Shutdown waits for in-flight requests (default 30).
package server
