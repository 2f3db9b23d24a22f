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

// Package synth builds a tenant's Prometheus bundle from cluster state.
//
// A Synthesizer validates the tenant, requires a cluster domain, resolves
// the tenant's security mode, picks a shard count from its shard policy and
// assembles six resources in a fixed order:
//
//  1. Service (NetworkEndpoint)
//  2. ServiceMonitor (ScrapeAdvertisement)
//  3. Prometheus (Workload)
//  4. ServiceAccount (ServiceIdentity)
//  5. Role (AccessRole)
//  6. RoleBinding (AccessRoleBinding)
//
// Everything lives in the tenant's namespace ("<name>-tenant") under the
// name "prometheus". Standard tenants discover only objects labeled with
// their own name; the system tenant discovers everything and authenticates
// to the storage API with a mounted bearer token.
//
// Usage:
//
//	s, err := synth.New(synth.WithReplicas(2))
//	if err != nil {
//	    return err
//	}
//	c, err := s.Synthesize(target, cluster.State{NodeCount: 8, Domain: "example.com"}, tenant.New("prod"))
//
// A Synthesizer holds no mutable state, so concurrent Synthesize calls are
// safe. Synthesis is a pure function of its inputs: the same inputs always
// produce deeply equal bundles.
package synth
