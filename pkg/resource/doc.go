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

// Package resource defines the closed set of objects that make up a tenant
// Prometheus bundle and the ordered collection they are returned in.
//
// Each descriptor wraps one typed cluster object:
//
//	NetworkEndpoint      Service
//	ScrapeAdvertisement  ServiceMonitor
//	Workload             Prometheus
//	ServiceIdentity      ServiceAccount
//	AccessRole           Role
//	AccessRoleBinding    RoleBinding
//
// Collections are produced by a [Builder] and rendered to manifests with
// [Collection.Manifest] or [Collection.Unstructured]. Applying them to a
// cluster is left to the caller.
package resource
