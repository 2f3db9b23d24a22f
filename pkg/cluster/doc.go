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

// Package cluster describes the cluster a tenant bundle targets and reads
// that description from the Kubernetes API.
//
// [State] is the value synthesis consumes. [Collector] fills it in by counting
// nodes and resolving the cluster domain, either given literally or read from
// the "domain" key of a ConfigMap addressed as cm://namespace/name.
package cluster
