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

// Package client builds Kubernetes clients for reading cluster state.
//
// [GetKubeClient] returns a process-wide client created once with sync.Once.
// [ForKubeconfig] and [BuildKubeClient] serve an explicit --kubeconfig.
//
// Configuration is discovered in order: explicit path, KUBECONFIG,
// ~/.kube/config, and finally the in-cluster service account.
package client
