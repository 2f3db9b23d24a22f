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

package defaults

import "time"

const (
	// ClusterStateTimeout bounds the Kubernetes API calls made while
	// collecting node count and domain for a synthesis run.
	ClusterStateTimeout = 30 * time.Second
)

const (
	// BundleHandlerTimeout is the timeout for bundle synthesis requests.
	BundleHandlerTimeout = 15 * time.Second

	// BundleWriteTimeout is the timeout for writing a bundle to disk.
	BundleWriteTimeout = 30 * time.Second

	// OCIPushTimeout is the timeout for pushing a bundle to a registry.
	OCIPushTimeout = 2 * time.Minute
)

const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

const (
	// ServerMaxBodyBytes caps the size of a bundle request body.
	ServerMaxBodyBytes = 64 << 10
)
