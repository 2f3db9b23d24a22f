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

// Package cli implements tenantctl, the command-line front end of the
// tenant bundle generator.
//
// # Commands
//
// generate - render a tenant's Prometheus bundle:
//
//	tenantctl generate --tenant prod --type standard --nodes 8 --domain example.com
//
// create - submit the tenant creation form and render the new standard
// tenant's bundle:
//
//	tenantctl create --name prod --nodes 8 --domain example.com --output ./prod
//
// policy - show the shard table in effect and, with --nodes, its decision:
//
//	tenantctl policy --nodes 12
//
// # Cluster state
//
// --nodes and --domain describe the cluster directly. --from-cluster counts
// nodes through --kubeconfig and --domain-from cm://<namespace>/<name> reads
// the "domain" key of a ConfigMap.
//
// # Output
//
// --output takes a directory, - for stdout (the default), or
// oci://registry/repository[:tag] to push the bundle as an OCI artifact
// (tag defaults to latest). Directory and OCI outputs print a summary in
// --format (yaml, json, table).
//
// # Environment Variables
//
//	LOG_LEVEL    logging verbosity (debug, info, warn, error)
//	KUBECONFIG   kubeconfig path for --from-cluster and --domain-from
//
// Version information is embedded at build time:
//
//	go build -ldflags="-X 'github.com/pranay01/opstrace/pkg/cli.version=1.0.0'"
package cli
