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

// Package bundle writes a tenant bundle to a directory.
//
// Layout:
//
//	01-service-prometheus.yaml
//	02-servicemonitor-prometheus.yaml
//	03-prometheus-prometheus.yaml
//	04-serviceaccount-prometheus.yaml
//	05-role-prometheus.yaml
//	06-rolebinding-prometheus.yaml
//	manifest.yaml
//	checksums.txt
//
// Per-resource files are written concurrently. checksums.txt lists the
// SHA256 of every other file and can be checked with [VerifyChecksums].
//
// [Handler] exposes synthesis over HTTP as POST /v1/bundles, answering with
// the YAML manifest, a JSON List, or this layout as a zip archive.
package bundle
