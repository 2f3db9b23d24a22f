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

package synth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

var (
	bundlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opstrace_tenant_bundles_total",
			Help: "Total number of tenant bundle synthesis attempts",
		},
		[]string{"tenant_type", "result"},
	)

	synthesisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "opstrace_tenant_bundle_synthesis_duration_seconds",
			Help:    "Duration of tenant bundle synthesis in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	shardsSelected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "opstrace_tenant_bundle_shards",
			Help:    "Shard count selected for synthesized bundles",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		},
	)
)
