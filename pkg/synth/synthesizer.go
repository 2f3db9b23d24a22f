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
	"fmt"
	"log/slog"
	"time"

	"github.com/pranay01/opstrace/pkg/cluster"
	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/resource"
	"github.com/pranay01/opstrace/pkg/security"
	"github.com/pranay01/opstrace/pkg/tenant"
)

// Synthesizer turns cluster state and a tenant into a Prometheus bundle.
// It is immutable after New and safe for concurrent use.
type Synthesizer struct {
	settings Settings
}

// New returns a Synthesizer with default settings overridden by opts.
func New(opts ...Option) (*Synthesizer, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if err := settings.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid synthesizer settings", err)
	}
	return &Synthesizer{settings: settings.clone()}, nil
}

// Settings returns a copy of the settings in effect.
func (s *Synthesizer) Settings() Settings {
	return s.settings.clone()
}

// Shards returns the shard count for a cluster of nodeCount nodes.
func (s *Synthesizer) Shards(nodeCount int) int {
	return s.settings.ShardPolicy.Select(nodeCount)
}

// Synthesize builds the bundle for t on a cluster described by state.
// target is carried on every resource unchanged. On error no bundle is
// returned.
func (s *Synthesizer) Synthesize(target resource.Target, state cluster.State, t tenant.Tenant) (resource.Collection, error) {
	start := time.Now()

	c, err := s.synthesize(target, state, t)

	typeLabel := t.Type.String()
	if !t.Type.IsValid() {
		typeLabel = "unknown"
	}
	synthesisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		bundlesTotal.WithLabelValues(typeLabel, resultError).Inc()
		slog.Debug("bundle synthesis failed",
			"tenant", t.Name,
			"type", t.Type,
			"error", err,
		)
		return resource.Collection{}, err
	}

	bundlesTotal.WithLabelValues(typeLabel, resultSuccess).Inc()
	slog.Debug("bundle synthesized",
		"tenant", t.Name,
		"type", t.Type,
		"nodes", state.NodeCount,
		"resources", c.Len(),
		"duration", time.Since(start),
	)
	return c, nil
}

func (s *Synthesizer) synthesize(target resource.Target, state cluster.State, t tenant.Tenant) (resource.Collection, error) {
	if err := t.Validate(); err != nil {
		return resource.Collection{}, err
	}

	domain, err := state.RequireDomain()
	if err != nil {
		return resource.Collection{}, err
	}

	decision, err := security.Resolve(t.Type)
	if err != nil {
		return resource.Collection{}, err
	}

	shards := s.settings.ShardPolicy.Select(state.NodeCount)
	shardsSelected.Observe(float64(shards))

	c, err := Assemble(Params{
		Target:    target,
		Tenant:    t,
		Namespace: tenant.Namespace(t),
		Name:      tenant.PrometheusName,
		Domain:    domain,
		Shards:    shards,
		Security:  decision,
		Settings:  s.settings,
	})
	if err != nil {
		return resource.Collection{}, apperrors.Wrap(apperrors.CodeOf(err),
			fmt.Sprintf("failed to assemble bundle for tenant %q", t.Name), err)
	}
	return c, nil
}
