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
	"slices"

	apiresource "k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/images"
	"github.com/pranay01/opstrace/pkg/shard"
)

const (
	// DefaultStorageAPIHost is the in-namespace service of the long-term
	// storage API that receives remote write and serves remote read.
	DefaultStorageAPIHost = "cortex-api"

	// DefaultReplicas is the replica count of each shard.
	DefaultReplicas int32 = 1
)

// DefaultDiskSize is the storage requested per Prometheus replica.
var DefaultDiskSize = apiresource.MustParse("10Gi")

// Settings are the fixed values every bundle is generated with.
type Settings struct {
	DiskSize       apiresource.Quantity
	Replicas       int32
	StorageAPIHost string
	ShardPolicy    shard.Policy
	Images         *images.Registry
}

// DefaultSettings returns the settings used when no option overrides them.
func DefaultSettings() Settings {
	return Settings{
		DiskSize:       DefaultDiskSize.DeepCopy(),
		Replicas:       DefaultReplicas,
		StorageAPIHost: DefaultStorageAPIHost,
		ShardPolicy:    shard.DefaultPolicy(),
		Images:         images.DefaultRegistry(),
	}
}

// Validate checks the settings can produce a well-formed bundle.
func (s Settings) Validate() error {
	if s.DiskSize.Sign() <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("disk size must be positive, got %s", s.DiskSize.String()))
	}
	if s.Replicas < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("replicas must be at least 1, got %d", s.Replicas))
	}
	if errs := validation.IsDNS1123Label(s.StorageAPIHost); len(errs) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid storage API host %q", s.StorageAPIHost),
			map[string]any{"errors": errs})
	}
	if err := s.ShardPolicy.Validate(); err != nil {
		return err
	}
	if s.Images == nil {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "image registry is required")
	}
	if _, err := s.Images.Reference(images.Prometheus); err != nil {
		return err
	}
	return nil
}

func (s Settings) clone() Settings {
	s.DiskSize = s.DiskSize.DeepCopy()
	s.ShardPolicy = slices.Clone(s.ShardPolicy)
	return s
}

// Option configures a Synthesizer.
type Option func(*Settings)

// WithDiskSize sets the persistent volume size of each replica.
func WithDiskSize(q apiresource.Quantity) Option {
	return func(s *Settings) {
		s.DiskSize = q.DeepCopy()
	}
}

// WithReplicas sets the replica count of each shard.
func WithReplicas(n int32) Option {
	return func(s *Settings) {
		s.Replicas = n
	}
}

// WithStorageAPIHost sets the storage API service name.
func WithStorageAPIHost(host string) Option {
	return func(s *Settings) {
		s.StorageAPIHost = host
	}
}

// WithShardPolicy replaces the node count to shard count table.
func WithShardPolicy(p shard.Policy) Option {
	return func(s *Settings) {
		s.ShardPolicy = slices.Clone(p)
	}
}

// WithImages sets the image registry.
func WithImages(r *images.Registry) Option {
	return func(s *Settings) {
		s.Images = r
	}
}
