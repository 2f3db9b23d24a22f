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

package config

import (
	"fmt"
	"strings"

	apiresource "k8s.io/apimachinery/pkg/api/resource"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/images"
	"github.com/pranay01/opstrace/pkg/serializer"
	"github.com/pranay01/opstrace/pkg/shard"
	"github.com/pranay01/opstrace/pkg/synth"
)

// File is the generation settings file. Every key is optional.
//
//	diskSize: 20Gi
//	replicas: 2
//	storageAPIHost: cortex-api
//	shardPolicy: "6=2,inf=3"
//	prometheusImage: quay.io/prometheus/prometheus:v2.41.0
type File struct {
	DiskSize        string `json:"diskSize,omitempty" yaml:"diskSize,omitempty"`
	Replicas        *int32 `json:"replicas,omitempty" yaml:"replicas,omitempty"`
	StorageAPIHost  string `json:"storageAPIHost,omitempty" yaml:"storageAPIHost,omitempty"`
	ShardPolicy     string `json:"shardPolicy,omitempty" yaml:"shardPolicy,omitempty"`
	PrometheusImage string `json:"prometheusImage,omitempty" yaml:"prometheusImage,omitempty"`
}

// Load reads a settings file. An empty path yields an empty File.
func Load(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return &File{}, nil
	}
	f, err := serializer.FromFile[File](path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Options converts the file into synthesizer options. Keys left unset keep
// the synthesizer defaults.
func (f *File) Options() ([]synth.Option, error) {
	var opts []synth.Option

	if f.DiskSize != "" {
		q, err := apiresource.ParseQuantity(f.DiskSize)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid diskSize %q", f.DiskSize), err)
		}
		opts = append(opts, synth.WithDiskSize(q))
	}

	if f.Replicas != nil {
		opts = append(opts, synth.WithReplicas(*f.Replicas))
	}

	if f.StorageAPIHost != "" {
		opts = append(opts, synth.WithStorageAPIHost(f.StorageAPIHost))
	}

	if f.ShardPolicy != "" {
		p, err := shard.ParsePolicy(f.ShardPolicy)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid shardPolicy %q", f.ShardPolicy), err)
		}
		opts = append(opts, synth.WithShardPolicy(p))
	}

	if f.PrometheusImage != "" {
		reg, err := images.DefaultRegistry().With(images.Prometheus, f.PrometheusImage)
		if err != nil {
			return nil, err
		}
		opts = append(opts, synth.WithImages(reg))
	}

	return opts, nil
}
