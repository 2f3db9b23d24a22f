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

package images

import (
	"fmt"
	"maps"
	"slices"

	"github.com/distribution/reference"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/version"
)

// Component names a container image the bundle depends on.
type Component string

const (
	// Prometheus is the metrics collector image.
	Prometheus Component = "prometheus"
)

// DefaultPrometheusImage is the collector image used unless overridden.
const DefaultPrometheusImage = "quay.io/prometheus/prometheus:v2.41.0"

// MinPrometheusVersion is the oldest collector release the bundle targets.
// The generated spec relies on remote read and write, both 2.x features.
var MinPrometheusVersion = version.MustParseVersion("v2.0.0")

// Registry maps components to tagged image references.
// A Registry is immutable after construction.
type Registry struct {
	refs map[Component]reference.NamedTagged
}

// DefaultRegistry returns the registry of pinned default images.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(map[Component]string{
		Prometheus: DefaultPrometheusImage,
	})
	if err != nil {
		panic(fmt.Sprintf("invalid default image: %v", err))
	}
	return r
}

// NewRegistry parses each image and returns a registry over them.
// Every image must carry a tag, since the tag doubles as the version.
func NewRegistry(images map[Component]string) (*Registry, error) {
	refs := make(map[Component]reference.NamedTagged, len(images))
	for c, img := range images {
		ref, err := parseComponentImage(c, img)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
				"invalid image reference", err, map[string]any{"component": string(c)})
		}
		refs[c] = ref
	}
	return &Registry{refs: refs}, nil
}

// ParseImage parses a tagged image reference.
func ParseImage(img string) (reference.NamedTagged, error) {
	named, err := reference.ParseNormalizedNamed(img)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to parse image %q", img), err)
	}
	tagged, ok := named.(reference.NamedTagged)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("image %q has no tag", img))
	}
	return tagged, nil
}

// parseComponentImage parses img and, for Prometheus, checks that the tag
// is a supported release.
func parseComponentImage(c Component, img string) (reference.NamedTagged, error) {
	ref, err := ParseImage(img)
	if err != nil {
		return nil, err
	}
	if c != Prometheus {
		return ref, nil
	}

	v, err := version.ParseVersion(ref.Tag())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("image %q: tag is not a release version", img), err)
	}
	if !v.AtLeast(MinPrometheusVersion) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("image %q: prometheus %s is older than the minimum %s", img, v, MinPrometheusVersion))
	}
	return ref, nil
}

// With returns a copy of r with c pointed at img.
func (r *Registry) With(c Component, img string) (*Registry, error) {
	ref, err := parseComponentImage(c, img)
	if err != nil {
		return nil, err
	}
	refs := maps.Clone(r.refs)
	refs[c] = ref
	return &Registry{refs: refs}, nil
}

// Image returns the repository of c without tag, e.g. "quay.io/prometheus/prometheus".
func (r *Registry) Image(c Component) (string, error) {
	ref, err := r.lookup(c)
	if err != nil {
		return "", err
	}
	return ref.Name(), nil
}

// Version returns the tag of c, e.g. "v2.41.0".
func (r *Registry) Version(c Component) (string, error) {
	ref, err := r.lookup(c)
	if err != nil {
		return "", err
	}
	return ref.Tag(), nil
}

// Reference returns the full tagged reference of c.
func (r *Registry) Reference(c Component) (string, error) {
	ref, err := r.lookup(c)
	if err != nil {
		return "", err
	}
	return ref.String(), nil
}

// Components returns the registered components, sorted.
func (r *Registry) Components() []Component {
	return slices.Sorted(maps.Keys(r.refs))
}

func (r *Registry) lookup(c Component) (reference.NamedTagged, error) {
	ref, ok := r.refs[c]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound,
			fmt.Sprintf("no image registered for component %q", c))
	}
	return ref, nil
}
