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

package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gobuffalo/flect"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

const documentSeparator = "---\n"

// GroupVersionResource returns the API resource r is served under.
func GroupVersionResource(r Resource) schema.GroupVersionResource {
	gvk := r.GroupVersionKind()
	return gvk.GroupVersion().WithResource(flect.Pluralize(strings.ToLower(gvk.Kind)))
}

// typedObject returns the concrete API object behind r.
func typedObject(r Resource) (any, error) {
	switch v := r.(type) {
	case *NetworkEndpoint:
		return v.Service, nil
	case *ScrapeAdvertisement:
		return v.ServiceMonitor, nil
	case *Workload:
		return v.Prometheus, nil
	case *ServiceIdentity:
		return v.ServiceAccount, nil
	case *AccessRole:
		return v.Role, nil
	case *AccessRoleBinding:
		return v.RoleBinding, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("unsupported resource type %T", r))
	}
}

// ToUnstructured converts r to its manifest form with apiVersion and kind set.
// Server-populated fields (status, creationTimestamp) are dropped.
func ToUnstructured(r Resource) (*unstructured.Unstructured, error) {
	obj, err := typedObject(r)
	if err != nil {
		return nil, err
	}

	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to convert %s", r.Kind()), err)
	}

	delete(content, "status")
	pruneServerFields(content)

	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(r.GroupVersionKind())
	return u, nil
}

// pruneServerFields drops null creation timestamps and empty status blocks
// left by embedded templates, such as the PVC template of a Prometheus.
func pruneServerFields(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			if k == "status" && len(val) == 0 {
				delete(m, k)
				continue
			}
			if k == "metadata" {
				if ts, ok := val["creationTimestamp"]; ok && ts == nil {
					delete(val, "creationTimestamp")
				}
				if len(val) == 0 {
					delete(m, k)
					continue
				}
			}
			pruneServerFields(val)
		case []any:
			for _, item := range val {
				if im, ok := item.(map[string]any); ok {
					pruneServerFields(im)
				}
			}
		}
	}
}

// MarshalYAML renders r as a single YAML document.
func MarshalYAML(r Resource) ([]byte, error) {
	u, err := ToUnstructured(r)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(u.Object)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to marshal %s", r.Kind()), err)
	}
	return data, nil
}

// Unstructured converts every resource of c, in order.
func (c Collection) Unstructured() ([]*unstructured.Unstructured, error) {
	out := make([]*unstructured.Unstructured, 0, len(c.items))
	for _, r := range c.items {
		u, err := ToUnstructured(r)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// Manifest renders c as a multi-document YAML stream in collection order.
func (c Collection) Manifest() ([]byte, error) {
	var buf bytes.Buffer
	for i, r := range c.items {
		data, err := MarshalYAML(r)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(documentSeparator)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// ManifestJSON renders c as a v1 List.
func (c Collection) ManifestJSON() ([]byte, error) {
	objs, err := c.Unstructured()
	if err != nil {
		return nil, err
	}

	items := make([]any, len(objs))
	for i, u := range objs {
		items[i] = u.Object
	}
	list := map[string]any{
		"apiVersion": "v1",
		"kind":       "List",
		"items":      items,
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to marshal manifest list", err)
	}
	return data, nil
}
