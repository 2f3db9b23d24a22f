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

package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/pranay01/opstrace/pkg/defaults"
	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/k8s/client"
)

const (
	// ConfigMapURIScheme prefixes a domain source read from a ConfigMap.
	ConfigMapURIScheme = "cm://"

	// DomainKey is the ConfigMap key holding the cluster domain.
	DomainKey = "domain"

	nodePageSize int64 = 500
)

// DomainSource is either a literal domain or a ConfigMap reference of the
// form cm://namespace/name.
type DomainSource string

// IsConfigMap reports whether the source refers to a ConfigMap.
func (d DomainSource) IsConfigMap() bool {
	return strings.HasPrefix(string(d), ConfigMapURIScheme)
}

// Collector reads cluster state from the Kubernetes API.
type Collector struct {
	Client kubernetes.Interface
}

// Collect returns the node count and resolved domain of the cluster.
func (c *Collector) Collect(ctx context.Context, domain DomainSource) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.ClusterStateTimeout)
	defer cancel()

	cs, err := c.getClient()
	if err != nil {
		return State{}, err
	}

	nodes, err := countNodes(ctx, cs)
	if err != nil {
		return State{}, err
	}

	resolved, err := resolveDomain(ctx, cs, domain)
	if err != nil {
		return State{}, err
	}

	slog.Debug("collected cluster state",
		slog.Int("nodes", nodes),
		slog.String("domain", resolved),
	)

	return State{NodeCount: nodes, Domain: resolved}, nil
}

func (c *Collector) getClient() (kubernetes.Interface, error) {
	if c.Client != nil {
		return c.Client, nil
	}
	cs, _, err := client.GetKubeClient()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to get kubernetes client", err)
	}
	return cs, nil
}

// countNodes pages through the node list and returns its length.
func countNodes(ctx context.Context, cs kubernetes.Interface) (int, error) {
	total := 0
	continueToken := ""
	for {
		list, err := cs.CoreV1().Nodes().List(ctx, metav1.ListOptions{
			Limit:    nodePageSize,
			Continue: continueToken,
		})
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to list nodes", err)
		}
		total += len(list.Items)

		continueToken = list.Continue
		if continueToken == "" || len(list.Items) == 0 {
			return total, nil
		}
	}
}

func resolveDomain(ctx context.Context, cs kubernetes.Interface, source DomainSource) (string, error) {
	if !source.IsConfigMap() {
		return strings.TrimSpace(string(source)), nil
	}

	namespace, name, err := ParseConfigMapURI(string(source))
	if err != nil {
		return "", err
	}

	cm, err := cs.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "failed to read domain ConfigMap", err,
			map[string]any{"namespace": namespace, "name": name})
	}

	domain := strings.TrimSpace(cm.Data[DomainKey])
	if domain == "" {
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("ConfigMap has no %q key", DomainKey),
			map[string]any{"namespace": namespace, "name": name})
	}
	return domain, nil
}

// ParseConfigMapURI splits cm://namespace/name into its parts.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme))
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri))
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	if namespace == "" || name == "" {
		return "", "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			"invalid ConfigMap URI: namespace and name are required")
	}
	return namespace, name, nil
}
