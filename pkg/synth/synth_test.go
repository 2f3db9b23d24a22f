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
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	monitoringv1 "github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	apiresource "k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/pranay01/opstrace/pkg/cluster"
	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/images"
	"github.com/pranay01/opstrace/pkg/resource"
	"github.com/pranay01/opstrace/pkg/security"
	"github.com/pranay01/opstrace/pkg/shard"
	"github.com/pranay01/opstrace/pkg/tenant"
)

const testDomain = "acme.opstrace.io"

func mustSynthesize(t *testing.T, tn tenant.Tenant, nodes int, opts ...Option) resource.Collection {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	c, err := s.Synthesize("test-context", cluster.State{NodeCount: nodes, Domain: testDomain}, tn)
	require.NoError(t, err)
	return c
}

func prometheusOf(t *testing.T, c resource.Collection) *monitoringv1.Prometheus {
	t.Helper()
	w, ok := c.Workload()
	require.True(t, ok, "bundle has no workload")
	return w.Prometheus
}

func TestSynthesize_Order(t *testing.T) {
	c := mustSynthesize(t, tenant.New("acme"), 4)
	assert.Equal(t, resource.Kinds(), c.Kinds())
}

func TestSynthesize_ExampleStandard(t *testing.T) {
	c := mustSynthesize(t, tenant.Tenant{Name: "acme", Type: tenant.TypeStandard}, 4)
	require.Equal(t, 6, c.Len())

	p := prometheusOf(t, c)
	require.NotNil(t, p.Spec.Shards)
	assert.Equal(t, int32(2), *p.Spec.Shards)

	want := &metav1.LabelSelector{MatchLabels: map[string]string{"tenant": "acme"}}
	assert.Equal(t, want, p.Spec.ServiceMonitorSelector)
	assert.Equal(t, want, p.Spec.PodMonitorSelector)
	assert.Equal(t, want, p.Spec.RuleSelector)

	require.Len(t, p.Spec.RemoteWrite, 1)
	assert.True(t, strings.HasSuffix(p.Spec.RemoteWrite[0].URL, "/api/v1/push"))
	assert.Empty(t, p.Spec.RemoteWrite[0].BearerTokenFile)
	require.Len(t, p.Spec.RemoteRead, 1)
	assert.Empty(t, p.Spec.RemoteRead[0].BearerTokenFile)
	assert.Empty(t, p.Spec.Secrets)

	manifest, err := c.Manifest()
	require.NoError(t, err)
	assert.NotContains(t, string(manifest), "bearerTokenFile")
	assert.NotContains(t, string(manifest), "secrets:")
}

func TestSynthesize_ExampleSystem(t *testing.T) {
	c := mustSynthesize(t, tenant.System(), 50)

	p := prometheusOf(t, c)
	require.NotNil(t, p.Spec.Shards)
	assert.Equal(t, int32(3), *p.Spec.Shards)
	assert.Equal(t, []string{security.SystemSecretName}, p.Spec.Secrets)

	require.Len(t, p.Spec.RemoteRead, 1)
	assert.Equal(t, security.SystemBearerTokenFile, p.Spec.RemoteRead[0].BearerTokenFile)
	require.Len(t, p.Spec.RemoteWrite, 1)
	assert.Equal(t, security.SystemBearerTokenFile, p.Spec.RemoteWrite[0].BearerTokenFile)

	empty := &metav1.LabelSelector{}
	assert.Equal(t, empty, p.Spec.ServiceMonitorSelector)
	assert.Equal(t, empty, p.Spec.PodMonitorSelector)
	assert.Equal(t, empty, p.Spec.RuleSelector)

	manifest, err := c.Manifest()
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "serviceMonitorSelector: {}")
}

func TestSynthesize_ShardsFollowNodeCount(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	for nodes := 0; nodes <= 12; nodes++ {
		c, err := s.Synthesize(nil, cluster.State{NodeCount: nodes, Domain: testDomain}, tenant.New("acme"))
		require.NoError(t, err)

		want := int32(3)
		if nodes <= 6 {
			want = 2
		}
		assert.Equal(t, want, *prometheusOf(t, c).Spec.Shards, "nodes=%d", nodes)
	}
}

func TestSynthesize_CustomShardPolicy(t *testing.T) {
	policy, err := shard.ParsePolicy("3=1,10=4,inf=8")
	require.NoError(t, err)

	c := mustSynthesize(t, tenant.New("acme"), 11, WithShardPolicy(policy))
	assert.Equal(t, int32(8), *prometheusOf(t, c).Spec.Shards)
}

func TestSynthesize_Idempotent(t *testing.T) {
	for _, tn := range []tenant.Tenant{tenant.New("acme"), tenant.System()} {
		t.Run(tn.Name, func(t *testing.T) {
			a := mustSynthesize(t, tn, 9)
			b := mustSynthesize(t, tn, 9)

			if diff := cmp.Diff(a.Items(), b.Items()); diff != "" {
				t.Errorf("bundles differ (-first +second):\n%s", diff)
			}

			ma, err := a.Manifest()
			require.NoError(t, err)
			mb, err := b.Manifest()
			require.NoError(t, err)
			assert.Equal(t, string(ma), string(mb))
		})
	}
}

func TestSynthesize_FreshObjectsPerCall(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	state := cluster.State{NodeCount: 1, Domain: testDomain}

	a, err := s.Synthesize(nil, state, tenant.System())
	require.NoError(t, err)
	prometheusOf(t, a).Spec.Secrets[0] = "mutated"

	b, err := s.Synthesize(nil, state, tenant.System())
	require.NoError(t, err)
	assert.Equal(t, security.SystemSecretName, prometheusOf(t, b).Spec.Secrets[0])
}

func TestSynthesize_ReferentialIntegrity(t *testing.T) {
	for _, tn := range []tenant.Tenant{tenant.New("acme"), tenant.System()} {
		t.Run(tn.Name, func(t *testing.T) {
			c := mustSynthesize(t, tn, 2)

			sa := c.OfKind(resource.KindServiceIdentity)[0].(*resource.ServiceIdentity).ServiceAccount
			role := c.OfKind(resource.KindAccessRole)[0].(*resource.AccessRole).Role
			rb := c.OfKind(resource.KindAccessRoleBinding)[0].(*resource.AccessRoleBinding).RoleBinding

			require.Len(t, rb.Subjects, 1)
			assert.Equal(t, rbacv1.ServiceAccountKind, rb.Subjects[0].Kind)
			assert.Equal(t, sa.Name, rb.Subjects[0].Name)
			assert.Equal(t, sa.Namespace, rb.Subjects[0].Namespace)
			assert.Equal(t, "Role", rb.RoleRef.Kind)
			assert.Equal(t, role.Name, rb.RoleRef.Name)
			assert.Equal(t, rbacv1.GroupName, rb.RoleRef.APIGroup)

			assert.Equal(t, sa.Name, prometheusOf(t, c).Spec.ServiceAccountName)
		})
	}
}

func TestSynthesize_SharedNamespaceAndName(t *testing.T) {
	c := mustSynthesize(t, tenant.New("acme"), 2)

	for _, r := range c.Items() {
		obj := r.Object()
		assert.Equal(t, "acme-tenant", obj.GetNamespace(), r.Kind())
		assert.Equal(t, tenant.PrometheusName, obj.GetName(), r.Kind())
		assert.Equal(t, "test-context", r.Handle(), r.Kind())
	}
}

func TestSynthesize_ManifestFields(t *testing.T) {
	c := mustSynthesize(t, tenant.New("acme"), 2)

	svc := c.At(0).(*resource.NetworkEndpoint).Service
	require.Len(t, svc.Spec.Ports, 1)
	assert.Equal(t, int32(9090), svc.Spec.Ports[0].Port)
	assert.Equal(t, "web", svc.Spec.Ports[0].Name)
	assert.Equal(t, corev1.ServiceAffinityClientIP, svc.Spec.SessionAffinity)
	assert.Equal(t, map[string]string{"app": "prometheus", "prometheus": "prometheus"}, svc.Spec.Selector)

	sm := c.At(1).(*resource.ScrapeAdvertisement).ServiceMonitor
	require.Len(t, sm.Spec.Endpoints, 1)
	assert.Equal(t, monitoringv1.Duration("30s"), sm.Spec.Endpoints[0].Interval)
	assert.Equal(t, "/prometheus/metrics", sm.Spec.Endpoints[0].Path)
	assert.Equal(t, "system", sm.Labels["tenant"])
	assert.Equal(t, svc.Labels["prometheus"], sm.Spec.Selector.MatchLabels["prometheus"])

	p := prometheusOf(t, c)
	assert.Equal(t, "https://system."+testDomain+"/prometheus", p.Spec.ExternalURL)
	assert.Equal(t, "/prometheus", p.Spec.RoutePrefix)
	assert.Equal(t, "http://cortex-api.acme-tenant.svc.cluster.local:8080/api/v1/push", p.Spec.RemoteWrite[0].URL)
	assert.Equal(t, "http://cortex-api.acme-tenant.svc.cluster.local:8080/api/v1/read", p.Spec.RemoteRead[0].URL)
	assert.Equal(t, int32(1), *p.Spec.Replicas)
	assert.Equal(t, int64(1000), *p.Spec.SecurityContext.RunAsUser)
	assert.Equal(t, int64(2000), *p.Spec.SecurityContext.FSGroup)
	assert.True(t, *p.Spec.SecurityContext.RunAsNonRoot)
	assert.Equal(t, "quay.io/prometheus/prometheus:v2.41.0", ptr.Deref(p.Spec.Image, ""))
	assert.Equal(t, "v2.41.0", p.Spec.Version)

	terms := p.Spec.Affinity.PodAntiAffinity.RequiredDuringSchedulingIgnoredDuringExecution
	require.Len(t, terms, 1)
	assert.Equal(t, "kubernetes.io/hostname", terms[0].TopologyKey)

	storage := p.Spec.Storage.VolumeClaimTemplate.Spec.Resources.Requests[corev1.ResourceStorage]
	assert.Equal(t, "10Gi", storage.String())

	am := p.Spec.Alerting.Alertmanagers
	require.Len(t, am, 1)
	assert.Equal(t, "alertmanager", am[0].Name)
	assert.Equal(t, "/alertmanager", am[0].PathPrefix)
	assert.Equal(t, "acme-tenant", ptr.Deref(am[0].Namespace, ""))

	role := c.At(4).(*resource.AccessRole).Role
	require.Len(t, role.Rules, 1)
	assert.Equal(t, []string{"get", "list", "watch"}, role.Rules[0].Verbs)
	assert.Equal(t, []string{"services", "endpoints", "pods"}, role.Rules[0].Resources)
}

func TestSynthesize_Settings(t *testing.T) {
	reg, err := images.DefaultRegistry().With(images.Prometheus, "prom/prometheus:v2.50.1")
	require.NoError(t, err)

	c := mustSynthesize(t, tenant.New("acme"), 2,
		WithDiskSize(apiresource.MustParse("50Gi")),
		WithReplicas(2),
		WithStorageAPIHost("mimir"),
		WithImages(reg),
	)

	p := prometheusOf(t, c)
	storage := p.Spec.Storage.VolumeClaimTemplate.Spec.Resources.Requests[corev1.ResourceStorage]
	assert.Equal(t, "50Gi", storage.String())
	assert.Equal(t, int32(2), *p.Spec.Replicas)
	assert.True(t, strings.HasPrefix(p.Spec.RemoteWrite[0].URL, "http://mimir.acme-tenant."))
	assert.Equal(t, "v2.50.1", p.Spec.Version)
	assert.Equal(t, "docker.io/prom/prometheus:v2.50.1", ptr.Deref(p.Spec.Image, ""))
}

func TestSynthesize_ImageIsPinnedToTag(t *testing.T) {
	for _, tn := range []tenant.Tenant{tenant.System(), tenant.New("acme")} {
		t.Run(tn.Name, func(t *testing.T) {
			c := mustSynthesize(t, tn, 3)

			p := prometheusOf(t, c)
			require.NotNil(t, p.Spec.Image)
			assert.True(t, strings.HasSuffix(*p.Spec.Image, ":v2.41.0"), "image %q", *p.Spec.Image)

			manifest, err := c.Manifest()
			require.NoError(t, err)
			assert.Contains(t, string(manifest), "image: quay.io/prometheus/prometheus:v2.41.0")
			assert.Contains(t, string(manifest), "version: v2.41.0")
		})
	}
}

func TestSynthesize_Errors(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	tests := []struct {
		name   string
		state  cluster.State
		tenant tenant.Tenant
	}{
		{"undefined domain", cluster.State{NodeCount: 3}, tenant.New("acme")},
		{"unknown type", cluster.State{Domain: testDomain}, tenant.Tenant{Name: "acme", Type: "partner"}},
		{"empty name", cluster.State{Domain: testDomain}, tenant.New("")},
		{"invalid name", cluster.State{Domain: testDomain}, tenant.New("Not_Valid")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := s.Synthesize(nil, tt.state, tt.tenant)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
			assert.Zero(t, c.Len(), "no partial bundle")
		})
	}
}

func TestNew_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero disk", WithDiskSize(apiresource.Quantity{})},
		{"zero replicas", WithReplicas(0)},
		{"bad host", WithStorageAPIHost("Cortex API")},
		{"empty policy", WithShardPolicy(shard.Policy{})},
		{"nil images", WithImages(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
		})
	}
}

func TestAssemble_RequiresImages(t *testing.T) {
	_, err := Assemble(Params{Name: "prometheus", Namespace: "x-tenant"})
	assert.Error(t, err)
}

func TestSynthesize_Concurrent(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	results := make([]resource.Collection, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.Synthesize(nil, cluster.State{NodeCount: i, Domain: testDomain}, tenant.New(name))
			if err == nil {
				results[i] = c
			}
		}()
	}
	wg.Wait()

	for i, name := range names {
		require.Equal(t, 6, results[i].Len(), name)
		assert.Equal(t, name+"-tenant", results[i].At(0).Object().GetNamespace())
	}
}
