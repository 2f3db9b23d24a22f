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

	monitoringv1 "github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/images"
	"github.com/pranay01/opstrace/pkg/resource"
	"github.com/pranay01/opstrace/pkg/security"
	"github.com/pranay01/opstrace/pkg/tenant"
)

const (
	webPortName  = "web"
	webPort      = 9090
	routePrefix  = "/prometheus"
	metricsPath  = routePrefix + "/metrics"
	scrapePeriod = "30s"

	alertmanagerName       = "alertmanager"
	alertmanagerPathPrefix = "/alertmanager"

	storageAPIPort = 8080
	hostnameKey    = "kubernetes.io/hostname"

	labelApp        = "app"
	labelPrometheus = "prometheus"
	labelTenant     = "tenant"

	runAsUser int64 = 1000
	fsGroup   int64 = 2000
)

// bundleSize is the number of resources in every bundle.
const bundleSize = 6

// Params are the resolved inputs of one bundle.
type Params struct {
	Target    resource.Target
	Tenant    tenant.Tenant
	Namespace string
	Name      string
	Domain    string
	Shards    int
	Security  security.Decision
	Settings  Settings
}

// Assemble builds the ordered bundle for p. It performs no I/O and returns
// either the complete bundle or an error.
func Assemble(p Params) (resource.Collection, error) {
	if p.Settings.Images == nil {
		return resource.Collection{}, apperrors.New(apperrors.ErrCodeInvalidRequest, "image registry is required")
	}
	image, err := p.Settings.Images.Reference(images.Prometheus)
	if err != nil {
		return resource.Collection{}, err
	}
	version, err := p.Settings.Images.Version(images.Prometheus)
	if err != nil {
		return resource.Collection{}, err
	}

	b := resource.NewBuilder(bundleSize)
	b.Add(&resource.NetworkEndpoint{Target: p.Target, Service: service(p)})
	b.Add(&resource.ScrapeAdvertisement{Target: p.Target, ServiceMonitor: serviceMonitor(p)})
	b.Add(&resource.Workload{Target: p.Target, Prometheus: prometheusObject(p, image, version)})
	b.Add(&resource.ServiceIdentity{Target: p.Target, ServiceAccount: serviceAccount(p)})
	b.Add(&resource.AccessRole{Target: p.Target, Role: role(p)})
	b.Add(&resource.AccessRoleBinding{Target: p.Target, RoleBinding: roleBinding(p)})
	return b.Build(), nil
}

func objectMeta(p Params, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      p.Name,
		Namespace: p.Namespace,
		Labels:    labels,
	}
}

func service(p Params) *corev1.Service {
	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: objectMeta(p, map[string]string{labelPrometheus: p.Name}),
		Spec: corev1.ServiceSpec{
			Ports: []corev1.ServicePort{{
				Name:       webPortName,
				Port:       webPort,
				TargetPort: intstr.FromString(webPortName),
			}},
			Selector: map[string]string{
				labelApp:        labelPrometheus,
				labelPrometheus: p.Name,
			},
			SessionAffinity: corev1.ServiceAffinityClientIP,
		},
	}
}

func serviceMonitor(p Params) *monitoringv1.ServiceMonitor {
	return &monitoringv1.ServiceMonitor{
		TypeMeta: metav1.TypeMeta{
			APIVersion: monitoringv1.SchemeGroupVersion.String(),
			Kind:       monitoringv1.ServiceMonitorsKind,
		},
		// Every bundle carries the system tenant label here, whatever the tenant.
		ObjectMeta: objectMeta(p, map[string]string{
			labelPrometheus: p.Name,
			labelTenant:     tenant.SystemTenantName,
		}),
		Spec: monitoringv1.ServiceMonitorSpec{
			Endpoints: []monitoringv1.Endpoint{{
				Port:     webPortName,
				Interval: scrapePeriod,
				Path:     metricsPath,
			}},
			Selector: metav1.LabelSelector{
				MatchLabels: map[string]string{labelPrometheus: p.Name},
			},
		},
	}
}

// storageAPIURL returns the in-cluster URL of the storage API at path.
func storageAPIURL(p Params, path string) string {
	return fmt.Sprintf("http://%s.%s.svc.cluster.local:%d%s",
		p.Settings.StorageAPIHost, p.Namespace, storageAPIPort, path)
}

// discoverySelector restricts discovery to the tenant when scoped and
// matches everything otherwise.
func discoverySelector(p Params) *metav1.LabelSelector {
	if !p.Security.ScopedDiscovery {
		return &metav1.LabelSelector{}
	}
	return &metav1.LabelSelector{
		MatchLabels: map[string]string{labelTenant: p.Tenant.Name},
	}
}

// prometheusObject builds the Prometheus custom resource. image is the full
// tagged reference since the operator pulls spec.image verbatim.
func prometheusObject(p Params, image, version string) *monitoringv1.Prometheus {
	secrets := make([]string, len(p.Security.SecretNames))
	copy(secrets, p.Security.SecretNames)

	obj := &monitoringv1.Prometheus{
		TypeMeta: metav1.TypeMeta{
			APIVersion: monitoringv1.SchemeGroupVersion.String(),
			Kind:       monitoringv1.PrometheusesKind,
		},
		ObjectMeta: objectMeta(p, map[string]string{labelPrometheus: p.Name}),
	}

	spec := &obj.Spec
	spec.ExternalURL = fmt.Sprintf("https://system.%s%s", p.Domain, routePrefix)
	spec.RoutePrefix = routePrefix
	spec.PortName = webPortName
	spec.Image = ptr.To(image)
	spec.Version = version
	spec.Replicas = ptr.To(p.Settings.Replicas)
	spec.Shards = ptr.To(int32(p.Shards))

	spec.ServiceAccountName = p.Name
	spec.SecurityContext = &corev1.PodSecurityContext{
		RunAsUser:    ptr.To(runAsUser),
		RunAsNonRoot: ptr.To(true),
		FSGroup:      ptr.To(fsGroup),
	}
	spec.Affinity = &corev1.Affinity{
		PodAntiAffinity: &corev1.PodAntiAffinity{
			RequiredDuringSchedulingIgnoredDuringExecution: []corev1.PodAffinityTerm{{
				LabelSelector: &metav1.LabelSelector{
					MatchExpressions: []metav1.LabelSelectorRequirement{{
						Key:      labelPrometheus,
						Operator: metav1.LabelSelectorOpIn,
						Values:   []string{p.Name},
					}},
				},
				TopologyKey: hostnameKey,
			}},
		},
	}
	spec.Storage = &monitoringv1.StorageSpec{
		VolumeClaimTemplate: monitoringv1.EmbeddedPersistentVolumeClaim{
			Spec: corev1.PersistentVolumeClaimSpec{
				AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
				Resources: corev1.VolumeResourceRequirements{
					Requests: corev1.ResourceList{
						corev1.ResourceStorage: p.Settings.DiskSize.DeepCopy(),
					},
				},
			},
		},
	}
	spec.Alerting = &monitoringv1.AlertingSpec{
		Alertmanagers: []monitoringv1.AlertmanagerEndpoints{{
			Namespace:  ptr.To(p.Namespace),
			Name:       alertmanagerName,
			Port:       intstr.FromString(webPortName),
			PathPrefix: alertmanagerPathPrefix,
		}},
	}
	spec.RemoteWrite = []monitoringv1.RemoteWriteSpec{{
		URL:             storageAPIURL(p, "/api/v1/push"),
		BearerTokenFile: p.Security.BearerTokenFile,
	}}
	spec.RemoteRead = []monitoringv1.RemoteReadSpec{{
		URL:             storageAPIURL(p, "/api/v1/read"),
		BearerTokenFile: p.Security.BearerTokenFile,
	}}
	if len(secrets) > 0 {
		spec.Secrets = secrets
	}

	spec.ServiceMonitorSelector = discoverySelector(p)
	spec.ServiceMonitorNamespaceSelector = &metav1.LabelSelector{}
	spec.PodMonitorSelector = discoverySelector(p)
	spec.PodMonitorNamespaceSelector = &metav1.LabelSelector{}
	spec.RuleSelector = discoverySelector(p)
	spec.RuleNamespaceSelector = &metav1.LabelSelector{}

	return obj
}

func serviceAccount(p Params) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: objectMeta(p, nil),
	}
}

func role(p Params) *rbacv1.Role {
	return &rbacv1.Role{
		TypeMeta:   metav1.TypeMeta{APIVersion: rbacv1.SchemeGroupVersion.String(), Kind: "Role"},
		ObjectMeta: objectMeta(p, nil),
		Rules: []rbacv1.PolicyRule{{
			APIGroups: []string{""},
			Resources: []string{"services", "endpoints", "pods"},
			Verbs:     []string{"get", "list", "watch"},
		}},
	}
}

func roleBinding(p Params) *rbacv1.RoleBinding {
	return &rbacv1.RoleBinding{
		TypeMeta:   metav1.TypeMeta{APIVersion: rbacv1.SchemeGroupVersion.String(), Kind: "RoleBinding"},
		ObjectMeta: objectMeta(p, nil),
		Subjects: []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      p.Name,
			Namespace: p.Namespace,
		}},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "Role",
			Name:     p.Name,
		},
	}
}
