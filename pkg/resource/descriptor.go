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
	monitoringv1 "github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Kind identifies one member of the closed set of bundle resources.
type Kind string

const (
	KindNetworkEndpoint     Kind = "NetworkEndpoint"
	KindScrapeAdvertisement Kind = "ScrapeAdvertisement"
	KindWorkload            Kind = "Workload"
	KindServiceIdentity     Kind = "ServiceIdentity"
	KindAccessRole          Kind = "AccessRole"
	KindAccessRoleBinding   Kind = "AccessRoleBinding"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Kinds returns every resource kind in bundle order.
func Kinds() []Kind {
	return []Kind{
		KindNetworkEndpoint,
		KindScrapeAdvertisement,
		KindWorkload,
		KindServiceIdentity,
		KindAccessRole,
		KindAccessRoleBinding,
	}
}

// Target is the opaque cluster API handle a bundle is generated for. It is
// carried on every resource and never interpreted.
type Target any

// Resource is one object of a bundle. The set of implementations is closed:
// only the descriptor types of this package satisfy it.
type Resource interface {
	// Kind returns the bundle kind of the resource.
	Kind() Kind
	// GroupVersionKind returns the cluster API type of Object.
	GroupVersionKind() schema.GroupVersionKind
	// Object returns the typed cluster object.
	Object() metav1.Object
	// Handle returns the opaque target the resource was generated for.
	Handle() Target

	sealed()
}

// NetworkEndpoint exposes the Prometheus web port as a Service.
type NetworkEndpoint struct {
	Target  Target
	Service *corev1.Service
}

func (r *NetworkEndpoint) Kind() Kind            { return KindNetworkEndpoint }
func (r *NetworkEndpoint) Object() metav1.Object { return r.Service }
func (r *NetworkEndpoint) Handle() Target        { return r.Target }
func (r *NetworkEndpoint) sealed()               {}

func (r *NetworkEndpoint) GroupVersionKind() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Service")
}

// ScrapeAdvertisement tells Prometheus to scrape the NetworkEndpoint.
type ScrapeAdvertisement struct {
	Target         Target
	ServiceMonitor *monitoringv1.ServiceMonitor
}

func (r *ScrapeAdvertisement) Kind() Kind            { return KindScrapeAdvertisement }
func (r *ScrapeAdvertisement) Object() metav1.Object { return r.ServiceMonitor }
func (r *ScrapeAdvertisement) Handle() Target        { return r.Target }
func (r *ScrapeAdvertisement) sealed()               {}

func (r *ScrapeAdvertisement) GroupVersionKind() schema.GroupVersionKind {
	return monitoringv1.SchemeGroupVersion.WithKind(monitoringv1.ServiceMonitorsKind)
}

// Workload is the Prometheus instance itself.
type Workload struct {
	Target     Target
	Prometheus *monitoringv1.Prometheus
}

func (r *Workload) Kind() Kind            { return KindWorkload }
func (r *Workload) Object() metav1.Object { return r.Prometheus }
func (r *Workload) Handle() Target        { return r.Target }
func (r *Workload) sealed()               {}

func (r *Workload) GroupVersionKind() schema.GroupVersionKind {
	return monitoringv1.SchemeGroupVersion.WithKind(monitoringv1.PrometheusesKind)
}

// ServiceIdentity is the ServiceAccount the workload runs as.
type ServiceIdentity struct {
	Target         Target
	ServiceAccount *corev1.ServiceAccount
}

func (r *ServiceIdentity) Kind() Kind            { return KindServiceIdentity }
func (r *ServiceIdentity) Object() metav1.Object { return r.ServiceAccount }
func (r *ServiceIdentity) Handle() Target        { return r.Target }
func (r *ServiceIdentity) sealed()               {}

func (r *ServiceIdentity) GroupVersionKind() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("ServiceAccount")
}

// AccessRole grants read access needed for target discovery.
type AccessRole struct {
	Target Target
	Role   *rbacv1.Role
}

func (r *AccessRole) Kind() Kind            { return KindAccessRole }
func (r *AccessRole) Object() metav1.Object { return r.Role }
func (r *AccessRole) Handle() Target        { return r.Target }
func (r *AccessRole) sealed()               {}

func (r *AccessRole) GroupVersionKind() schema.GroupVersionKind {
	return rbacv1.SchemeGroupVersion.WithKind("Role")
}

// AccessRoleBinding binds the AccessRole to the ServiceIdentity.
type AccessRoleBinding struct {
	Target      Target
	RoleBinding *rbacv1.RoleBinding
}

func (r *AccessRoleBinding) Kind() Kind            { return KindAccessRoleBinding }
func (r *AccessRoleBinding) Object() metav1.Object { return r.RoleBinding }
func (r *AccessRoleBinding) Handle() Target        { return r.Target }
func (r *AccessRoleBinding) sealed()               {}

func (r *AccessRoleBinding) GroupVersionKind() schema.GroupVersionKind {
	return rbacv1.SchemeGroupVersion.WithKind("RoleBinding")
}
