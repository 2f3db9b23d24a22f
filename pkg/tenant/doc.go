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

// Package tenant defines the tenant descriptor, its closed classification,
// the naming helpers that derive namespaces and object names from it, and the
// single-field creation form that hands a new tenant name to a callback.
//
// Tenants are either [TypeSystem] (trusted, platform-internal) or
// [TypeStandard] (isolated, customer-owned). Every switch over [Type] in this
// repository rejects unknown values instead of defaulting.
//
// Resources of tenant "acme" live in namespace "acme-tenant":
//
//	ns := tenant.Namespace(tenant.New("acme")) // "acme-tenant"
package tenant
