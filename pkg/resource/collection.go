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

// Builder accumulates resources in insertion order. Add is the only way to
// append; Build finalizes a snapshot that later Adds do not affect.
// A Builder is not safe for concurrent use.
type Builder struct {
	items []Resource
}

// NewBuilder returns a Builder sized for n resources.
func NewBuilder(n int) *Builder {
	return &Builder{items: make([]Resource, 0, n)}
}

// Add appends r. Duplicates are kept.
func (b *Builder) Add(r Resource) *Builder {
	b.items = append(b.items, r)
	return b
}

// Build returns the ordered, immutable collection of added resources.
func (b *Builder) Build() Collection {
	items := make([]Resource, len(b.items))
	copy(items, b.items)
	return Collection{items: items}
}

// Collection is an ordered, read-only sequence of resources.
type Collection struct {
	items []Resource
}

// Len returns the number of resources.
func (c Collection) Len() int {
	return len(c.items)
}

// At returns the i-th resource.
func (c Collection) At(i int) Resource {
	return c.items[i]
}

// Items returns a copy of the resources in order.
func (c Collection) Items() []Resource {
	items := make([]Resource, len(c.items))
	copy(items, c.items)
	return items
}

// Kinds returns the kind of each resource in order.
func (c Collection) Kinds() []Kind {
	kinds := make([]Kind, len(c.items))
	for i, r := range c.items {
		kinds[i] = r.Kind()
	}
	return kinds
}

// OfKind returns the resources of kind k in order.
func (c Collection) OfKind(k Kind) []Resource {
	var out []Resource
	for _, r := range c.items {
		if r.Kind() == k {
			out = append(out, r)
		}
	}
	return out
}

// Workload returns the first Workload in the collection.
func (c Collection) Workload() (*Workload, bool) {
	for _, r := range c.items {
		if w, ok := r.(*Workload); ok {
			return w, true
		}
	}
	return nil, false
}
