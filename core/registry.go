// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sort"
	"sync"

	"github.com/duplexrpc/callcore/core/statejson"
)

// Registry tracks live calls by ID for the debug state surface. A call
// registered before Start deregisters itself once its resources are
// released.
type Registry struct {
	mutex sync.Mutex
	calls map[string]*Call
}

// NewRegistry returns an empty call registry.
func NewRegistry() *Registry {
	return &Registry{calls: make(map[string]*Call)}
}

// Register adds a call and chains its post-release hook to deregister
// the call when the resource guard releases it. Must be called before
// the call is started.
func (r *Registry) Register(c *Call) {
	prev := c.AfterRelease
	c.AfterRelease = func() {
		if prev != nil {
			prev()
		}
		r.Deregister(c.ID())
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls[c.ID()] = c
}

// Deregister removes a call by ID. Unknown IDs are ignored.
func (r *Registry) Deregister(id string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.calls, id)
}

// Lookup returns the registered call with the given ID.
func (r *Registry) Lookup(id string) (*Call, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	c, ok := r.calls[id]
	return c, ok
}

// Count returns the number of registered calls.
func (r *Registry) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.calls)
}

// Describe returns descriptions of all registered calls, ordered by ID.
func (r *Registry) Describe() statejson.RegistryDescription {
	r.mutex.Lock()
	calls := make([]*Call, 0, len(r.calls))
	for _, c := range r.calls {
		calls = append(calls, c)
	}
	r.mutex.Unlock()

	// Call.Describe takes the call lock, so descriptions are gathered
	// outside the registry lock.
	descriptions := make([]statejson.CallDescription, 0, len(calls))
	for _, c := range calls {
		descriptions = append(descriptions, c.Describe())
	}
	sort.Slice(descriptions, func(i, j int) bool {
		return descriptions[i].ID < descriptions[j].ID
	})
	return statejson.RegistryDescription{Calls: descriptions}
}
