// SPDX-License-Identifier: Apache-2.0

package httpauth

import (
	"strings"
	"sync"
)

// Registry maps lowercase scheme names to factories. A Strategy with
// no registry configured cannot authenticate at all; selection then
// yields an empty candidate list rather than an error.
type Registry struct {
	mu        sync.Mutex
	factories map[string]SchemeFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]SchemeFactory)}
}

// Register associates f with name, replacing any existing
// registration for the same name. Names are case-insensitive.
func (r *Registry) Register(name string, f SchemeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[strings.ToLower(name)] = f
}

// Lookup returns the factory registered for name, or nil when the
// scheme is not supported.
func (r *Registry) Lookup(name string) SchemeFactory {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.factories[strings.ToLower(name)]
}

// Names returns the registered scheme names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := make([]string, 0, len(r.factories))
	for name := range r.factories {
		l = append(l, name)
	}
	return l
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that scheme
// packages register into from their init functions. Importing a
// scheme package for side effects makes its scheme available here:
//
//	import _ "github.com/golang-auth/go-httpauth/basic"
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register registers a scheme factory in the default registry.
// Scheme implementations call this from init.
func Register(name string, f SchemeFactory) {
	defaultRegistry.Register(name, f)
}
