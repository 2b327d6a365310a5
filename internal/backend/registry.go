package backend

import (
	"fmt"
	"slices"
)

// Registry holds the simulation backends available to one application
// instance, keyed by backend name.
type Registry struct {
	backends map[string]Backend
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend. Registering two backends under one name is a
// wiring bug, so it panics.
func (r *Registry) Register(b Backend) {
	name := b.Name()
	if name == "" {
		panic("backend with an empty name registered")
	}
	if _, exists := r.backends[name]; exists {
		panic(fmt.Sprintf("backend with name '%s' already registered", name))
	}
	r.backends[name] = b
}

// Lookup resolves a backend by name. The error lists every registered
// name, since a typo in a manifest or flag is the usual cause.
func (r *Registry) Lookup(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (registered: %v)", name, r.Names())
	}
	return b, nil
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
