package services

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds definitions by case-insensitive name.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns a registry holding defs.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: map[string]Definition{}}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds d. Invalid definitions and duplicate names are rejected.
func (r *Registry) Register(d Definition) error {
	if err := d.validate(); err != nil {
		return fmt.Errorf("service %q: %w", d.Name, err)
	}
	key := strings.ToLower(d.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[key]; ok {
		return fmt.Errorf("service %q already registered", d.Name)
	}
	r.defs[key] = d
	return nil
}

// Lookup finds a definition by name, ignoring case.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// All returns every definition sorted by name.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Definition) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// Default returns a registry with the banking endpoints this harness ships.
func Default() *Registry {
	r, err := NewRegistry(ConsentProvisionProcessResult(), AppServerBPTopupRequest())
	if err != nil {
		panic(err)
	}
	return r
}
