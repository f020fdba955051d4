package provider

import (
	"sort"
	"strings"

	geoerrors "github.com/kbukum/geokit/errors"
)

// Registry maps provider names to their descriptors. It is built once and
// never modified, so it is safe for concurrent use without locking.
type Registry struct {
	providers map[string]Descriptor
	names     []string
}

// NewRegistry builds a registry from descriptors. Names are lowercased; a
// later descriptor with the same name replaces an earlier one.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{providers: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		name := strings.ToLower(strings.TrimSpace(d.Name))
		d.Name = name
		r.providers[name] = d
	}
	r.names = make([]string, 0, len(r.providers))
	for name := range r.providers {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Providers returns the sorted provider names.
func (r *Registry) Providers() []string {
	return append([]string(nil), r.names...)
}

// Descriptor returns the descriptor for name, matched case-insensitively.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	d, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Methods returns the methods name implements.
func (r *Registry) Methods(name string) []Method {
	d, ok := r.Descriptor(name)
	if !ok {
		return nil
	}
	return d.Methods()
}

// Lookup validates a provider and method pair and returns its adapter.
// An empty method means geocode.
func (r *Registry) Lookup(providerName, method string) (string, *Adapter, error) {
	d, ok := r.Descriptor(providerName)
	if !ok {
		return "", nil, geoerrors.InvalidProvider(strings.TrimSpace(providerName), r.names)
	}

	m, _ := ParseMethod(method)
	a, ok := d.Adapter(m)
	if !ok {
		supported := make([]string, 0, len(d.Adapters))
		for _, sm := range d.Methods() {
			supported = append(supported, string(sm))
		}
		return d.Name, nil, geoerrors.InvalidMethod(d.Name, string(m), supported)
	}
	return d.Name, a, nil
}
