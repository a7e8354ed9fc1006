package module

import (
	"fmt"
	"sort"

	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
)

// Factory constructs a module from its spec.
type Factory func(Spec) (Module, error)

type entry struct {
	name    string
	factory Factory
}

// Registry is an ordered list of name to factory bindings.
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register binds name to factory. Names must be unique.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("module registration requires a name and a factory")
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("module %q already registered", name)
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry{name: name, factory: factory})
	return nil
}

// MustRegister is Register for static wiring; it panics on conflict.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Names lists registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Build instantiates modules in position order.
func (r *Registry) Build(specs []Spec) ([]Instance, error) {
	ordered := append([]Spec(nil), specs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	instances := make([]Instance, 0, len(ordered))
	for _, spec := range ordered {
		if !r.Has(spec.Name) {
			return nil, ferrors.UnknownModule(spec.Name, spec.Position).
				WithContext("known", r.Names())
		}
		m, err := r.entries[r.index[spec.Name]].factory(spec)
		if err != nil {
			return nil, ferrors.Wrap(err, ferrors.CategoryConfig, ferrors.SeverityFatal, "module configuration rejected").
				WithContext("module", spec.Name).
				WithContext("position", spec.Position)
		}
		instances = append(instances, Instance{Spec: spec, Module: m})
	}
	return instances, nil
}
