package checks

import (
	"fmt"
	"reflect"
	"sort"
)

type registration struct {
	name    string
	typ     reflect.Type
	factory Factory
}

// Registry maps check names to rule implementations and back. Each name
// has one implementation and each implementation type one name.
type Registry struct {
	byName map[string]registration
	byType map[reflect.Type]string
}

// NewRegistry returns an empty registry. Default returns one holding the
// implemented rules.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]registration),
		byType: make(map[reflect.Type]string),
	}
}

// Register records the rule type T under name. Registering a name or a
// type twice panics.
func Register[T Rule](r *Registry, name string, factory func(*Base) T) {
	typ := reflect.TypeFor[T]()
	if prev, ok := r.byName[name]; ok {
		panic(fmt.Sprintf("check %q registered twice (%v and %v)", name, prev.typ, typ))
	}
	if prev, ok := r.byType[typ]; ok {
		panic(fmt.Sprintf("type %v registered as both %q and %q", typ, prev, name))
	}
	r.byName[name] = registration{
		name:    name,
		typ:     typ,
		factory: func(b *Base) Rule { return factory(b) },
	}
	r.byType[typ] = name
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	reg, ok := r.byName[name]
	return reg.factory, ok
}

// Has reports whether name has an implementation.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// NameFor returns the name registered for the implementation type.
func (r *Registry) NameFor(typ reflect.Type) (string, bool) {
	name, ok := r.byType[typ]
	return name, ok
}

// NameOf returns the name registered for rule's dynamic type.
func (r *Registry) NameOf(rule Rule) (string, bool) {
	return r.NameFor(reflect.TypeOf(rule))
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int { return len(r.byName) }

// New builds the rule registered under name.
func (r *Registry) New(name string, env Env) (Rule, error) {
	factory, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not implemented", ErrConfig, name)
	}
	return Construct(env, name, factory)
}

// Instantiate builds the rule of type T under the name it was registered
// with.
func Instantiate[T Rule](r *Registry, env Env) (T, error) {
	var zero T
	name, ok := r.NameFor(reflect.TypeFor[T]())
	if !ok {
		return zero, fmt.Errorf("%w: %v", ErrUnnamedCheck, reflect.TypeFor[T]())
	}
	rule, err := r.New(name, env)
	if err != nil {
		return zero, err
	}
	return rule.(T), nil
}
