package component

import (
	"sort"
	"sync"

	"github.com/vango-dev/compose/pkg/reactive"
)

// Resolved receives the outcome of a Registry lookup. A nil definition with
// a nil error means the name is unknown.
type Resolved func(def *Definition, err error)

// Registry resolves component names to definitions. Resolve may call done
// before it returns or later, on the tree's dispatcher. It calls done once
// per Resolve call.
type Registry interface {
	Resolve(name string, done Resolved)
}

// DispatchingRegistry is a Registry whose asynchronous results can be
// delivered through a caller's dispatcher. Trees with their own thread,
// such as one per connection, share the registry through Via.
type DispatchingRegistry interface {
	Registry
	Via(d reactive.Dispatcher) Registry
}

// Via returns reg delivering asynchronous results through d when reg
// supports it, and reg unchanged otherwise.
func Via(reg Registry, d reactive.Dispatcher) Registry {
	if dr, ok := reg.(DispatchingRegistry); ok {
		return dr.Via(d)
	}
	return reg
}

// RegistryFunc adapts a function to Registry.
type RegistryFunc func(name string, done Resolved)

// Resolve implements Registry.
func (f RegistryFunc) Resolve(name string, done Resolved) { f(name, done) }

// Catalog is an in-memory Registry that resolves synchronously.
type Catalog struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Register adds or replaces the definition for name.
func (c *Catalog) Register(name string, def *Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if def != nil && def.Name == "" {
		d := *def
		d.Name = name
		def = &d
	}
	c.defs[name] = def
}

// Unregister removes name.
func (c *Catalog) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.defs, name)
}

// Get returns the definition for name, or nil.
func (c *Catalog) Get(name string) *Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defs[name]
}

// Names returns the registered names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements Registry.
func (c *Catalog) Resolve(name string, done Resolved) {
	done(c.Get(name), nil)
}

// Fallback resolves through each registry in turn until one returns a
// definition or an error.
type Fallback []Registry

// Resolve implements Registry.
func (f Fallback) Resolve(name string, done Resolved) {
	f.resolve(0, name, done)
}

// Via implements DispatchingRegistry.
func (f Fallback) Via(d reactive.Dispatcher) Registry {
	out := make(Fallback, len(f))
	for i, reg := range f {
		out[i] = Via(reg, d)
	}
	return out
}

func (f Fallback) resolve(i int, name string, done Resolved) {
	if i >= len(f) {
		done(nil, nil)
		return
	}
	f[i].Resolve(name, func(def *Definition, err error) {
		if def != nil || err != nil {
			done(def, err)
			return
		}
		f.resolve(i+1, name, done)
	})
}
