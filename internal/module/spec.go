package module

import (
	"fmt"
	"os"
	"sync"
)

// Built-in module names.
const (
	NameDisplaySize = "DisplaySize"
	NameToolbar     = "Toolbar"
	NameResize      = "Resize"
)

// Spec identifies one configured module. It is a tagged variant: a
// short name resolved against the registry, a directly supplied
// constructor, or a Lua script path. Specs are validated when
// configuration is merged, so a bad identifier fails before any
// selection happens.
type Spec struct {
	name   string
	ctor   Constructor
	script string
}

// Named creates a spec resolved against the registry by name.
func Named(name string) Spec {
	return Spec{name: name}
}

// Of creates a spec from a directly supplied constructor.
func Of(ctor Constructor) Spec {
	return Spec{ctor: ctor}
}

// Scripted creates a spec backed by a Lua script on disk.
func Scripted(path string) Spec {
	return Spec{script: path}
}

// String returns a description of the spec for diagnostics.
func (s Spec) String() string {
	switch {
	case s.name != "":
		return s.name
	case s.script != "":
		return fmt.Sprintf("script(%s)", s.script)
	case s.ctor != nil:
		return "constructor"
	default:
		return "empty"
	}
}

// Resolve returns the constructor the spec designates. Named specs
// consult the registry first; anything unresolvable is an error.
func (s Spec) Resolve(reg *Registry) (Constructor, error) {
	switch {
	case s.name != "":
		if reg != nil {
			if ctor, ok := reg.Lookup(s.name); ok {
				return ctor, nil
			}
		}
		return nil, fmt.Errorf("module %q: %w", s.name, ErrUnknownModule)

	case s.script != "":
		if _, err := os.Stat(s.script); err != nil {
			return nil, fmt.Errorf("module script %q: %w", s.script, ErrScriptNotFound)
		}
		return NewLuaConstructor(s.script), nil

	case s.ctor != nil:
		return s.ctor, nil

	default:
		return nil, ErrNilConstructor
	}
}

// Registry maps short module names to constructors. It is consulted
// before a configured value is treated as a constructor itself.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Builtins returns a registry preloaded with the built-in modules.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(NameDisplaySize, NewDisplaySize)
	r.Register(NameToolbar, NewToolbar)
	r.Register(NameResize, NewResize)
	return r
}

// Register installs a constructor under a name, replacing any
// previous entry.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// Lookup returns the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[name]
	return ctor, ok
}

// Names returns all registered module names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	return names
}
