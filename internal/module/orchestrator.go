package module

import (
	"fmt"
	"sync"
)

// Orchestrator owns the module instances attached to the current
// selection. It guarantees that no previously live module survives a
// re-initialization and that lifecycle calls happen in configured
// order. Lifecycle callbacks run outside the orchestrator's lock, so a
// module may re-enter through its owner (for example to request a
// reposition) from OnCreate, OnUpdate, or OnDestroy.
type Orchestrator struct {
	mu sync.Mutex

	registry  *Registry
	instances []Module
}

// NewOrchestrator creates an orchestrator resolving named modules
// against the given registry.
func NewOrchestrator(reg *Registry) *Orchestrator {
	return &Orchestrator{registry: reg}
}

// Initialize tears down any live modules, then constructs and starts
// the configured ones over the given context. All specs are resolved
// before any module is constructed, so an unresolvable identifier
// aborts the whole pass with no instances live. OnCreate runs in
// configured order, followed by one OnUpdate pass across all modules.
func (o *Orchestrator) Initialize(ctx *Context, specs []Spec) error {
	o.Teardown()

	ctors := make([]Constructor, len(specs))
	for i, spec := range specs {
		ctor, err := spec.Resolve(o.registry)
		if err != nil {
			return fmt.Errorf("resolve module %d (%s): %w", i, spec, err)
		}
		ctors[i] = ctor
	}

	instances := make([]Module, 0, len(ctors))
	for _, ctor := range ctors {
		instances = append(instances, ctor(ctx))
	}

	o.mu.Lock()
	o.instances = instances
	o.mu.Unlock()

	for _, m := range instances {
		m.OnCreate()
	}
	for _, m := range instances {
		m.OnUpdate()
	}
	return nil
}

// Teardown destroys every live module in configured order and clears
// the instance list. Safe to call when no modules are live.
func (o *Orchestrator) Teardown() {
	o.mu.Lock()
	instances := o.instances
	o.instances = nil
	o.mu.Unlock()

	for _, m := range instances {
		m.OnDestroy()
	}
}

// UpdateAll runs one OnUpdate pass across all live modules.
func (o *Orchestrator) UpdateAll() {
	for _, m := range o.Instances() {
		m.OnUpdate()
	}
}

// Instances returns the live module instances in configured order.
func (o *Orchestrator) Instances() []Module {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Module(nil), o.instances...)
}

// Count returns the number of live modules.
func (o *Orchestrator) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.instances)
}
