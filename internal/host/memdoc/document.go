package memdoc

import (
	"fmt"
	"sync"

	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/input/key"
)

// Document is the top-level memdoc surface. It owns the element tree,
// the window-level capture listeners, input focus, and the host
// component registry.
type Document struct {
	mu sync.RWMutex

	root    *Container
	focused *Container

	nextListener int
	captures     map[int]func(host.ClickEvent)

	components map[string]any
}

// New creates a document whose root covers the given rectangle.
func New(bounds geometry.Rect) *Document {
	d := &Document{
		captures:   make(map[int]func(host.ClickEvent)),
		components: make(map[string]any),
	}
	d.root = newContainer(d, "document", bounds)
	return d
}

// Root returns the document root element.
func (d *Document) Root() host.Element {
	return d.root
}

// RootContainer returns the root as a container for tree construction.
func (d *Document) RootContainer() *Container {
	return d.root
}

// OnClickCapture installs a capturing click listener that observes
// every dispatched click regardless of target.
func (d *Document) OnClickCapture(fn func(host.ClickEvent)) (remove func()) {
	d.mu.Lock()
	id := d.nextListener
	d.nextListener++
	d.captures[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.captures, id)
		d.mu.Unlock()
	}
}

// CaptureListenerCount returns the number of installed capture
// listeners. Tests use it to verify listener cleanup.
func (d *Document) CaptureListenerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.captures)
}

// DispatchClick simulates a click at p: capture listeners fire first,
// then the click listeners of every container on the hit path from the
// root down to the target.
func (d *Document) DispatchClick(p geometry.Point) {
	target := d.root.elementAt(p)
	ev := host.ClickEvent{Pos: p, Target: target}

	d.mu.RLock()
	captures := make([]func(host.ClickEvent), 0, len(d.captures))
	for _, fn := range d.captures {
		captures = append(captures, fn)
	}
	d.mu.RUnlock()

	for _, fn := range captures {
		fn(ev)
	}

	if target == nil {
		return
	}
	for _, c := range d.hitPath(target) {
		c.fireClick(ev)
	}
}

// hitPath returns the containers from the root down whose subtree
// contains el.
func (d *Document) hitPath(el host.Element) []*Container {
	var path []*Container
	cur := d.root
	for cur != nil && cur.ContainsElement(el) {
		path = append(path, cur)

		var next *Container
		for _, child := range cur.Children() {
			if sub, ok := child.(*Container); ok && sub.ContainsElement(el) {
				next = sub
				break
			}
		}
		cur = next
	}
	return path
}

// DispatchKey delivers a key event to the currently focused container.
// Events with no focused container are dropped, like key events in a
// document with nothing focusable.
func (d *Document) DispatchKey(ev key.Event) {
	d.mu.RLock()
	focused := d.focused
	d.mu.RUnlock()

	if focused != nil {
		focused.fireKey(ev)
	}
}

// Focused returns the container holding input focus, if any.
func (d *Document) Focused() *Container {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.focused
}

func (d *Document) setFocus(c *Container) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focused = c
}

// Register installs a component in the host registry.
func (d *Document) Register(name string, component any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.components[name]; exists {
		return fmt.Errorf("component %q: %w", name, host.ErrAlreadyRegistered)
	}
	d.components[name] = component
	return nil
}

// Component returns a registered component by name.
func (d *Document) Component(name string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.components[name]
	return c, ok
}
