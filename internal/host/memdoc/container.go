package memdoc

import (
	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/input/key"
)

// Container is a memdoc element that hosts children, scrolls, and
// receives focus and input listeners.
type Container struct {
	element

	doc *Document

	scroll    geometry.Scroll
	children  []host.Element
	focusable bool

	nextListener   int
	keyListeners   map[int]func(key.Event)
	clickListeners map[int]func(host.ClickEvent)
}

func newContainer(doc *Document, kind string, bounds geometry.Rect) *Container {
	return &Container{
		element:        newElement(kind, bounds),
		doc:            doc,
		keyListeners:   make(map[int]func(key.Event)),
		clickListeners: make(map[int]func(host.ClickEvent)),
	}
}

// ScrollOffset returns the container's scroll offsets.
func (c *Container) ScrollOffset() geometry.Scroll {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scroll
}

// SetScroll updates the container's scroll offsets.
func (c *Container) SetScroll(s geometry.Scroll) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scroll = s
}

// AppendChild attaches an element to the container.
func (c *Container) AppendChild(el host.Element) {
	if el == nil {
		return
	}
	c.mu.Lock()
	c.children = append(c.children, el)
	c.mu.Unlock()

	if a, ok := el.(interface{ SetAttached(bool) }); ok {
		a.SetAttached(true)
	}
}

// RemoveChild detaches a previously appended element. Removing an
// element that is not a child is a no-op.
func (c *Container) RemoveChild(el host.Element) {
	if el == nil {
		return
	}

	c.mu.Lock()
	removed := false
	for i, child := range c.children {
		if child.ID() == el.ID() {
			c.children = append(c.children[:i], c.children[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()

	if !removed {
		return
	}
	if a, ok := el.(interface{ SetAttached(bool) }); ok {
		a.SetAttached(false)
	}
}

// Children returns a copy of the container's child list.
func (c *Container) Children() []host.Element {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]host.Element(nil), c.children...)
}

// ContainsElement reports whether el is in this container's subtree.
func (c *Container) ContainsElement(el host.Element) bool {
	if el == nil {
		return false
	}
	if el.ID() == c.ID() {
		return true
	}
	for _, child := range c.Children() {
		if child.ID() == el.ID() {
			return true
		}
		if sub, ok := child.(*Container); ok && sub.ContainsElement(el) {
			return true
		}
	}
	return false
}

// SetFocusable marks the container as able to receive key events.
func (c *Container) SetFocusable(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focusable = on
}

// Focus moves the document's input focus to this container.
func (c *Container) Focus() {
	c.mu.RLock()
	focusable := c.focusable
	c.mu.RUnlock()

	if !focusable || c.doc == nil {
		return
	}
	c.doc.setFocus(c)
}

// OnKeyUp installs a key-release listener on the container.
func (c *Container) OnKeyUp(fn func(key.Event)) (remove func()) {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.keyListeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.keyListeners, id)
		c.mu.Unlock()
	}
}

// OnClick installs a click listener scoped to this container's subtree.
func (c *Container) OnClick(fn func(host.ClickEvent)) (remove func()) {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.clickListeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.clickListeners, id)
		c.mu.Unlock()
	}
}

// KeyListenerCount returns the number of installed key listeners.
// Tests use it to verify listener cleanup.
func (c *Container) KeyListenerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keyListeners)
}

// fireKey delivers a key event to all key listeners.
func (c *Container) fireKey(ev key.Event) {
	c.mu.RLock()
	fns := make([]func(key.Event), 0, len(c.keyListeners))
	for _, fn := range c.keyListeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// fireClick delivers a click event to all click listeners.
func (c *Container) fireClick(ev host.ClickEvent) {
	c.mu.RLock()
	fns := make([]func(host.ClickEvent), 0, len(c.clickListeners))
	for _, fn := range c.clickListeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// elementAt returns the deepest child whose bounds contain p, falling
// back to the container itself. Later children sit on top of earlier
// ones, matching paint order. Children styled "pointer-events: none"
// are transparent to hit-testing, so clicks fall through to whatever
// they cover.
func (c *Container) elementAt(p geometry.Point) host.Element {
	for _, child := range reversed(c.Children()) {
		if child.Style("pointer-events") == "none" {
			continue
		}
		b, ok := c.childDocRect(child)
		if !ok || !b.Contains(p) {
			continue
		}
		if sub, isContainer := child.(*Container); isContainer {
			return sub.elementAt(p)
		}
		return child
	}

	if b, ok := c.Bounds(); ok && b.Contains(p) {
		return c
	}
	return nil
}

// childDocRect returns a child's rectangle in document coordinates.
// Absolutely positioned children carry bounds relative to this
// container's origin, the way a layout engine resolves "position:
// absolute" against the nearest positioned ancestor.
func (c *Container) childDocRect(child host.Element) (geometry.Rect, bool) {
	b, ok := child.Bounds()
	if !ok {
		return geometry.Rect{}, false
	}
	if child.Style("position") == "absolute" {
		if cb, cok := c.Bounds(); cok {
			b = b.Translate(cb.Left, cb.Top)
		}
	}
	return b, true
}

func reversed(els []host.Element) []host.Element {
	out := make([]host.Element, len(els))
	for i, el := range els {
		out[len(els)-1-i] = el
	}
	return out
}
