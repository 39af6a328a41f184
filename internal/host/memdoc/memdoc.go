// Package memdoc is an in-memory implementation of the host
// collaborator contract. It models just enough of a rich-text
// document's visual tree for the selection system to run against:
// elements with styles and bounds, containers with scroll offsets and
// listeners, embedded images, and window-level click capture.
//
// The demo application renders a memdoc document to the terminal; the
// package tests for the selection controller and input router drive
// one directly.
package memdoc

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/silentHoo/imagesel/internal/geometry"
)

// element is the shared base for all memdoc nodes.
type element struct {
	mu sync.RWMutex

	id       string
	kind     string
	styles   map[string]string
	bounds   geometry.Rect
	attached bool
}

func newElement(kind string, bounds geometry.Rect) element {
	return element{
		id:       uuid.NewString(),
		kind:     kind,
		styles:   make(map[string]string),
		bounds:   bounds,
		attached: true,
	}
}

// ID returns the element's identifier.
func (e *element) ID() string {
	return e.id
}

// Kind returns the element kind, e.g. "text" or "image".
func (e *element) Kind() string {
	return e.kind
}

// Bounds returns the element's rectangle and attachment state.
func (e *element) Bounds() (geometry.Rect, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bounds, e.attached
}

// Attached reports whether the element is part of the document.
func (e *element) Attached() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.attached
}

// SetBounds replaces the element's rectangle, simulating a reflow.
func (e *element) SetBounds(r geometry.Rect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bounds = r
}

// SetStyle sets a style property. Pixel-valued geometry properties
// (left, top, width, height) are reflected back into the element's
// bounds the way a layout pass would.
func (e *element) SetStyle(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.styles[name] = value

	if px, ok := parsePx(value); ok {
		switch name {
		case "left":
			e.bounds.Left = px
		case "top":
			e.bounds.Top = px
		case "width":
			e.bounds.Width = px
		case "height":
			e.bounds.Height = px
		}
	}
}

// Style returns a style property value, or "".
func (e *element) Style(name string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.styles[name]
}

// RemoveStyle removes a style property.
func (e *element) RemoveStyle(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.styles, name)
}

// SetAttached marks the element as part of the document or removed
// from it. Containers call this when children are appended or removed.
func (e *element) SetAttached(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attached = on
}

func parsePx(v string) (int, bool) {
	v = strings.TrimSuffix(v, "px")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
