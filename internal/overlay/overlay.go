// Package overlay provides the transient UI element drawn atop the
// selected image and the positioning logic that keeps it aligned with
// the image as the document scrolls or reflows.
package overlay

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/silentHoo/imagesel/internal/geometry"
)

// Handle is the overlay element. It is created on select, destroyed on
// deselect, and exclusively owned by the selection controller. It
// implements host.Element so it can be appended to the editor's parent
// container like any other node.
type Handle struct {
	mu sync.RWMutex

	id       string
	styles   map[string]string
	notes    map[string]string
	rect     geometry.Rect
	visible  bool
	attached bool
}

// New creates an overlay handle with the given base styles merged on.
func New(styles map[string]string) *Handle {
	h := &Handle{
		id:     uuid.NewString(),
		styles: make(map[string]string, len(styles)),
		notes:  make(map[string]string),
	}
	for k, v := range styles {
		h.styles[k] = v
	}
	return h
}

// ID returns the overlay's unique identifier.
func (h *Handle) ID() string {
	return h.id
}

// Bounds returns the overlay's last computed rectangle.
func (h *Handle) Bounds() (geometry.Rect, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rect, h.attached && h.visible
}

// Attached reports whether the overlay is part of the document.
func (h *Handle) Attached() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.attached
}

// SetAttached marks the overlay as part of the document. The host
// container calls this when the overlay is appended or removed.
func (h *Handle) SetAttached(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attached = on
}

// SetStyle sets a style property.
func (h *Handle) SetStyle(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.styles[name] = value
}

// Style returns a style property value, or "".
func (h *Handle) Style(name string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.styles[name]
}

// RemoveStyle removes a style property.
func (h *Handle) RemoveStyle(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.styles, name)
}

// Styles returns a copy of all style properties.
func (h *Handle) Styles() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]string, len(h.styles))
	for k, v := range h.styles {
		out[k] = v
	}
	return out
}

// Visible reports whether the overlay currently has valid geometry.
func (h *Handle) Visible() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.visible
}

// Rect returns the overlay's last computed rectangle regardless of
// visibility. Behavior modules use it to derive their own geometry.
func (h *Handle) Rect() geometry.Rect {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rect
}

// SetAnnotation attaches a named decoration value to the overlay,
// such as the display-size label. Renderers read annotations back
// when drawing the overlay.
func (h *Handle) SetAnnotation(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notes[name] = value
}

// Annotation returns a decoration value, or "".
func (h *Handle) Annotation(name string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.notes[name]
}

// RemoveAnnotation removes a decoration value.
func (h *Handle) RemoveAnnotation(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.notes, name)
}

// setRect records new geometry and mirrors it into the style map.
func (h *Handle) setRect(r geometry.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.rect = r
	h.visible = true
	h.styles["left"] = fmt.Sprintf("%dpx", r.Left)
	h.styles["top"] = fmt.Sprintf("%dpx", r.Top)
	h.styles["width"] = fmt.Sprintf("%dpx", r.Width)
	h.styles["height"] = fmt.Sprintf("%dpx", r.Height)
}

// hide marks the overlay invisible without touching its styles.
func (h *Handle) hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = false
}
