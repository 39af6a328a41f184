// Package host defines the collaborator contract between the image
// selection system and the rich-text editor that embeds it. The
// selection controller, input router, and behavior modules only ever
// talk to the editor through these interfaces, which keeps the core
// testable without a real rendering surface.
package host

import (
	"image"

	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/input/key"
)

// Element is one node in the host's visual tree. Implementations must
// tolerate calls after the element has been detached from the
// document; Bounds reports attachment so callers can act defensively.
type Element interface {
	// ID returns a stable identifier for the element.
	ID() string

	// Bounds returns the element's current screen-space rectangle.
	// The second return is false if the element is no longer attached
	// to the document, in which case the rectangle is unspecified.
	Bounds() (geometry.Rect, bool)

	// Attached reports whether the element is still part of the document.
	Attached() bool

	// SetStyle sets a style property on the element.
	SetStyle(name, value string)

	// Style returns the current value of a style property, or "".
	Style(name string) string

	// RemoveStyle removes a style property from the element.
	RemoveStyle(name string)
}

// Container is an element that can scroll, host transient children,
// and receive input focus.
type Container interface {
	Element

	// ScrollOffset returns the container's current scroll offsets.
	ScrollOffset() geometry.Scroll

	// AppendChild attaches a transient element to the container.
	AppendChild(Element)

	// RemoveChild detaches a previously appended element. Removing an
	// element that is not a child is a no-op.
	RemoveChild(Element)

	// SetFocusable marks the container as able to receive key events.
	SetFocusable(on bool)

	// Focus moves input focus to the container so key events become
	// observable through OnKeyUp.
	Focus()

	// OnKeyUp installs a key-release listener. The returned function
	// removes the listener and is safe to call more than once.
	OnKeyUp(fn func(key.Event)) (remove func())

	// OnClick installs a click listener scoped to this container's
	// subtree. The returned function removes the listener.
	OnClick(fn func(ClickEvent)) (remove func())
}

// Image is an embedded image element. It is borrowed for the duration
// of a selection and must never be assumed valid afterwards.
type Image interface {
	Element

	// NaturalSize returns the image's intrinsic pixel dimensions,
	// independent of its current display size.
	NaturalSize() geometry.Size

	// Pixels returns the decoded image data, or nil if unavailable.
	Pixels() image.Image
}

// ClickEvent describes one click delivered by the host.
type ClickEvent struct {
	// Pos is the click position in document coordinates.
	Pos geometry.Point

	// Target is the deepest element under the click, or nil.
	Target Element
}

// Document is the host's top-level surface: the document root element
// and the window-level event target used for outside-click capture.
type Document interface {
	// Root returns the document root element.
	Root() Element

	// OnClickCapture installs a capturing click listener that observes
	// every click regardless of target. The returned function removes
	// the listener.
	OnClickCapture(fn func(ClickEvent)) (remove func())
}

// Editor is the embedding rich-text editor. This is the full surface
// the selection system calls; everything else about the editor is out
// of scope.
type Editor interface {
	// Root returns the editable area element.
	Root() Container

	// Parent returns the positioned ancestor that hosts the overlay.
	Parent() Container

	// Document returns the host's top-level surface.
	Document() Document

	// ClearTextSelection drops any active text selection in the document.
	ClearTextSelection()

	// DeleteImage locates the given image node in the document and
	// removes it. Returns ErrImageNotFound if the node is no longer
	// part of the document.
	DeleteImage(img Image) error
}

// Registry is the host's component registry. Extensions register
// themselves under a fixed name at load time.
type Registry interface {
	// Register installs a component under the given name. Returns
	// ErrAlreadyRegistered if the name is taken.
	Register(name string, component any) error

	// Component returns a registered component by name.
	Component(name string) (any, bool)
}
