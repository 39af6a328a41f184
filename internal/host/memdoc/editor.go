package memdoc

import (
	"fmt"
	"image"
	"sync"

	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host"
)

// Image is an embedded image element with intrinsic pixel dimensions.
type Image struct {
	element

	natural geometry.Size
	pixels  image.Image
}

// NaturalSize returns the image's intrinsic pixel dimensions.
func (img *Image) NaturalSize() geometry.Size {
	return img.natural
}

// Pixels returns the decoded image data, or nil.
func (img *Image) Pixels() image.Image {
	return img.pixels
}

// Editor is a minimal in-memory rich-text editor: a positioned parent
// container wrapping an editable root that holds text runs and images.
type Editor struct {
	mu sync.Mutex

	doc    *Document
	root   *Container
	parent *Container

	images []*Image

	clearedSelections int
}

// NewEditor builds an editor inside the document. The parent container
// covers bounds; the editable root fills it.
func NewEditor(doc *Document, bounds geometry.Rect) *Editor {
	parent := newContainer(doc, "editor-parent", bounds)
	root := newContainer(doc, "editor-root", bounds)
	parent.AppendChild(root)
	doc.RootContainer().AppendChild(parent)

	return &Editor{doc: doc, root: root, parent: parent}
}

// Root returns the editable area.
func (e *Editor) Root() host.Container {
	return e.root
}

// Parent returns the positioned ancestor hosting the overlay.
func (e *Editor) Parent() host.Container {
	return e.parent
}

// Document returns the host's top-level surface.
func (e *Editor) Document() host.Document {
	return e.doc
}

// ClearTextSelection drops any active text selection.
func (e *Editor) ClearTextSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearedSelections++
}

// ClearedSelections returns how many times the text selection was
// cleared. Tests use it to verify the select flow.
func (e *Editor) ClearedSelections() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clearedSelections
}

// AddText inserts a text run covering the given rectangle. The content
// only matters to the demo renderer.
func (e *Editor) AddText(bounds geometry.Rect, content string) host.Element {
	el := &textRun{element: newElement("text", bounds), content: content}
	e.root.AppendChild(el)
	return el
}

// AddImage embeds an image at the given rectangle with the given
// intrinsic size and optional pixel data.
func (e *Editor) AddImage(bounds geometry.Rect, natural geometry.Size, pixels image.Image) *Image {
	img := &Image{
		element: newElement("image", bounds),
		natural: natural,
		pixels:  pixels,
	}

	e.mu.Lock()
	e.images = append(e.images, img)
	e.mu.Unlock()

	e.root.AppendChild(img)
	return img
}

// Images returns the editor's embedded images in document order.
func (e *Editor) Images() []*Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Image(nil), e.images...)
}

// DeleteImage removes an image node from the document.
func (e *Editor) DeleteImage(img host.Image) error {
	if img == nil {
		return host.ErrImageNotFound
	}

	e.mu.Lock()
	found := false
	for i, candidate := range e.images {
		if candidate.ID() == img.ID() {
			e.images = append(e.images[:i], e.images[i+1:]...)
			found = true
			break
		}
	}
	e.mu.Unlock()

	if !found {
		return fmt.Errorf("image %s: %w", img.ID(), host.ErrImageNotFound)
	}

	e.root.RemoveChild(img)
	return nil
}

// textRun is a plain text element.
type textRun struct {
	element

	content string
}

// Content returns the run's text.
func (t *textRun) Content() string {
	return t.content
}
