// Package selection implements the selection lifecycle: exactly one
// image may be selected at a time, selecting creates the overlay and
// starts the configured behavior modules, and deselecting tears all of
// that down again without leaking listeners or styles.
package selection

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/silentHoo/imagesel/internal/config"
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/input/key"
	"github.com/silentHoo/imagesel/internal/module"
	"github.com/silentHoo/imagesel/internal/overlay"
)

// Handlers receive the input events that only exist while a selection
// is active. The controller installs them on select and removes them
// on deselect; routing decisions live with the input router.
type Handlers struct {
	// Key receives key releases from the editor root while an image is
	// selected.
	Key func(key.Event)

	// WindowClick receives every document click in the capture phase
	// while an image is selected.
	WindowClick func(host.ClickEvent)
}

// styleRestore undoes one style mutation made during select.
type styleRestore struct {
	el   host.Element
	name string
	prev string
	had  bool
}

func (r styleRestore) apply() {
	if r.had {
		r.el.SetStyle(r.name, r.prev)
		return
	}
	r.el.RemoveStyle(r.name)
}

// Controller owns the selected-image state. All mutation goes through
// Select and Deselect; behavior modules reach back in only through the
// Owner interface.
type Controller struct {
	mu sync.Mutex

	editor   host.Editor
	orch     *module.Orchestrator
	opts     config.Options
	handlers Handlers

	img      host.Image
	handle   *overlay.Handle
	removers []func()
	restores []styleRestore

	repositioning atomic.Bool
}

// NewController creates a controller resolving behavior modules
// against the given registry. Call SetHandlers before the first
// Select so selection-scoped input has somewhere to go.
func NewController(editor host.Editor, reg *module.Registry, opts config.Options) *Controller {
	return &Controller{
		editor: editor,
		orch:   module.NewOrchestrator(reg),
		opts:   opts,
	}
}

// SetHandlers installs the input callbacks used for the lifetime of
// each selection. Replacing handlers while a selection is active only
// affects the next selection.
func (c *Controller) SetHandlers(h Handlers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = h
}

// SetOptions replaces the controller's configuration. An active
// selection keeps the options it was created with; the next Select
// picks up the new ones.
func (c *Controller) SetOptions(opts config.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
}

// Select makes img the selected image. Any previous selection is torn
// down first, so selecting the already-selected image destroys and
// recreates its overlay and modules. Fails without a live selection if
// the image is detached or a configured module cannot be initialized.
func (c *Controller) Select(img host.Image) error {
	if img == nil || !img.Attached() {
		return ErrDetachedImage
	}

	c.Deselect()

	c.mu.Lock()

	handle := overlay.New(c.opts.OverlayStyles)
	parent := c.editor.Parent()
	root := c.editor.Root()
	doc := c.editor.Document()

	// The overlay is positioned absolutely against the parent, which
	// therefore must establish a positioning context.
	if parent.Style("position") == "" {
		c.restores = append(c.restores, styleRestore{el: parent, name: "position"})
		parent.SetStyle("position", "relative")
	}
	parent.AppendChild(handle)

	c.suppressTextSelection(root)
	c.suppressTextSelection(doc.Root())

	// Key events are observed on the parent: it hosts the overlay, so
	// focusing it keeps keystrokes flowing while handles are dragged.
	parent.SetFocusable(true)
	parent.Focus()

	handlers := c.handlers
	if handlers.Key != nil {
		c.removers = append(c.removers, parent.OnKeyUp(handlers.Key))
	}
	if handlers.WindowClick != nil {
		c.removers = append(c.removers, doc.OnClickCapture(handlers.WindowClick))
	}
	c.removers = append(c.removers, func() {
		parent.RemoveChild(handle)
		parent.SetFocusable(false)
	})

	c.img = img
	c.handle = handle

	specs := c.opts.Modules
	options := c.opts.ModuleOptions
	c.mu.Unlock()

	c.editor.ClearTextSelection()
	overlay.Position(handle, img, parent)

	ctx := &module.Context{
		Image:   img,
		Overlay: handle,
		Owner:   c,
		Options: options,
	}
	if err := c.orch.Initialize(ctx, specs); err != nil {
		c.Deselect()
		return fmt.Errorf("initialize modules: %w", err)
	}
	return nil
}

// suppressTextSelection disables text selection on el for the lifetime
// of the current selection, recording the previous value. Must be
// called with c.mu held.
func (c *Controller) suppressTextSelection(el host.Element) {
	prev := el.Style("user-select")
	c.restores = append(c.restores, styleRestore{el: el, name: "user-select", prev: prev, had: prev != ""})
	el.SetStyle("user-select", "none")
}

// Deselect tears down the current selection: modules first, then the
// overlay, listeners, and style mutations. Calling it with no active
// selection is a no-op, and calling it twice is safe.
func (c *Controller) Deselect() {
	c.mu.Lock()
	if c.img == nil {
		c.mu.Unlock()
		return
	}
	removers := c.removers
	restores := c.restores
	c.img = nil
	c.handle = nil
	c.removers = nil
	c.restores = nil
	c.mu.Unlock()

	// Modules go first so they can still read overlay state while
	// shutting down. Reposition calls during teardown see no selection
	// and no-op.
	c.orch.Teardown()

	for _, remove := range removers {
		remove()
	}
	for _, r := range restores {
		r.apply()
	}
}

// Reposition realigns the overlay with the selected image and gives
// every live module an update pass. Without an active selection, or if
// the image has since left the document, it does nothing.
func (c *Controller) Reposition() {
	if !c.repositioning.CompareAndSwap(false, true) {
		return
	}
	defer c.repositioning.Store(false)

	c.mu.Lock()
	img, handle := c.img, c.handle
	c.mu.Unlock()
	if img == nil || handle == nil {
		return
	}

	overlay.Position(handle, img, c.editor.Parent())
	c.orch.UpdateAll()
}

// Selected returns the currently selected image, or nil.
func (c *Controller) Selected() host.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img
}

// Overlay returns the live overlay handle, or nil when nothing is
// selected.
func (c *Controller) Overlay() *overlay.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Active reports whether an image is currently selected.
func (c *Controller) Active() bool {
	return c.Selected() != nil
}

// Modules returns the live behavior module instances in configured
// order. Input routing uses it to reach the resize module during a
// drag.
func (c *Controller) Modules() []module.Module {
	return c.orch.Instances()
}
