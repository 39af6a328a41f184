// Package input routes host events to the selection lifecycle. The
// router is a small state machine over "nothing selected" and "image
// selected": clicks decide what is selected, and keys only matter
// while a selection is active.
package input

import (
	"errors"
	"fmt"
	"sync"

	"github.com/silentHoo/imagesel/internal/clipboard"
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/input/key"
	"github.com/silentHoo/imagesel/internal/selection"
)

// Logger is the logging surface the router needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Option configures a Router.
type Option func(*Router)

// WithNotify installs a callback for user-visible diagnostics, such as
// a failed clipboard export.
func WithNotify(fn func(msg string)) Option {
	return func(r *Router) { r.notify = fn }
}

// WithLogger installs a logger.
func WithLogger(l Logger) Option {
	return func(r *Router) { r.log = l }
}

// Router decides what clicks and keys mean for the current selection.
// Handlers are safe for concurrent use and never panic outward.
type Router struct {
	ctrl     *selection.Controller
	editor   host.Editor
	exporter *clipboard.Exporter
	notify   func(string)
	log      Logger

	wg sync.WaitGroup
}

// NewRouter wires a router to the controller it drives.
func NewRouter(ctrl *selection.Controller, editor host.Editor, exporter *clipboard.Exporter, opts ...Option) *Router {
	r := &Router{
		ctrl:     ctrl,
		editor:   editor,
		exporter: exporter,
		notify:   func(string) {},
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleClick processes a click inside the editable area. Any active
// selection is dropped first; if the click landed on an image, that
// image is then selected. Clicking the already-selected image thus
// recreates its selection from scratch.
func (r *Router) HandleClick(ev host.ClickEvent) {
	defer r.recoverPanic("click")

	r.ctrl.Deselect()

	img, ok := ev.Target.(host.Image)
	if !ok {
		return
	}
	if err := r.ctrl.Select(img); err != nil {
		r.log.Warn("select image %s: %v", img.ID(), err)
	}
}

// HandleWindowClick processes a document-level click in the capture
// phase. It only deselects when the click landed outside the editable
// area; clicks inside it, including on the overlay, are left for
// HandleClick to interpret.
func (r *Router) HandleWindowClick(ev host.ClickEvent) {
	defer r.recoverPanic("window click")

	if !r.ctrl.Active() {
		return
	}
	bounds, ok := r.editor.Root().Bounds()
	if !ok {
		// Editor left the document under us. Nothing sensible remains
		// selected.
		r.ctrl.Deselect()
		return
	}
	if !bounds.Contains(ev.Pos) {
		r.ctrl.Deselect()
	}
}

// HandleKey processes a key release from the editor root. It returns
// true when the key was consumed; unhandled keys and keys arriving
// with no selection pass through to the editor.
func (r *Router) HandleKey(ev key.Event) (handled bool) {
	defer r.recoverPanic("key")

	img := r.ctrl.Selected()
	if img == nil {
		return false
	}

	switch {
	case ev.IsDelete():
		r.deleteSelected(img)
		return true
	case ev.IsCopyChord():
		r.exportAsync(img, false)
		return true
	case ev.IsCutChord():
		r.exportAsync(img, true)
		return true
	}
	return false
}

// Wait blocks until all in-flight clipboard work has finished.
func (r *Router) Wait() {
	r.wg.Wait()
}

func (r *Router) deleteSelected(img host.Image) {
	if err := r.editor.DeleteImage(img); err != nil && !errors.Is(err, host.ErrImageNotFound) {
		r.log.Error("delete image %s: %v", img.ID(), err)
	}
	if r.ctrl.Selected() == img {
		r.ctrl.Deselect()
	}
}

// exportAsync copies img to the clipboard off the input path. A cut
// only deletes the image after the export succeeded; on any failure
// the image and its selection stay put.
func (r *Router) exportAsync(img host.Image, cut bool) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.recoverPanic("export")

		if err := r.exporter.Export(img); err != nil {
			if errors.Is(err, clipboard.ErrExportInFlight) {
				r.notify("clipboard busy, copy skipped")
			} else {
				r.notify(fmt.Sprintf("copy image failed: %v", err))
			}
			r.log.Warn("export image %s: %v", img.ID(), err)
			return
		}
		if cut {
			r.deleteSelected(img)
		}
	}()
}

func (r *Router) recoverPanic(where string) {
	if rec := recover(); rec != nil {
		r.log.Error("panic handling %s: %v", where, rec)
	}
}
